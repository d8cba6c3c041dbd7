package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/campus-suite/registry-service/internal/events"
	"github.com/campus-suite/registry-service/internal/recordstore"
	"github.com/campus-suite/registry-service/internal/schema"
	"github.com/campus-suite/registry-service/internal/validator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStudentService(g recordstore.Gateway) EntityService {
	return NewEntityService(schema.Students, validator.StudentRules, g, nil, testLogger())
}

func studentDraft(suffix string) map[string]any {
	return map[string]any{
		"firstName": "Ada" + suffix,
		"lastName":  "Lovelace",
		"email":     "ada" + suffix + "@example.edu",
		"studentId": "STU-" + suffix,
		"major":     "Mathematics",
		"year":      "Sophomore",
	}
}

func TestEntityServiceCreateAndGet(t *testing.T) {
	svc := newStudentService(recordstore.NewMemoryGateway())
	ctx := context.Background()

	created, err := svc.Create(ctx, studentDraft("01"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created["Id"] != 1 {
		t.Errorf("Id = %v, want 1", created["Id"])
	}
	if created["firstName"] != "Ada01" {
		t.Errorf("firstName = %v (display shape expected)", created["firstName"])
	}

	got, err := svc.Get(ctx, "1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got["email"] != "ada01@example.edu" {
		t.Errorf("email = %v", got["email"])
	}
}

func TestEntityServiceCreateRejectsInvalidDraft(t *testing.T) {
	g := recordstore.NewMemoryGateway()
	svc := newStudentService(g)

	_, err := svc.Create(context.Background(), map[string]any{"firstName": "Ada"})

	var rejected *validator.RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("Create() error = %v, want RejectedError", err)
	}
	if rejected.Fields["lastName"] != "Last name is required" {
		t.Errorf("fields = %v", rejected.Fields)
	}

	recs, _ := g.List(context.Background(), schema.Students.Name, recordstore.ListOptions{})
	if len(recs) != 0 {
		t.Errorf("rejected draft reached the store: %d records", len(recs))
	}
}

func TestEntityServiceUpdate(t *testing.T) {
	svc := newStudentService(recordstore.NewMemoryGateway())
	ctx := context.Background()

	created, err := svc.Create(ctx, studentDraft("01"))
	if err != nil {
		t.Fatal(err)
	}

	updated, err := svc.Update(ctx, created["Id"], map[string]any{"major": "Computing"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated["major"] != "Computing" {
		t.Errorf("major = %v", updated["major"])
	}
	if updated["firstName"] != "Ada01" {
		t.Errorf("untouched field lost: firstName = %v", updated["firstName"])
	}
	if updated["Id"] != created["Id"] {
		t.Errorf("identity changed: %v -> %v", created["Id"], updated["Id"])
	}

	if _, err := svc.Update(ctx, 99, map[string]any{"major": "X"}); !errors.Is(err, recordstore.ErrNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrNotFound", err)
	}
}

func TestEntityServiceDelete(t *testing.T) {
	svc := newStudentService(recordstore.NewMemoryGateway())
	ctx := context.Background()

	created, _ := svc.Create(ctx, studentDraft("01"))

	deleted, err := svc.Delete(ctx, created["Id"])
	if err != nil || !deleted {
		t.Fatalf("Delete() = %v, %v", deleted, err)
	}

	deleted, err = svc.Delete(ctx, created["Id"])
	if err != nil || deleted {
		t.Fatalf("second Delete() = %v, %v, want false, nil", deleted, err)
	}
}

func TestEntityServiceListSearchAndPage(t *testing.T) {
	svc := newStudentService(recordstore.NewMemoryGateway())
	ctx := context.Background()

	for _, suffix := range []string{"01", "02", "03"} {
		if _, err := svc.Create(ctx, studentDraft(suffix)); err != nil {
			t.Fatal(err)
		}
	}

	all, err := svc.List(ctx, "", 1, 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if all.TotalItems != 3 || len(all.Items) != 2 {
		t.Errorf("page = %d/%d items", len(all.Items), all.TotalItems)
	}

	filtered, err := svc.List(ctx, "ada02", 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if filtered.TotalItems != 1 {
		t.Errorf("filtered TotalItems = %d, want 1", filtered.TotalItems)
	}
}

func TestEntityServiceListBy(t *testing.T) {
	g := recordstore.NewMemoryGateway()
	grades := NewEntityService(schema.Grades, validator.GradeRules, g, nil, testLogger())
	ctx := context.Background()

	for _, draft := range []map[string]any{
		{"studentId": "1", "courseId": "10", "grade": "A", "semester": "Fall", "year": "2026"},
		{"studentId": "2", "courseId": "10", "grade": "B", "semester": "Fall", "year": "2026"},
		{"studentId": "1", "courseId": "11", "grade": "C", "semester": "Fall", "year": "2026"},
	} {
		if _, err := grades.Create(ctx, draft); err != nil {
			t.Fatal(err)
		}
	}

	ofStudent, err := grades.ListBy(ctx, "studentId", 1)
	if err != nil {
		t.Fatalf("ListBy() error = %v", err)
	}
	if len(ofStudent) != 2 {
		t.Errorf("grades of student 1 = %d, want 2", len(ofStudent))
	}

	ofCourse, err := grades.ListBy(ctx, "courseId", "10")
	if err != nil {
		t.Fatal(err)
	}
	if len(ofCourse) != 2 {
		t.Errorf("grades of course 10 = %d, want 2", len(ofCourse))
	}

	if _, err := grades.ListBy(ctx, "noSuchField", 1); err == nil {
		t.Error("ListBy(unknown field) should fail")
	}
}

func TestUpdateKeepsManuallyEditedPoints(t *testing.T) {
	g := recordstore.NewMemoryGateway()
	grades := NewEntityService(schema.Grades, validator.GradeRules, g, nil, testLogger())
	ctx := context.Background()

	created, err := grades.Create(ctx, map[string]any{
		"studentId": "1", "courseId": "2",
		"grade": "A", "semester": "Fall", "year": "2026",
	})
	if err != nil {
		t.Fatal(err)
	}
	if created["points"] != "4" {
		t.Fatalf("derived points = %v", created["points"])
	}

	// Edit forms resubmit the whole draft; the unchanged letter must not
	// clobber the points the user just set.
	updated, err := grades.Update(ctx, created["Id"], map[string]any{
		"grade":  "A",
		"points": "3.5",
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated["points"] != "3.5" {
		t.Errorf("points = %v, want \"3.5\"", updated["points"])
	}
}

func TestEntityServicePublishesEvents(t *testing.T) {
	pub := events.NewGoChannelPublisher(testLogger())
	t.Cleanup(func() { pub.Close() })

	sub, _ := pub.Subscriber()
	ctx := context.Background()
	messages, err := sub.Subscribe(ctx, events.Topic)
	if err != nil {
		t.Fatal(err)
	}

	svc := NewEntityService(schema.Students, validator.StudentRules, recordstore.NewMemoryGateway(), pub, testLogger())

	// Publish blocks until the subscriber reads, so create concurrently.
	done := make(chan error, 1)
	go func() {
		_, err := svc.Create(ctx, studentDraft("01"))
		done <- err
	}()

	select {
	case msg := <-messages:
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("no event after create")
	}
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}
