package recordstore

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryGatewayCreateAssignsMonotonicIDs(t *testing.T) {
	g := NewMemoryGateway()
	ctx := context.Background()

	first, err := g.Create(ctx, "student_c", Record{"first_name_c": "Ada"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	second, err := g.Create(ctx, "student_c", Record{"first_name_c": "Grace"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if id, _ := first.ID(); id != 1 {
		t.Errorf("first id = %d, want 1", id)
	}
	if id, _ := second.ID(); id != 2 {
		t.Errorf("second id = %d, want 2", id)
	}
	if first["CreatedOn"] == nil {
		t.Error("CreatedOn not stamped")
	}

	// Identity sequences are per table.
	other, _ := g.Create(ctx, "course_c", Record{"title_c": "Algorithms"})
	if id, _ := other.ID(); id != 1 {
		t.Errorf("other table first id = %d, want 1", id)
	}
}

func TestMemoryGatewayGetByID(t *testing.T) {
	g := NewMemoryGateway()
	ctx := context.Background()
	created, _ := g.Create(ctx, "student_c", Record{"first_name_c": "Ada"})
	id, _ := created.ID()

	got, err := g.GetByID(ctx, "student_c", id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got["first_name_c"] != "Ada" {
		t.Errorf("first_name_c = %v", got["first_name_c"])
	}

	// String identities coerce.
	if _, err := g.GetByID(ctx, "student_c", "1"); err != nil {
		t.Errorf("GetByID(string id) error = %v", err)
	}

	if _, err := g.GetByID(ctx, "student_c", 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := g.GetByID(ctx, "student_c", "abc"); !errors.Is(err, ErrInvalidID) {
		t.Errorf("GetByID(bad id) error = %v, want ErrInvalidID", err)
	}
}

func TestMemoryGatewayUpdatePreservesIdentity(t *testing.T) {
	g := NewMemoryGateway()
	ctx := context.Background()
	created, _ := g.Create(ctx, "student_c", Record{"first_name_c": "Ada", "major_c": "Math"})
	id, _ := created.ID()

	updated, err := g.Update(ctx, "student_c", id, Record{
		"first_name_c": "Ada",
		"major_c":      "Computing",
		"Id":           999, // must be ignored
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if got, _ := updated.ID(); got != id {
		t.Errorf("id after update = %d, want %d", got, id)
	}
	if updated["major_c"] != "Computing" {
		t.Errorf("major_c = %v", updated["major_c"])
	}
	if updated["CreatedOn"] != created["CreatedOn"] {
		t.Error("CreatedOn changed on update")
	}
	if updated["ModifiedOn"] == nil {
		t.Error("ModifiedOn not stamped")
	}

	if _, err := g.Update(ctx, "student_c", 42, Record{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrNotFound", err)
	}
}

func TestMemoryGatewayDelete(t *testing.T) {
	g := NewMemoryGateway()
	ctx := context.Background()
	created, _ := g.Create(ctx, "student_c", Record{"first_name_c": "Ada"})
	id, _ := created.ID()

	deleted, err := g.Delete(ctx, "student_c", id)
	if err != nil || !deleted {
		t.Fatalf("Delete() = %v, %v, want true, nil", deleted, err)
	}

	// Deleting the same identity again is false, not an error.
	deleted, err = g.Delete(ctx, "student_c", id)
	if err != nil || deleted {
		t.Fatalf("second Delete() = %v, %v, want false, nil", deleted, err)
	}

	if _, err := g.GetByID(ctx, "student_c", id); !errors.Is(err, ErrNotFound) {
		t.Errorf("record still readable after delete: %v", err)
	}
}

func TestMemoryGatewayListFilterAndPaging(t *testing.T) {
	g := NewMemoryGateway()
	ctx := context.Background()
	g.Seed("grade_c", []Record{
		{"student_id_c": 1, "grade_c": "A"},
		{"student_id_c": 2, "grade_c": "B"},
		{"student_id_c": 1, "grade_c": "C"},
		{"student_id_c": 1, "grade_c": "B+"},
	})

	byStudent, err := g.List(ctx, "grade_c", ListOptions{
		Where: []Condition{{Field: "student_id_c", Equals: 1}},
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(byStudent) != 3 {
		t.Fatalf("filtered len = %d, want 3", len(byStudent))
	}

	// JSON-shaped identities (float64) match stored ints.
	byStudentJSON, _ := g.List(ctx, "grade_c", ListOptions{
		Where: []Condition{{Field: "student_id_c", Equals: float64(1)}},
	})
	if len(byStudentJSON) != 3 {
		t.Errorf("float64 filter len = %d, want 3", len(byStudentJSON))
	}

	desc, _ := g.List(ctx, "grade_c", ListOptions{Descending: true, Limit: 2})
	if len(desc) != 2 {
		t.Fatalf("limited len = %d, want 2", len(desc))
	}
	if id, _ := desc[0].ID(); id != 4 {
		t.Errorf("first desc id = %d, want 4", id)
	}

	page2, _ := g.List(ctx, "grade_c", ListOptions{Limit: 2, Offset: 2})
	if len(page2) != 2 {
		t.Errorf("offset page len = %d, want 2", len(page2))
	}

	beyond, _ := g.List(ctx, "grade_c", ListOptions{Offset: 10})
	if len(beyond) != 0 {
		t.Errorf("beyond-range len = %d, want 0", len(beyond))
	}
}
