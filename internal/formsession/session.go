// Package formsession coordinates one create-or-edit interaction for one
// entity record: draft lifecycle, optimistic error clearing, and the strict
// validate → adapt → persist → notify submission order.
package formsession

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/campus-suite/registry-service/internal/events"
	"github.com/campus-suite/registry-service/internal/recordstore"
	"github.com/campus-suite/registry-service/internal/schema"
	"github.com/campus-suite/registry-service/internal/validator"
)

type State int

const (
	Closed State = iota
	OpenForCreate
	OpenForEdit
	Submitting
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case OpenForCreate:
		return "open_for_create"
	case OpenForEdit:
		return "open_for_edit"
	case Submitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// ErrNotOpen is returned when an operation requires an open session.
var ErrNotOpen = errors.New("form session is not open")

// Session is the state machine behind one modal form. Not safe for
// concurrent use; each interaction owns its session exclusively.
type Session struct {
	table     schema.Table
	rules     validator.RuleSet
	gateway   recordstore.Gateway
	publisher *events.Publisher

	state       State
	draft       map[string]any
	fieldErrors map[string]string
	recordID    int
	editing     bool
}

// New builds a closed session. The publisher may be nil when change
// notifications are not wanted.
func New(table schema.Table, rules validator.RuleSet, gateway recordstore.Gateway, publisher *events.Publisher) *Session {
	return &Session{
		table:     table,
		rules:     rules,
		gateway:   gateway,
		publisher: publisher,
	}
}

// OpenForCreate seeds a fresh draft: zero display values for every declared
// field, overlaid with the entity's defaults (current term, today's date).
func (s *Session) OpenForCreate() {
	draft := make(map[string]any, len(s.table.Fields))
	for _, f := range s.table.Fields {
		draft[f.Display] = zeroValue(f.Kind)
	}
	if s.table.Defaults != nil {
		for k, v := range s.table.Defaults() {
			draft[k] = v
		}
	}

	s.draft = draft
	s.fieldErrors = map[string]string{}
	s.recordID = 0
	s.editing = false
	s.state = OpenForCreate
}

// OpenForEdit seeds the draft from an existing storage record. The record
// must carry its identity; that identity is immutable for the session.
func (s *Session) OpenForEdit(rec recordstore.Record) error {
	id, ok := rec.ID()
	if !ok {
		return fmt.Errorf("%w: record has no identity", recordstore.ErrInvalidID)
	}

	s.draft = s.table.ToDisplay(rec)
	s.fieldErrors = map[string]string{}
	s.recordID = id
	s.editing = true
	s.state = OpenForEdit
	return nil
}

// SetField updates one draft field. A displayed error on that field is
// cleared optimistically, without re-running validation, until the next
// submission attempt. Linked fields (letter grade → points) update through
// the table's OnChange hook, which fires only when the value actually
// changes: re-submitting an untouched letter must not re-derive points that
// were edited independently.
func (s *Session) SetField(name string, value any) error {
	if s.state != OpenForCreate && s.state != OpenForEdit {
		return ErrNotOpen
	}

	prev, had := s.draft[name]
	s.draft[name] = value
	delete(s.fieldErrors, name)
	if s.table.OnChange != nil && (!had || !reflect.DeepEqual(prev, value)) {
		s.table.OnChange(name, value, s.draft)
	}
	return nil
}

// Apply sets several fields at once. Declared fields go in schema order so
// linked-field derivations land before an explicit value for their target;
// undeclared fields follow, their relative order immaterial.
func (s *Session) Apply(fields map[string]any) error {
	for _, f := range s.table.Fields {
		if value, ok := fields[f.Display]; ok {
			if err := s.SetField(f.Display, value); err != nil {
				return err
			}
		}
	}
	for name, value := range fields {
		if _, declared := s.table.Field(name); declared {
			continue
		}
		if err := s.SetField(name, value); err != nil {
			return err
		}
	}
	return nil
}

// Submit runs validation, adapts the draft to storage shape and persists it.
// Validation failures keep the session open with errors attached and never
// reach the gateway. Gateway failures reopen the session with the draft
// intact so no input is lost. Success closes the session and returns the
// persisted record, including a newly assigned identity on create.
func (s *Session) Submit(ctx context.Context) (recordstore.Record, error) {
	if s.state != OpenForCreate && s.state != OpenForEdit {
		return nil, ErrNotOpen
	}
	openState := s.state

	if errs := s.rules.Validate(s.draft); len(errs) > 0 {
		s.fieldErrors = errs
		return nil, &validator.RejectedError{Fields: errs}
	}

	s.state = Submitting

	storage, err := s.table.ToStorage(s.draft)
	if err != nil {
		s.state = openState
		return nil, err
	}

	var (
		persisted recordstore.Record
		action    events.Action
	)
	if s.editing {
		persisted, err = s.gateway.Update(ctx, s.table.Name, s.recordID, storage)
		action = events.ActionUpdated
	} else {
		persisted, err = s.gateway.Create(ctx, s.table.Name, storage)
		action = events.ActionCreated
	}
	if err != nil {
		// Draft survives so the user does not lose input.
		s.state = openState
		return nil, err
	}

	if s.publisher != nil {
		if id, ok := persisted.ID(); ok {
			s.publisher.Publish(events.RecordEvent{
				Table:    s.table.Name,
				Action:   action,
				RecordID: id,
			})
		}
	}

	s.state = Closed
	s.draft = nil
	s.fieldErrors = nil
	return persisted, nil
}

// Cancel discards the draft unconditionally from any state.
func (s *Session) Cancel() {
	s.state = Closed
	s.draft = nil
	s.fieldErrors = nil
	s.recordID = 0
	s.editing = false
}

func (s *Session) State() State { return s.state }

// Draft returns a copy of the in-progress display model.
func (s *Session) Draft() map[string]any {
	out := make(map[string]any, len(s.draft))
	for k, v := range s.draft {
		out[k] = v
	}
	return out
}

// FieldErrors returns a copy of the currently displayed errors.
func (s *Session) FieldErrors() map[string]string {
	out := make(map[string]string, len(s.fieldErrors))
	for k, v := range s.fieldErrors {
		out[k] = v
	}
	return out
}

// RecordID reports the identity being edited, zero for create sessions.
func (s *Session) RecordID() int { return s.recordID }

func zeroValue(k schema.Kind) any {
	switch k {
	case schema.Set:
		return []string{}
	case schema.Bool:
		return false
	default:
		return ""
	}
}
