package recordstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Record is a single row of a record-store table in storage shape: canonical
// "_c" field names plus the store-managed system fields (Id, Name, CreatedOn).
type Record map[string]any

// ID returns the integer identity of the record, if present. The store
// reports identities as JSON numbers, so float64 is the common case.
func (r Record) ID() (int, bool) {
	v, ok := r["Id"]
	if !ok {
		return 0, false
	}
	id, err := CoerceID(v)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Condition is an equality filter on a storage field.
type Condition struct {
	Field  string
	Equals any
}

// ListOptions controls ordering, paging and filtering of a List call.
type ListOptions struct {
	OrderBy    string // storage field name, e.g. "CreatedOn"
	Descending bool
	Limit      int
	Offset     int
	Where      []Condition
}

// Gateway is the CRUD access layer to named record-store tables. Three
// implementations exist: RemoteGateway (hosted store), DatabaseGateway
// (Postgres/JSONB) and MemoryGateway (in-memory mock). Callers never see
// which one they hold; selection happens at composition time.
type Gateway interface {
	List(ctx context.Context, table string, opts ListOptions) ([]Record, error)
	GetByID(ctx context.Context, table string, id any) (Record, error)
	Create(ctx context.Context, table string, rec Record) (Record, error)
	Update(ctx context.Context, table string, id any, rec Record) (Record, error)
	Delete(ctx context.Context, table string, id any) (bool, error)

	Ping(ctx context.Context) error
	Close() error
}

// CoerceID normalizes an identity value to an integer before any gateway
// work happens. Non-numeric identities fail with ErrInvalidID and must never
// reach the transport.
func CoerceID(id any) (int, error) {
	switch v := id.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%w: %v", ErrInvalidID, v)
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidID, v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrInvalidID, id)
	}
}

// Clone returns a shallow copy safe to hand out of a gateway.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
