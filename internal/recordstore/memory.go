package recordstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryGateway is the in-memory mock store used when no remote endpoint or
// database is configured. Identities are integers assigned monotonically per
// table starting at 1. Safe for concurrent use.
type MemoryGateway struct {
	mu     sync.RWMutex
	tables map[string][]Record
	nextID map[string]int

	now func() time.Time
}

func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{
		tables: make(map[string][]Record),
		nextID: make(map[string]int),
		now:    time.Now,
	}
}

// Seed loads initial records into a table, assigning identities in order.
// Intended for development fixtures and tests.
func (g *MemoryGateway) Seed(table string, recs []Record) {
	for _, rec := range recs {
		g.insert(table, rec)
	}
}

func (g *MemoryGateway) insert(table string, rec Record) Record {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.nextID[table] + 1
	g.nextID[table] = id

	stored := rec.Clone()
	stored["Id"] = id
	if _, ok := stored["CreatedOn"]; !ok {
		stored["CreatedOn"] = g.now().UTC().Format(time.RFC3339)
	}
	g.tables[table] = append(g.tables[table], stored)
	return stored.Clone()
}

func matches(rec Record, where []Condition) bool {
	for _, c := range where {
		got, ok := rec[c.Field]
		if !ok {
			return false
		}
		// Identities arrive as ints here and as float64 from JSON; compare
		// numerically when both sides coerce.
		if a, errA := CoerceID(got); errA == nil {
			if b, errB := CoerceID(c.Equals); errB == nil {
				if a != b {
					return false
				}
				continue
			}
		}
		if fmt.Sprint(got) != fmt.Sprint(c.Equals) {
			return false
		}
	}
	return true
}

func (g *MemoryGateway) List(_ context.Context, table string, opts ListOptions) ([]Record, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []Record
	for _, rec := range g.tables[table] {
		if matches(rec, opts.Where) {
			out = append(out, rec.Clone())
		}
	}

	// Insertion order tracks both Id and CreatedOn, so a stable sort on Id
	// covers every ordering the callers use.
	sort.SliceStable(out, func(i, j int) bool {
		a, _ := out[i].ID()
		b, _ := out[j].ID()
		if opts.Descending {
			return a > b
		}
		return a < b
	})

	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return []Record{}, nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(out) {
		out = out[:opts.Limit]
	}
	if out == nil {
		out = []Record{}
	}
	return out, nil
}

func (g *MemoryGateway) GetByID(_ context.Context, table string, id any) (Record, error) {
	n, err := CoerceID(id)
	if err != nil {
		return nil, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, rec := range g.tables[table] {
		if got, ok := rec.ID(); ok && got == n {
			return rec.Clone(), nil
		}
	}
	return nil, fmt.Errorf("%s id %d: %w", table, n, ErrNotFound)
}

func (g *MemoryGateway) Create(_ context.Context, table string, rec Record) (Record, error) {
	return g.insert(table, rec), nil
}

func (g *MemoryGateway) Update(_ context.Context, table string, id any, rec Record) (Record, error) {
	n, err := CoerceID(id)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	for i, stored := range g.tables[table] {
		got, ok := stored.ID()
		if !ok || got != n {
			continue
		}
		updated := stored.Clone()
		for k, v := range rec {
			if k == "Id" || k == "CreatedOn" {
				continue
			}
			updated[k] = v
		}
		updated["ModifiedOn"] = g.now().UTC().Format(time.RFC3339)
		g.tables[table][i] = updated
		return updated.Clone(), nil
	}
	return nil, fmt.Errorf("%s id %d: %w", table, n, ErrNotFound)
}

// Delete reports true iff a record was removed. A missing identity is not an
// error, mirroring the hosted store's empty batch result.
func (g *MemoryGateway) Delete(_ context.Context, table string, id any) (bool, error) {
	n, err := CoerceID(id)
	if err != nil {
		return false, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	recs := g.tables[table]
	for i, stored := range recs {
		if got, ok := stored.ID(); ok && got == n {
			g.tables[table] = append(recs[:i], recs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (g *MemoryGateway) Ping(context.Context) error { return nil }

func (g *MemoryGateway) Close() error { return nil }
