// Package schema declares, per entity table, the mapping between the
// display model (UI-facing field names, every scalar bound as a string) and
// the storage model (canonical "_c" suffixed record-store fields). It is the
// only package allowed to know both naming conventions.
package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/campus-suite/registry-service/internal/recordstore"
)

type Kind int

const (
	Text Kind = iota
	Date
	Numeric // integer, displayed as a text-input string
	Decimal // float, displayed as a text-input string
	Set     // []string in display, comma-joined text in storage
	Bool
)

// Field declares one entity attribute under both conventions. Legacy is the
// unsuffixed key still found on older records; it is read as a fallback and
// never written. An empty Legacy means the legacy key equals Display.
type Field struct {
	Display  string
	Storage  string
	Legacy   string
	Kind     Kind
	Required bool // numeric parse failures only error on required fields
}

func (f Field) legacyKey() string {
	if f.Legacy != "" {
		return f.Legacy
	}
	return f.Display
}

// Table is the full descriptor of one entity: its record-store table name,
// field list, the display fields the free-text filter inspects, the seeds of
// a create draft, the composite Name column, and linked-field behavior for
// drafts.
type Table struct {
	Name       string
	Label      string
	Fields     []Field
	Searchable []string

	// Defaults seeds a create draft (current dates and terms, so a func).
	Defaults func() map[string]any

	// NameOf computes the store's display Name column from a draft.
	NameOf func(draft map[string]any) string

	// OnChange lets a field edit adjust sibling draft fields (letter grade
	// filling points). May be nil.
	OnChange func(field string, value any, draft map[string]any)
}

// InvalidNumericError reports a required numeric display field that could
// not be parsed back to a number.
type InvalidNumericError struct {
	Field string
	Value string
}

func (e *InvalidNumericError) Error() string {
	return fmt.Sprintf("field %s: %q is not numeric", e.Field, e.Value)
}

// ToDisplay converts a storage record to a display model. Total over the
// declared field list: a field missing under both the canonical and the
// legacy key gets its zero display value. Unknown record fields are ignored.
func (t Table) ToDisplay(rec recordstore.Record) map[string]any {
	model := make(map[string]any, len(t.Fields)+1)
	if id, ok := rec.ID(); ok {
		model["Id"] = id
	}

	for _, f := range t.Fields {
		v, ok := rec[f.Storage]
		if !ok || v == nil {
			v, ok = rec[f.legacyKey()]
		}
		if !ok || v == nil {
			model[f.Display] = zeroDisplay(f.Kind)
			continue
		}

		switch f.Kind {
		case Text, Date:
			model[f.Display] = Stringify(v)
		case Numeric, Decimal:
			model[f.Display] = numericString(v)
		case Set:
			model[f.Display] = splitSet(Stringify(v))
		case Bool:
			model[f.Display] = asBool(v)
		}
	}
	return model
}

// ToStorage converts a display model back to a storage record carrying only
// canonical field names (plus the composite Name). Unknown or extra display
// fields are ignored, not errored. The identity is deliberately absent; the
// gateway owns it. Round trips through ToDisplay are lossless up to numeric
// canonicalization: "4.0" comes back as "4".
func (t Table) ToStorage(model map[string]any) (recordstore.Record, error) {
	rec := make(recordstore.Record, len(t.Fields)+1)

	for _, f := range t.Fields {
		v := model[f.Display]
		switch f.Kind {
		case Text, Date:
			rec[f.Storage] = Stringify(v)
		case Numeric:
			s := strings.TrimSpace(Stringify(v))
			if s == "" {
				if f.Required {
					return nil, &InvalidNumericError{Field: f.Display, Value: s}
				}
				rec[f.Storage] = 0
				continue
			}
			n, err := strconv.Atoi(s)
			if err != nil {
				return nil, &InvalidNumericError{Field: f.Display, Value: s}
			}
			rec[f.Storage] = n
		case Decimal:
			s := strings.TrimSpace(Stringify(v))
			if s == "" {
				if f.Required {
					return nil, &InvalidNumericError{Field: f.Display, Value: s}
				}
				rec[f.Storage] = 0.0
				continue
			}
			n, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, &InvalidNumericError{Field: f.Display, Value: s}
			}
			rec[f.Storage] = n
		case Set:
			rec[f.Storage] = strings.Join(asSet(v), ",")
		case Bool:
			rec[f.Storage] = asBool(v)
		}
	}

	if t.NameOf != nil {
		rec["Name"] = t.NameOf(model)
	}
	return rec, nil
}

// Field looks up a declared field by display name.
func (t Table) Field(display string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Display == display {
			return f, true
		}
	}
	return Field{}, false
}

// SearchText returns the lowercased text of one searchable display field,
// set fields joined for substring matching.
func SearchText(v any) string {
	switch s := v.(type) {
	case []string:
		return strings.ToLower(strings.Join(s, " "))
	default:
		return strings.ToLower(Stringify(v))
	}
}

func zeroDisplay(k Kind) any {
	switch k {
	case Set:
		return []string{}
	case Bool:
		return false
	default:
		return ""
	}
}

// Stringify renders a scalar for text-input binding.
func Stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []string:
		return strings.Join(s, ",")
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprint(v)
	}
}

func numericString(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case int:
		return strconv.Itoa(n)
	case string:
		return strings.TrimSpace(n)
	default:
		return Stringify(v)
	}
}

func splitSet(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func asSet(v any) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if trimmed := strings.TrimSpace(Stringify(item)); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	case string:
		return splitSet(s)
	case nil:
		return nil
	default:
		return splitSet(Stringify(v))
	}
}

func asBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "true"
	default:
		return false
	}
}
