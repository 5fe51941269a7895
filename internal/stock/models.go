package stock

import (
	"fmt"
	"strings"
	"unicode"
)

// Well-known field names of a promotion record.
const (
	FieldImg         = "img"
	FieldTitle       = "title"
	FieldReleaseDate = "release_date"
	FieldCategory    = "category"
	FieldDescription = "description"
)

// Field is one named text value of a Record.
type Field struct {
	Name  string `json:"name" bson:"name"`
	Value string `json:"value" bson:"value"`
}

// Record is a single "stock" (promotion) entry. Fields keep the order in
// which they were supplied; names are unique within a record.
type Record struct {
	Fields []Field
}

// ValidFieldName reports whether name can be stored as an XML child element:
// an XML name without a namespace prefix, Unicode letters included, not
// starting with the reserved "xml".
func ValidFieldName(name string) bool {
	if name == "" || strings.HasPrefix(strings.ToLower(name), "xml") {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || r == '\u00B7' || unicode.IsDigit(r) || unicode.In(r, unicode.Mn, unicode.Mc)):
		default:
			return false
		}
	}
	return true
}

// NewRecord builds a record from name/value pairs, e.g.
// NewRecord("title", "Tesla", "value", "800").
func NewRecord(kv ...string) Record {
	var r Record
	for i := 0; i+1 < len(kv); i += 2 {
		r.Set(kv[i], kv[i+1])
	}
	return r
}

// Get returns the value of the named field and whether it is present.
func (r Record) Get(name string) (string, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Set replaces the value of an existing field or appends a new one.
func (r *Record) Set(name, value string) {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			r.Fields[i].Value = value
			return
		}
	}
	r.Fields = append(r.Fields, Field{Name: name, Value: value})
}

// Accessors for the well-known fields; absent fields read as "".
func (r Record) Title() string       { v, _ := r.Get(FieldTitle); return v }
func (r Record) Img() string         { v, _ := r.Get(FieldImg); return v }
func (r Record) ReleaseDate() string { v, _ := r.Get(FieldReleaseDate); return v }
func (r Record) Category() string    { v, _ := r.Get(FieldCategory); return v }
func (r Record) Description() string { v, _ := r.Get(FieldDescription); return v }

func (r *Record) remove(name string) {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			r.Fields = append(r.Fields[:i], r.Fields[i+1:]...)
			return
		}
	}
}

// Validate checks field names. Title presence is a service rule, not a
// storage rule, so stored records without a title still load.
func (r Record) Validate() error {
	seen := make(map[string]struct{}, len(r.Fields))
	for _, f := range r.Fields {
		if !ValidFieldName(f.Name) {
			return fmt.Errorf("invalid field name %q", f.Name)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("duplicate field %q", f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

// Clone returns a deep copy so callers can't mutate stored state.
func (r Record) Clone() Record {
	out := Record{Fields: make([]Field, len(r.Fields))}
	copy(out.Fields, r.Fields)
	return out
}
