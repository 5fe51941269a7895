package stock

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrNotObject is returned when a record payload is not a JSON object.
var ErrNotObject = errors.New("record must be a JSON object")

// MarshalJSON renders every field as a single-element array, keeping field
// order: {"title":["Apple"],"value":["170"]}.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal([]string{f.Value})
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts an object whose values are strings, numbers,
// booleans or single-element arrays of those. null values are skipped.
// Key order is kept; a repeated key keeps its first position and last value.
// A title given as false or a numeric zero counts as absent.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return ErrNotObject
	}

	var out Record
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected key token %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		value, present, err := scalarValue(raw)
		if err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		switch {
		case key == FieldTitle && falsyScalar(raw):
			out.remove(key)
		case present:
			out.Set(key, value)
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = out
	return nil
}

func scalarValue(raw json.RawMessage) (string, bool, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return "", false, err
	}
	if list, ok := v.([]interface{}); ok {
		if len(list) != 1 {
			return "", false, fmt.Errorf("expected a single value, got %d", len(list))
		}
		v = list[0]
		if v == nil {
			return "", false, errors.New("null array element")
		}
	}
	switch t := v.(type) {
	case nil:
		return "", false, nil
	case string:
		return t, true, nil
	case json.Number:
		return t.String(), true, nil
	case bool:
		return strconv.FormatBool(t), true, nil
	}
	return "", false, errors.New("nested values are not supported")
}

// falsyScalar reports whether raw is a bare false or a number equal to zero.
func falsyScalar(raw json.RawMessage) bool {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return !t
	case json.Number:
		f, err := t.Float64()
		return err == nil && f == 0
	}
	return false
}
