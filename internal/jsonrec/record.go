// Package jsonrec reads JSON objects field by field. Every field that is not
// read before Close is reported as an unknown field, so the caller never has
// to mutate the decoded input to find leftovers.
package jsonrec

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/ivlev/lottie2xaml/internal/diag"
)

// Record is one JSON object being read. The first error is sticky: once a
// read fails, later reads are no-ops and Close returns that error.
type Record struct {
	name   string
	fields map[string]json.RawMessage
	used   map[string]bool
	rep    *diag.Reporter
	err    error
}

// Open starts reading raw as an object named name. The name prefixes the
// paths used in diagnostics ("layer.ks", "keyframe.t").
func Open(name string, raw json.RawMessage, rep *diag.Reporter) *Record {
	r := &Record{name: name, used: make(map[string]bool), rep: rep}
	if err := json.Unmarshal(raw, &r.fields); err != nil || r.fields == nil {
		r.err = diag.Errorf(diag.InvalidValue, "'%s' is not an object", name)
	}
	return r
}

// Name returns the record name used in diagnostics.
func (r *Record) Name() string { return r.name }

// Err returns the first error encountered so far.
func (r *Record) Err() error { return r.err }

// Fail records err unless an earlier error is already stored.
func (r *Record) Fail(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

// Has reports whether key is present and not null. It does not consume the field.
func (r *Record) Has(key string) bool {
	v, ok := r.fields[key]
	return ok && !IsNull(v)
}

// Raw consumes key and returns its raw value, or nil when absent or null.
func (r *Record) Raw(key string) json.RawMessage {
	r.used[key] = true
	v, ok := r.fields[key]
	if !ok || IsNull(v) {
		return nil
	}
	return v
}

// MustRaw consumes key and fails the record when it is missing.
func (r *Record) MustRaw(key string) json.RawMessage {
	v := r.Raw(key)
	if v == nil {
		r.Fail(diag.Errorf(diag.MissingField, "Field not found '%s.%s'", r.name, key))
	}
	return v
}

// Skip consumes keys that are known but carry nothing the converter uses.
func (r *Record) Skip(keys ...string) {
	for _, k := range keys {
		r.used[k] = true
	}
}

// Decode consumes key into dst. It returns false when the key is absent.
func (r *Record) Decode(key string, dst any) bool {
	v := r.Raw(key)
	if v == nil || r.err != nil {
		return false
	}
	if err := json.Unmarshal(v, dst); err != nil {
		r.Fail(diag.Errorf(diag.InvalidValue, "Invalid value for '%s.%s': %v", r.name, key, err))
		return false
	}
	return true
}

// MustDecode is Decode for required fields.
func (r *Record) MustDecode(key string, dst any) {
	if !r.Has(key) {
		r.MustRaw(key)
		return
	}
	r.Decode(key, dst)
}

// Float returns a numeric field or def.
func (r *Record) Float(key string, def float64) float64 {
	v := def
	r.Decode(key, &v)
	return v
}

// MustFloat returns a required numeric field.
func (r *Record) MustFloat(key string) float64 {
	var v float64
	r.MustDecode(key, &v)
	return v
}

// Int returns a numeric field truncated to int. Lottie writers are not
// consistent about 1 versus 1.0, so integers are read as floats.
func (r *Record) Int(key string, def int) int {
	return int(r.Float(key, float64(def)))
}

// MustInt returns a required integer field.
func (r *Record) MustInt(key string) int {
	return int(r.MustFloat(key))
}

// String returns a string field or def.
func (r *Record) String(key, def string) string {
	v := def
	r.Decode(key, &v)
	return v
}

// MustString returns a required string field.
func (r *Record) MustString(key string) string {
	var v string
	r.MustDecode(key, &v)
	return v
}

// Bool accepts true/false as well as the 0/1 flags older exporters write.
func (r *Record) Bool(key string, def bool) bool {
	v := r.Raw(key)
	if v == nil || r.err != nil {
		return def
	}
	switch string(bytes.TrimSpace(v)) {
	case "true", "1":
		return true
	case "false", "0":
		return false
	}
	var f float64
	if err := json.Unmarshal(v, &f); err == nil {
		return f != 0
	}
	r.Fail(diag.Errorf(diag.InvalidValue, "Invalid flag '%s.%s'", r.name, key))
	return def
}

// Close reports every field that was never read and returns the sticky error.
func (r *Record) Close() error {
	if r.err != nil {
		return r.err
	}
	var unknown []string
	for k := range r.fields {
		if !r.used[k] {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		r.rep.Warnf(diag.UnknownField, "Ignored field '%s.%s'", r.name, k)
	}
	return nil
}

// IsNull reports whether raw is empty or the JSON null literal.
func IsNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || string(t) == "null"
}

// IsArray reports whether raw holds a JSON array.
func IsArray(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && t[0] == '['
}

// IsObject reports whether raw holds a JSON object.
func IsObject(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && t[0] == '{'
}

// AsList wraps a scalar or object in a one-element array; arrays pass through.
func AsList(raw json.RawMessage) json.RawMessage {
	if IsArray(raw) {
		return raw
	}
	out := make(json.RawMessage, 0, len(raw)+2)
	out = append(out, '[')
	out = append(out, bytes.TrimSpace(raw)...)
	return append(out, ']')
}

// Elements splits a JSON array into its raw elements.
func Elements(raw json.RawMessage) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, diag.Errorf(diag.InvalidValue, "expected an array: %v", err)
	}
	return items, nil
}

// Number reads a number that some exporters wrap in a one-element array.
func Number(raw json.RawMessage) (float64, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}
	var list []float64
	if err := json.Unmarshal(raw, &list); err != nil || len(list) == 0 {
		return 0, diag.Errorf(diag.InvalidValue, "expected a number, got %s", string(raw))
	}
	return list[0], nil
}
