package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// field is a single JSON object member kept verbatim.
type field struct {
	key string
	raw json.RawMessage
}

// object is a JSON object that remembers its member order and the original
// text of every member, so records survive a load/save cycle untouched except
// for the members that were explicitly set.
type object struct {
	fields []field
}

func (o *object) decode(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	o.fields = o.fields[:0]
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decoding %q: %w", key, err)
		}
		o.fields = append(o.fields, field{key: key, raw: raw})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

func (o *object) encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalNoEscape(f.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(f.raw)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o *object) get(key string) (json.RawMessage, bool) {
	for _, f := range o.fields {
		if f.key == key {
			return f.raw, true
		}
	}
	return nil, false
}

func (o *object) set(key string, raw json.RawMessage) {
	for i := range o.fields {
		if o.fields[i].key == key {
			o.fields[i].raw = raw
			return
		}
	}
	o.fields = append(o.fields, field{key: key, raw: raw})
}

// getString returns the member as a string. ok is false when the member is
// missing; err is ErrValueNotString when it is present with another type.
func (o *object) getString(key string) (s string, ok bool, err error) {
	raw, ok := o.get(key)
	if !ok {
		return "", false, nil
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return "", true, ErrValueNotString
		}
		return "", true, err
	}
	// json.Unmarshal leaves s untouched for null.
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return "", true, ErrValueNotString
	}
	return s, true, nil
}

func (o *object) setString(key, value string) error {
	raw, err := marshalNoEscape(value)
	if err != nil {
		return err
	}
	o.set(key, raw)
	return nil
}

// marshalNoEscape encodes v without HTML escaping and without the trailing
// newline json.Encoder appends.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
