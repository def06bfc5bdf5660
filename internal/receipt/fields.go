// internal/receipt/fields.go
package receipt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Fields is an ordered set of named string values. Lookups never fail:
// a missing or blank value resolves to the caller's default.
type Fields struct {
	keys   []string
	values map[string]string
}

// NewFields builds a field set from key, value pairs
func NewFields(pairs ...string) Fields {
	var f Fields
	for i := 0; i+1 < len(pairs); i += 2 {
		f.Set(pairs[i], pairs[i+1])
	}
	return f
}

// Set adds or replaces key, keeping its first position
func (f *Fields) Set(key, value string) {
	if f.values == nil {
		f.values = make(map[string]string)
	}
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// Get returns the value of key, or def when it is absent or blank
func (f Fields) Get(key, def string) string {
	v, ok := f.values[key]
	if !ok || strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// Keys returns the keys in insertion order
func (f Fields) Keys() []string {
	return append([]string(nil), f.keys...)
}

// Len returns the number of fields
func (f Fields) Len() int {
	return len(f.keys)
}

// UnmarshalJSON reads a flat JSON object keeping the key order. Numbers are
// rendered without a fractional part when integral, null reads as blank and
// nested values are rejected.
func (f *Fields) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("receipt fields must be a JSON object")
	}

	*f = Fields{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key := tok.(string)

		tok, err = dec.Token()
		if err != nil {
			return err
		}
		switch v := tok.(type) {
		case string:
			f.Set(key, v)
		case json.Number:
			f.Set(key, FormatNumber(v.String()))
		case bool:
			f.Set(key, fmt.Sprint(v))
		case nil:
			f.Set(key, "")
		default:
			return fmt.Errorf("receipt field %q must be a string or a number", key)
		}
	}

	_, err = dec.Token()
	return err
}

// MarshalJSON writes the fields as an object in insertion order
func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range f.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// FormatNumber drops a zero fraction: "1600.0" becomes "1600". Anything
// that is not a number is returned unchanged.
func FormatNumber(s string) string {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return s
	}
	return d.String()
}

// FormatMoney renders an amount in whole dong with "." thousands
// separators: "375157002" becomes "375.157.002". Non numeric input is
// returned unchanged.
func FormatMoney(s string) string {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return s
	}

	digits := d.Abs().Round(0).StringFixed(0)
	var b strings.Builder
	if d.Round(0).IsNegative() {
		b.WriteByte('-')
	}
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	return b.String()
}
