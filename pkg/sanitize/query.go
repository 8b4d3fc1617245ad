package sanitize

import (
	"net/url"
	"time"
)

// Values holds a sanitized query string. Only the first value of each key
// is considered.
type Values map[string]any

// Query sanitizes every key of q, typed by types (string by default).
func Query(q url.Values, types map[string]FieldType) Values {
	out := make(Values, len(q))
	for k, vs := range q {
		if len(vs) == 0 {
			continue
		}
		t, ok := types[k]
		if !ok {
			t = TypeString
		}
		out[k] = ByType(vs[0], t)
	}
	return out
}

// String returns the sanitized text for key; empty text counts as missing.
func (v Values) String(key string) (string, bool) {
	s, ok := v[key].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

func (v Values) Number(key string) Opt[float64] {
	if o, ok := v[key].(Opt[float64]); ok {
		return o
	}
	return absent[float64]()
}

func (v Values) Date(key string) Opt[time.Time] {
	if o, ok := v[key].(Opt[time.Time]); ok {
		return o
	}
	return absent[time.Time]()
}

// Bool reports the value and whether key was present at all.
func (v Values) Bool(key string) (bool, bool) {
	b, ok := v[key].(bool)
	return b, ok
}
