// Package sanitize normalizes untrusted input before validation. Text is
// trimmed, stripped of markup and truncated; scalars are converted leniently
// into optionals so callers can tell "missing" from "present but garbage".
package sanitize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

type FieldType string

const (
	TypeString   FieldType = "string"
	TypeEmail    FieldType = "email"
	TypePassword FieldType = "password"
	TypeName     FieldType = "name"
	TypeURL      FieldType = "url"
	TypeNumber   FieldType = "number"
	TypeBoolean  FieldType = "boolean"
	TypeDate     FieldType = "date"
	TypeJSON     FieldType = "json"
)

const (
	MaxStringLength   = 1000
	MaxEmailLength    = 255
	MaxNameLength     = 100
	MaxPasswordLength = 128
)

var (
	strict = bluemonday.StrictPolicy()

	// bluemonday escapes every text node; quotes and ampersands are harmless
	// in JSON output so they are restored. Angle brackets stay escaped.
	unescape = strings.NewReplacer("&#39;", "'", "&#34;", `"`, "&amp;", "&")

	dateLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
)

func stripMarkup(s string) string {
	return unescape.Replace(strict.Sanitize(strings.TrimSpace(s)))
}

func truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max])
}

// String trims, strips markup and truncates to MaxStringLength runes.
func String(s string) string { return truncate(stripMarkup(s), MaxStringLength) }

// Email is String with case folding and the email length limit.
func Email(s string) string {
	return truncate(stripMarkup(strings.ToLower(s)), MaxEmailLength)
}

func Name(s string) string { return truncate(stripMarkup(s), MaxNameLength) }

func Password(s string) string { return truncate(stripMarkup(s), MaxPasswordLength) }

// URL strips markup without truncation.
func URL(s string) string { return stripMarkup(s) }

// Number converts v to a finite float64.
func Number(v any) Opt[float64] {
	switch x := v.(type) {
	case nil:
		return absent[float64]()
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return absent[float64]()
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return invalid[float64]()
		}
		return finite(f)
	case float64:
		return finite(x)
	case float32:
		return finite(float64(x))
	case int:
		return some(float64(x))
	case int32:
		return some(float64(x))
	case int64:
		return some(float64(x))
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return invalid[float64]()
		}
		return finite(f)
	case bool:
		if x {
			return some(1.0)
		}
		return some(0.0)
	default:
		return invalid[float64]()
	}
}

func finite(f float64) Opt[float64] {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return invalid[float64]()
	}
	return some(f)
}

// Boolean is true for true, non-zero numbers and the strings
// "true", "1" and "yes" in any case.
func Boolean(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "1", "yes":
			return true
		}
		return false
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0 && !math.IsNaN(x)
	default:
		return true
	}
}

// Date parses RFC 3339 timestamps, plain dates, and unix milliseconds.
// Values without a zone are read as UTC.
func Date(v any) Opt[time.Time] {
	switch x := v.(type) {
	case nil:
		return absent[time.Time]()
	case time.Time:
		if x.IsZero() {
			return absent[time.Time]()
		}
		return some(x)
	case *time.Time:
		if x == nil || x.IsZero() {
			return absent[time.Time]()
		}
		return some(*x)
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return absent[time.Time]()
		}
		for _, layout := range dateLayouts {
			if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
				return some(t)
			}
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return some(time.UnixMilli(ms).UTC())
		}
		return invalid[time.Time]()
	case int64:
		return some(time.UnixMilli(x).UTC())
	case int:
		return some(time.UnixMilli(int64(x)).UTC())
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return invalid[time.Time]()
		}
		return some(time.UnixMilli(int64(x)).UTC())
	default:
		return invalid[time.Time]()
	}
}

// JSON decodes string input; anything else is returned unchanged.
func JSON(v any) Opt[any] {
	s, ok := v.(string)
	if !ok {
		if v == nil {
			return absent[any]()
		}
		return some(v)
	}
	if strings.TrimSpace(s) == "" {
		return absent[any]()
	}
	var out any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return invalid[any]()
	}
	return some(out)
}

// ByType applies the conversion for t. Text types leave non-string values
// untouched; unknown types are treated as TypeString.
func ByType(v any, t FieldType) any {
	switch t {
	case TypeNumber:
		return Number(v)
	case TypeBoolean:
		return Boolean(v)
	case TypeDate:
		return Date(v)
	case TypeJSON:
		return JSON(v)
	}
	s, ok := v.(string)
	if !ok {
		return v
	}
	switch t {
	case TypeEmail:
		return Email(s)
	case TypePassword:
		return Password(s)
	case TypeName:
		return Name(s)
	case TypeURL:
		return URL(s)
	default:
		return String(s)
	}
}

// Object returns a sanitized copy of in. Keys without a declared type are
// sanitized as strings. in is not modified.
func Object(in map[string]any, types map[string]FieldType) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		t, ok := types[k]
		if !ok {
			t = TypeString
		}
		out[k] = ByType(v, t)
	}
	return out
}
