package sanitize

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextTypes(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"trims and strips tags", String, "  <b>Alice</b>  ", "Alice"},
		{"drops script bodies", String, "<script>alert(1)</script>Bob", "Bob"},
		{"drops event handler markup", Name, `<img src=x onerror="alert(1)">Carol`, "Carol"},
		{"keeps quotes and ampersands", Name, "O'Brien & \"Sons\"", "O'Brien & \"Sons\""},
		{"folds email case", Email, "  Alice@Example.COM ", "alice@example.com"},
		{"trims password", Password, "  secret123  ", "secret123"},
		{"keeps url query", URL, " https://example.com/?a=1&b=2 ", "https://example.com/?a=1&b=2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(tt.in))
		})
	}
}

func TestTextNeverContainsOpeningTag(t *testing.T) {
	inputs := []string{
		"<script>alert('x')</script>",
		"<<script>script>alert(1)<</script>/script>",
		"a < b",
		"&lt;script&gt;alert(1)&lt;/script&gt;",
		"&amp;lt;script&amp;gt;",
		`"><svg onload=alert(1)>`,
		"<iframe src=javascript:alert(1)></iframe>",
		"<form action=x><input name=y></form>",
	}
	for _, in := range inputs {
		for _, fn := range []func(string) string{String, Email, Name, Password, URL} {
			out := fn(in)
			assert.NotContains(t, out, "<", "input %q", in)
			assert.NotContains(t, strings.ToLower(out), "<script", "input %q", in)
		}
	}
}

func TestTruncation(t *testing.T) {
	assert.Len(t, []rune(Name(strings.Repeat("é", 150))), MaxNameLength)
	assert.Len(t, Email(strings.Repeat("a", 300)), MaxEmailLength)
	assert.Len(t, Password(strings.Repeat("p", 200)), MaxPasswordLength)
	assert.Len(t, String(strings.Repeat("s", 1200)), MaxStringLength)

	long := "https://example.com/" + strings.Repeat("a", 2000)
	assert.Equal(t, long, URL(long))
}

func TestNumber(t *testing.T) {
	n, ok := Number("42").Get()
	require.True(t, ok)
	assert.Equal(t, 42.0, n)

	assert.Equal(t, 1000.0, Number(" 1e3 ").Or(0))
	assert.Equal(t, 7.0, Number(7).Or(0))

	assert.True(t, Number(nil).Absent())
	assert.True(t, Number("").Absent())
	assert.True(t, Number("   ").Absent())
	assert.True(t, Number("abc").Invalid())
	assert.True(t, Number("NaN").Invalid())
	assert.True(t, Number(struct{}{}).Invalid())
	assert.Nil(t, Number("abc").Ptr())
}

func TestBoolean(t *testing.T) {
	for _, s := range []string{"true", "TRUE", "1", "yes", "Yes"} {
		assert.True(t, Boolean(s), s)
	}
	for _, s := range []string{"false", "0", "no", "", "maybe"} {
		assert.False(t, Boolean(s), s)
	}
	assert.True(t, Boolean(true))
	assert.False(t, Boolean(nil))
	assert.False(t, Boolean(0))
	assert.True(t, Boolean(3))
}

func TestDate(t *testing.T) {
	d, ok := Date("2024-01-15").Get()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), d)

	d, ok = Date("2024-01-15T10:30:00+02:00").Get()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC), d.UTC())

	d, ok = Date("1700000000000").Get()
	require.True(t, ok)
	assert.Equal(t, int64(1700000000000), d.UnixMilli())

	assert.True(t, Date("").Absent())
	assert.True(t, Date(nil).Absent())
	assert.True(t, Date("not-a-date").Invalid())
	assert.True(t, Date("2024-13-45").Invalid())
}

func TestJSON(t *testing.T) {
	v, ok := JSON(`{"a":1}`).Get()
	require.True(t, ok)
	assert.Equal(t, map[string]any{"a": 1.0}, v)

	assert.True(t, JSON("{").Invalid())
	assert.True(t, JSON("").Absent())

	passthrough := map[string]any{"k": "v"}
	v, ok = JSON(passthrough).Get()
	require.True(t, ok)
	assert.Equal(t, passthrough, v)
}

func TestObjectDoesNotMutateInput(t *testing.T) {
	in := map[string]any{
		"name":  " <i>Dave</i> ",
		"email": "DAVE@EXAMPLE.COM",
		"age":   "41",
		"other": "<b>x</b>",
	}
	out := Object(in, map[string]FieldType{
		"name":  TypeName,
		"email": TypeEmail,
		"age":   TypeNumber,
	})

	assert.Equal(t, " <i>Dave</i> ", in["name"])
	assert.Equal(t, "Dave", out["name"])
	assert.Equal(t, "dave@example.com", out["email"])
	assert.Equal(t, 41.0, out["age"].(Opt[float64]).Or(0))
	assert.Equal(t, "x", out["other"])
}

func TestQuery(t *testing.T) {
	q := url.Values{
		"page":       {"2"},
		"limit":      {"abc"},
		"search":     {"<b>ali</b>"},
		"isVerified": {"yes"},
		"startDate":  {"garbage"},
		"endDate":    {"2024-02-01"},
	}
	v := Query(q, map[string]FieldType{
		"page":       TypeNumber,
		"limit":      TypeNumber,
		"isVerified": TypeBoolean,
		"startDate":  TypeDate,
		"endDate":    TypeDate,
	})

	assert.Equal(t, 2.0, v.Number("page").Or(0))
	assert.True(t, v.Number("limit").Invalid())
	assert.True(t, v.Number("missing").Absent())

	s, ok := v.String("search")
	require.True(t, ok)
	assert.Equal(t, "ali", s)

	b, present := v.Bool("isVerified")
	assert.True(t, present)
	assert.True(t, b)
	_, present = v.Bool("hasLogins")
	assert.False(t, present)

	assert.True(t, v.Date("startDate").Invalid())
	assert.True(t, v.Date("endDate").OK())
}
