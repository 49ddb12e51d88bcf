package tags

import (
	"testing"
	"testing/quick"
	"unicode"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"algebra":  "Algebra",
		"ALGEBRA":  "Algebra",
		"aLgEbRa":  "Algebra",
		"math":     "Math",
		"x=2":      "X=2",
		"a":        "A",
		"Z":        "Z",
		"1st gear": "1st gear",
		"":         "",
		"éCOLE":    "École",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "Normalize(%q)", in)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	f := func(s string) bool {
		once := Normalize(s)
		return Normalize(once) == once
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
}

func TestNormalize_CasingShape(t *testing.T) {
	f := func(s string) bool {
		if s == "" || !utf8.ValidString(s) {
			return true
		}
		out := Normalize(s)
		first, size := utf8.DecodeRuneInString(out)
		if unicode.IsLetter(first) && unicode.ToUpper(first) != first {
			return false
		}
		for _, r := range out[size:] {
			if unicode.IsLetter(r) && unicode.ToLower(r) != r {
				return false
			}
		}
		return true
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
}
