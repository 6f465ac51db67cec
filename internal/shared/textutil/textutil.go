// Package textutil normalizes user supplied plain text before it is validated or stored.
package textutil

import (
	"html"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy

	validateOnce sync.Once
	validate     *validator.Validate
)

func strictPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Clean strips markup, unescapes the entities the sanitizer introduces,
// applies NFC normalization and trims surrounding whitespace.
func Clean(s string) string {
	if s == "" {
		return ""
	}
	stripped := html.UnescapeString(strictPolicy().Sanitize(s))
	return strings.TrimSpace(norm.NFC.String(stripped))
}

// Truncate cuts s to at most max runes.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

// Length returns the rune count of s.
func Length(s string) int {
	return utf8.RuneCountInString(s)
}

// LineCount returns the number of lines in s. An empty string has zero lines.
func LineCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

// IsEmail reports whether s is a syntactically valid email address.
func IsEmail(s string) bool {
	return validatorInstance().Var(s, "required,email") == nil
}

// IsURL reports whether s is an absolute URL.
func IsURL(s string) bool {
	return validatorInstance().Var(s, "required,url") == nil
}
