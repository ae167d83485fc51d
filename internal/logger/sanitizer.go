package logger

import (
	"fmt"
	"regexp"
	"strings"
)

// maskValue replaces parameter values bound to sensitive columns.
const maskValue = "***REDACTED***"

// maxLoggedValueLen truncates long parameter values in log output.
const maxLoggedValueLen = 100

// Sanitizer masks parameters of statements that touch sensitive columns so
// secrets never reach log output.
type Sanitizer struct {
	patterns []*regexp.Regexp
}

// defaultSensitiveFields lists common secret-bearing column names.
var defaultSensitiveFields = []string{
	"password", "passwd", "pwd",
	"token", "api_key", "apikey", "api_token",
	"secret", "auth", "authorization",
	"credit_card", "card_number", "cvv", "cvc",
	"ssn", "social_security",
	"private_key", "priv_key",
}

// NewSanitizer creates a sanitizer for the given sensitive field names.
// Passing nil or an empty slice uses the default set.
func NewSanitizer(sensitiveFields []string) *Sanitizer {
	if len(sensitiveFields) == 0 {
		sensitiveFields = defaultSensitiveFields
	}

	patterns := make([]*regexp.Regexp, 0, len(sensitiveFields))
	for _, field := range sensitiveFields {
		patterns = append(patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(field)+`\b`))
	}
	return &Sanitizer{patterns: patterns}
}

// MaskParams returns params with every value masked when the SQL text
// references a sensitive column. The input slice is not modified. Positional
// placeholders carry no column information, so masking is all-or-nothing per
// statement.
func (s *Sanitizer) MaskParams(sql string, params []interface{}) []interface{} {
	if len(params) == 0 || !s.sensitive(sql) {
		return params
	}

	masked := make([]interface{}, len(params))
	for i := range params {
		masked[i] = maskValue
	}
	return masked
}

func (s *Sanitizer) sensitive(sql string) bool {
	for _, p := range s.patterns {
		if p.MatchString(sql) {
			return true
		}
	}
	return false
}

// FormatParams renders parameters as a compact bracketed list for logging.
func (s *Sanitizer) FormatParams(params []interface{}) string {
	if len(params) == 0 {
		return "[]"
	}

	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = formatValue(p)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatValue(v interface{}) string {
	if v == nil {
		return "NULL"
	}

	str := fmt.Sprintf("%v", v)
	if len(str) > maxLoggedValueLen {
		return str[:maxLoggedValueLen] + "..."
	}
	return str
}
