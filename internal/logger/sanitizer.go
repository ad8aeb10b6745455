package logger

import (
	"fmt"
	"regexp"
	"strings"
)

// Parameter masking for statement logging. Upserted values routinely carry
// user data; when the statement references a sensitive-looking column the
// bound parameters are redacted wholesale before they reach a log line.

// defaultSensitiveFields are column-name patterns that trigger masking.
var defaultSensitiveFields = []string{
	"password", "passwd", "pwd",
	"token", "api_key", "apikey", "api_token",
	"secret", "auth", "authorization",
	"credit_card", "card_number", "cvv", "cvc",
	"ssn", "social_security",
	"private_key", "priv_key",
}

const maskValue = "***REDACTED***"

var sensitivePatterns = compilePatterns(defaultSensitiveFields)

func compilePatterns(fields []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(fields))
	for _, field := range fields {
		patterns = append(patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(field)+`\b`))
	}
	return patterns
}

// MaskParams returns the parameters with every value replaced by a mask
// when the SQL references a sensitive column name. The original slice is
// not modified.
func MaskParams(sql string, params []any) []any {
	if len(params) == 0 || !containsSensitivePattern(sql) {
		return params
	}
	masked := make([]any, len(params))
	for i := range params {
		masked[i] = maskValue
	}
	return masked
}

// containsSensitivePattern checks if SQL contains any sensitive field patterns.
func containsSensitivePattern(sql string) bool {
	lower := strings.ToLower(sql)
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(lower) {
			return true
		}
	}
	return false
}

// FormatParams converts parameters to a safe string representation for
// logging. Sensitive values should be masked using MaskParams first.
func FormatParams(params []any) string {
	if len(params) == 0 {
		return "[]"
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = formatValue(p)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// formatValue formats a single parameter value for logging.
// Truncates very long values to prevent log pollution.
func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	str := fmt.Sprintf("%v", v)
	const maxLen = 100
	if len(str) > maxLen {
		return str[:maxLen] + "..."
	}
	return str
}
