// Package sqlutil holds the identifier quoting and SQL dialects of the
// supported record stores.
package sqlutil

import (
	"regexp"
	"strings"
)

// QuoteIdentifier quotes a MySQL identifier with backticks, doubling any
// embedded backtick.
// Example: "adunit" -> "`adunit`"
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// QuotePostgresIdentifier quotes a PostgreSQL identifier with double quotes,
// doubling any embedded double quote.
// Example: "order_" -> "\"order_\""
func QuotePostgresIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

var identifierPattern = regexp.MustCompile("^[a-zA-Z0-9_]+$")

// IsValidIdentifier reports whether name is safe as a table or field name.
// Type names arrive in HTTP requests, so every identifier is checked before
// it is interpolated into a query.
func IsValidIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// quoteChecked validates name and quotes it with quote.
func quoteChecked(name string, quote func(string) string) (string, error) {
	if !IsValidIdentifier(name) {
		return "", &InvalidIdentifierError{Name: name}
	}
	return quote(name), nil
}

// InvalidIdentifierError is returned when an identifier contains invalid characters.
type InvalidIdentifierError struct {
	Name string
}

func (e *InvalidIdentifierError) Error() string {
	return "invalid identifier: " + e.Name + " (must contain only alphanumeric characters and underscores)"
}
