package schemarouter

import "strings"

// ValidSchemaName reports whether name is safe to interpolate into a
// SET search_path statement as a quoted identifier. Registry-canonical
// names (lowercase, digits, underscores, max identifier length) pass;
// anything else is rejected before it gets near the connection.
func ValidSchemaName(name string) bool {
	if name == "" || len(name) > 63 {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// quoteIdentifier double-quotes a schema name for interpolation into DDL
// and SET statements. Names are validated before this point; quoting is
// the second line of defense.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
