package util

import "strings"

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// ClampLimit keeps a requested result size within [1, MaxLimit], using def
// for anything below 1.
func ClampLimit(limit, def int) int {
	if def < 1 {
		def = DefaultLimit
	}
	if limit < 1 {
		limit = def
	}
	return min(limit, MaxLimit)
}

// NormalizeISBN strips hyphens and spaces and reports whether what is left
// is a 10 or 13 character ISBN. Only an ISBN-10 may end in X.
func NormalizeISBN(raw string) (string, bool) {
	isbn := strings.ToUpper(strings.NewReplacer("-", "", " ", "").Replace(raw))
	if len(isbn) != 10 && len(isbn) != 13 {
		return "", false
	}
	for i, ch := range isbn {
		switch {
		case ch >= '0' && ch <= '9':
		case ch == 'X' && i == 9 && len(isbn) == 10:
		default:
			return "", false
		}
	}
	return isbn, true
}

// ValidWorkID accepts Open Library work keys such as OL27258W.
func ValidWorkID(id string) bool {
	if len(id) < 4 || !strings.HasPrefix(id, "OL") || !strings.HasSuffix(id, "W") {
		return false
	}
	for _, ch := range id[2 : len(id)-1] {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
