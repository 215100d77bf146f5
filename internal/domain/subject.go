package domain

import "strings"

// NormalizeSubject is the single matching rule for subjects and topics:
// trimmed, internal whitespace collapsed, lowercased.
func NormalizeSubject(subject string) string {
	return strings.ToLower(strings.Join(strings.Fields(subject), " "))
}
