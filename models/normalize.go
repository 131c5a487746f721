// ABOUTME: Normalization helpers for contact identity fields
// ABOUTME: Canonicalizes emails and phone numbers for lookup and comparison
package models

import "strings"

// NormalizeEmail converts an email to its comparison form: trimmed and
// lowercased. Returns "" for blank input.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CanonicalEmail strips plus-addressing from the local part, so
// "jane+news@acme.com" and "jane@acme.com" canonicalize to the same
// address. Input is normalized first.
func CanonicalEmail(email string) string {
	email = NormalizeEmail(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}

	local := email[:at]
	if plus := strings.Index(local, "+"); plus >= 0 {
		local = local[:plus]
	}
	return local + email[at:]
}

// EmailDomain extracts the domain from an email address, or "" if the
// address is malformed.
func EmailDomain(email string) string {
	parts := strings.Split(NormalizeEmail(email), "@")
	if len(parts) != 2 || parts[1] == "" {
		return ""
	}
	return parts[1]
}

// NormalizePhone strips everything but digits. A leading "+" country
// prefix is dropped along with the rest of the punctuation, so
// "+1 (555) 123-4567" becomes "15551234567".
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
