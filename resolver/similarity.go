// ABOUTME: String similarity for fuzzy name and company matching
// ABOUTME: Normalized Levenshtein distance over cleaned-up names
package resolver

import "strings"

// DefaultNameSimilarity is the similarity a name pair must reach before
// the fuzzy pass treats it as a match.
const DefaultNameSimilarity = 0.8

// NameSimilarity returns a similarity score in [0, 1] between two names:
// 1 - levenshtein(a, b) / max(len(a), len(b)), computed over normalized
// forms (lowercased, collapsed whitespace). Empty input scores 0.
func NameSimilarity(a, b string) float64 {
	a = normalizeName(a)
	b = normalizeName(b)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	ra := []rune(a)
	rb := []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}

	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

// normalizeName lowercases and collapses internal whitespace.
func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// companyMatches compares company names loosely: equal normalized forms,
// or one containing the other ("Acme" vs "Acme Corp").
func companyMatches(a, b string) bool {
	a = normalizeName(a)
	b = normalizeName(b)
	if a == "" || b == "" {
		return false
	}
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}

// domainMatchesCompany reports whether an email domain plausibly belongs
// to a company: the first domain label equals the company name with
// spaces and punctuation stripped ("acme.com" vs "Acme Inc" -> "acme"
// prefix of "acmeinc").
func domainMatchesCompany(domain, company string) bool {
	if domain == "" || company == "" {
		return false
	}

	label := strings.SplitN(strings.ToLower(domain), ".", 2)[0]
	if label == "" {
		return false
	}

	var b strings.Builder
	for _, r := range strings.ToLower(company) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	compact := b.String()
	if compact == "" {
		return false
	}

	return compact == label || strings.HasPrefix(compact, label)
}

// levenshtein computes edit distance using the two-row DP formulation.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			min := prev[j] + 1 // deletion
			if v := curr[j-1] + 1; v < min {
				min = v // insertion
			}
			if v := prev[j-1] + cost; v < min {
				min = v // substitution
			}
			curr[j] = min
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
