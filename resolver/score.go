// ABOUTME: Confidence scoring for match candidates
// ABOUTME: Pure comparison of an incoming record against an existing contact
package resolver

import "attrib/models"

// ScoreCandidate compares an incoming record against an existing contact
// and returns the confidence level plus the signals that agreed. It is a
// pure function of its inputs: same pair, same answer.
//
// Levels:
//   - EXACT:  normalized emails equal
//   - HIGH:   normalized phones equal, or emails equal modulo plus-addressing
//   - MEDIUM: name similarity >= threshold, corroborated by company or by
//     the email domain agreeing with the contact's company
//   - LOW:    name similarity alone
//   - NONE:   nothing matched
func ScoreCandidate(rec *models.IncomingRecord, contact *models.Contact, nameThreshold float64) (Confidence, []Signal) {
	var signals []Signal

	recEmail := models.NormalizeEmail(rec.Email)
	contactEmail := models.NormalizeEmail(contact.Email)
	if recEmail != "" && contactEmail != "" {
		if recEmail == contactEmail {
			signals = append(signals, SignalEmail)
		} else if models.CanonicalEmail(recEmail) == models.CanonicalEmail(contactEmail) {
			signals = append(signals, SignalEmailVariant)
		}
	}

	recPhone := models.NormalizePhone(rec.Phone)
	contactPhone := models.NormalizePhone(contact.Phone)
	if recPhone != "" && recPhone == contactPhone {
		signals = append(signals, SignalPhone)
	}

	if NameSimilarity(rec.Name, contact.Name) >= nameThreshold {
		signals = append(signals, SignalName)

		if companyMatches(rec.Company, contact.Company) {
			signals = append(signals, SignalCompany)
		}
		if domainMatchesCompany(models.EmailDomain(rec.Email), contact.Company) {
			signals = append(signals, SignalDomain)
		}
	}

	return levelFor(signals), signals
}

func levelFor(signals []Signal) Confidence {
	has := func(want Signal) bool {
		for _, s := range signals {
			if s == want {
				return true
			}
		}
		return false
	}

	switch {
	case has(SignalEmail):
		return ConfidenceExact
	case has(SignalPhone), has(SignalEmailVariant):
		return ConfidenceHigh
	case has(SignalName) && (has(SignalCompany) || has(SignalDomain)):
		return ConfidenceMedium
	case has(SignalName):
		return ConfidenceLow
	default:
		return ConfidenceNone
	}
}
