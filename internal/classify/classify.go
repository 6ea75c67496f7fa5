// Package classify provides keyword-based document-type detection used to
// cross-check and refine the type reported by the oracle.
package classify

import (
	"strings"

	"github.com/docsift/docsift/internal/analysis"
)

// typeKeywords lists the indicative phrases per document type. Order fixes
// the tie-break when two types score equally.
var typeKeywords = []struct {
	docType  string
	keywords []string
}{
	{"employment_contract", []string{
		"employment contract",
		"contract of employment",
		"employee",
		"employer",
		"salary",
		"working hours",
		"vacation",
		"dismissal",
		"probation period",
		"collective agreement",
	}},
	{"payslip", []string{
		"payslip",
		"salary statement",
		"earnings",
		"deductions",
		"contribution base",
		"income tax",
		"social security",
		"net pay",
	}},
	{"collective_agreement", []string{
		"collective agreement",
		"workers' representatives",
		"scope of application",
		"professional classification",
		"salary table",
		"annual working hours",
	}},
	{"certificate", []string{
		"hereby certifies",
		"this certificate is issued",
		"for the record",
		"at the request of the interested party",
	}},
	{"power_of_attorney", []string{
		"power of attorney",
		"grants power",
		"before me",
		"appears",
		"representation",
		"mandate",
		"notary",
	}},
	{"meeting_minutes", []string{
		"minutes of the meeting",
		"attendees",
		"agenda",
		"resolutions adopted",
		"the session is adjourned",
	}},
	{"lease_agreement", []string{
		"lease agreement",
		"landlord",
		"tenant",
		"rent",
		"deposit",
		"monthly rent",
		"premises",
	}},
	{"sale_agreement", []string{
		"sale agreement",
		"purchase agreement",
		"seller",
		"buyer",
		"price",
		"transfers ownership",
	}},
}

// ByKeywords classifies a document by counting keyword hits per type. The
// confidence is the hit ratio against that type's keyword list, reduced when
// a second type scores within 70% of the winner.
func ByKeywords(text string) (string, float64) {
	lower := strings.ToLower(text)

	bestType := analysis.UnknownDocumentType
	bestScore, secondScore, bestTotal := 0, 0, 0
	for _, entry := range typeKeywords {
		matches := 0
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				matches++
			}
		}
		switch {
		case matches > bestScore:
			secondScore = bestScore
			bestType, bestScore, bestTotal = entry.docType, matches, len(entry.keywords)
		case matches > secondScore:
			secondScore = matches
		}
	}

	if bestScore == 0 {
		return analysis.UnknownDocumentType, 0.0
	}

	confidence := float64(bestScore) / float64(bestTotal)
	if confidence > 1.0 {
		confidence = 1.0
	}
	if secondScore > 0 && float64(secondScore)/float64(bestScore) > 0.7 {
		confidence *= 0.8
	}
	return bestType, confidence
}

// Refine reconciles the oracle's document type with the keyword
// classification. Agreement boosts confidence; when the oracle reports
// unknown the keyword type wins; otherwise the higher-confidence side wins,
// with the oracle assumed at 0.7.
func Refine(oracleType, text string) (string, float64) {
	keywordType, keywordConf := ByKeywords(text)

	if oracleType == analysis.UnknownDocumentType && keywordType == analysis.UnknownDocumentType {
		return analysis.UnknownDocumentType, 0.0
	}

	if oracleType == keywordType {
		boosted := keywordConf + 0.15
		if boosted > 1.0 {
			boosted = 1.0
		}
		return oracleType, boosted
	}

	if oracleType == analysis.UnknownDocumentType && keywordType != analysis.UnknownDocumentType {
		return keywordType, keywordConf
	}

	oracleConf := 0.7
	if oracleType == analysis.UnknownDocumentType {
		oracleConf = 0.0
	}
	if keywordConf > oracleConf {
		return keywordType, keywordConf
	}
	return oracleType, oracleConf
}
