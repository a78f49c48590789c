package analysis

import (
	"strings"

	"feedback_analyzer/internal/domain"
)

// issueTriggers maps each category to its case-insensitive substring triggers.
var issueTriggers = map[domain.IssueCategory][]string{
	domain.IssueCleanliness:      {"dirty", "unclean", "smell", "stain"},
	domain.IssueVehicleCondition: {"broken", "damage", "scratch", "problem", "issue"},
	domain.IssueServiceQuality:   {"rude", "unprofessional", "poor service", "bad service"},
	domain.IssueWaitTime:         {"long wait", "delay", "slow", "took too long"},
	domain.IssuePricing:          {"expensive", "hidden charge", "overpriced", "costly"},
}

// ExtractIssues returns every category with a trigger occurring anywhere in
// the lowercased raw text, in enumeration order. Raw text keeps punctuation
// and spacing, so multi-word triggers match as written.
func ExtractIssues(raw string) []domain.IssueCategory {
	low := strings.ToLower(raw)
	var out []domain.IssueCategory
	for _, c := range domain.IssueCategories {
		for _, kw := range issueTriggers[c] {
			if strings.Contains(low, kw) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
