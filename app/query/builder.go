package query

import (
	"regexp"
	"strings"

	"github.com/pressradar/pressradar/app/topic"
)

// Query construction deliberately favors recall over precision: the relevance
// gate downstream is responsible for discarding off-topic matches, so bill
// identifiers are expanded into every surface form they take in prose and the
// jurisdiction name is added as a broadening term.

var billIDPattern = regexp.MustCompile(`^([A-Za-z]+)[\s-]?(\d+)$`)

// BuildWebQuery produces the search expression for the web-search provider.
// Multi-word keywords are quoted; terms are OR-joined. Returns an empty
// string when the topic has nothing searchable.
func BuildWebQuery(cfg *topic.Config) string {
	terms := collectTerms(cfg, true)
	if len(terms) == 0 {
		return ""
	}

	if name := StateName(cfg.State); name != "" {
		terms = append(terms, name)
	}

	return strings.Join(terms, " OR ")
}

// BuildStructuredQuery produces the simpler natural-language disjunction for
// the structured article search provider, which does its own stemming and
// needs no identifier expansion.
func BuildStructuredQuery(cfg *topic.Config) string {
	var terms []string
	for _, keyword := range cfg.Keywords {
		keyword = strings.TrimSpace(keyword)
		if keyword != "" {
			terms = append(terms, keyword)
		}
	}
	for _, billID := range cfg.BillIDs {
		billID = strings.TrimSpace(billID)
		if billID != "" {
			terms = append(terms, billID)
		}
	}
	if len(terms) == 0 {
		return ""
	}

	if name := StateName(cfg.State); name != "" {
		terms = append(terms, name)
	}

	return strings.Join(terms, " OR ")
}

func collectTerms(cfg *topic.Config, quote bool) []string {
	var terms []string

	for _, keyword := range cfg.Keywords {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}
		if quote && strings.Contains(keyword, " ") {
			keyword = `"` + keyword + `"`
		}
		terms = append(terms, keyword)
	}

	for _, billID := range cfg.BillIDs {
		for _, form := range ExpandBillID(billID) {
			if quote && strings.Contains(form, " ") {
				form = `"` + form + `"`
			}
			terms = append(terms, form)
		}
	}

	return terms
}

// ExpandBillID produces the surface forms a "PREFIX-NUMBER" style identifier
// takes in free text: "AB-123" also appears as "AB 123" and "AB123".
func ExpandBillID(billID string) []string {
	billID = strings.TrimSpace(billID)
	if billID == "" {
		return nil
	}

	matches := billIDPattern.FindStringSubmatch(billID)
	if matches == nil {
		return []string{billID}
	}

	prefix := strings.ToUpper(matches[1])
	number := matches[2]

	forms := []string{
		prefix + "-" + number,
		prefix + " " + number,
		prefix + number,
	}

	// Keep the original spelling first when it differs from the canonical form.
	if billID != forms[0] && billID != forms[1] && billID != forms[2] {
		forms = append([]string{billID}, forms...)
	}

	return forms
}
