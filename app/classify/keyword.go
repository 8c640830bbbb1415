package classify

import "strings"

// Deterministic keyword-scoring fallback for when the classification service
// is unconfigured or failing. Pure and network-free.

var positiveLexicon = map[string]bool{
	"pass":       true,
	"passes":     true,
	"passed":     true,
	"approve":    true,
	"approves":   true,
	"approved":   true,
	"advance":    true,
	"advances":   true,
	"advanced":   true,
	"support":    true,
	"supports":   true,
	"backed":     true,
	"praise":     true,
	"praised":    true,
	"boost":      true,
	"boosts":     true,
	"benefit":    true,
	"benefits":   true,
	"success":    true,
	"successful": true,
	"momentum":   true,
	"bipartisan": true,
	"landmark":   true,
	"victory":    true,
	"historic":   true,
	"progress":   true,
	"welcome":    true,
	"welcomed":   true,
	"endorse":    true,
	"endorses":   true,
	"endorsed":   true,
	"champion":   true,
	"champions":  true,
}

var negativeLexicon = map[string]bool{
	"fail":          true,
	"fails":         true,
	"failed":        true,
	"veto":          true,
	"vetoes":        true,
	"vetoed":        true,
	"oppose":        true,
	"opposes":       true,
	"opposed":       true,
	"opposition":    true,
	"reject":        true,
	"rejects":       true,
	"rejected":      true,
	"kill":          true,
	"kills":         true,
	"killed":        true,
	"stall":         true,
	"stalls":        true,
	"stalled":       true,
	"die":           true,
	"dies":          true,
	"died":          true,
	"block":         true,
	"blocks":        true,
	"blocked":       true,
	"concern":       true,
	"concerns":      true,
	"criticism":     true,
	"criticize":     true,
	"criticized":    true,
	"controversial": true,
	"controversy":   true,
	"lawsuit":       true,
	"sue":           true,
	"sued":          true,
	"backlash":      true,
	"protest":       true,
	"protests":      true,
	"defeat":        true,
	"defeated":      true,
	"costly":        true,
	"burden":        true,
	"threat":        true,
	"threatens":     true,
}

// KeywordSentiment classifies by counting lexicon hits in the lower-cased
// text. Strictly more positive hits than negative is positive, the symmetric
// condition is negative, anything else (including equal counts) is neutral.
func KeywordSentiment(text string) Sentiment {
	positive, negative := lexiconCounts(text)

	switch {
	case positive > negative:
		return SentimentPositive
	case negative > positive:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

func lexiconCounts(text string) (positive, negative int) {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '\''
	})

	for _, word := range words {
		word = strings.Trim(word, "'")
		if positiveLexicon[word] {
			positive++
		}
		if negativeLexicon[word] {
			negative++
		}
	}

	return positive, negative
}
