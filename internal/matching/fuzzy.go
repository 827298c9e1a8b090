package matching

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// FuzzyScore computes the lexical skill-overlap score between a JD skill
// set and a candidate skill set: for each JD skill, the best token-set
// ratio (0-100) against any candidate skill, averaged over all JD skills.
// Returns 0.0 when either side is empty.
func FuzzyScore(jdSkills, candidateSkills []string) float64 {
	if len(jdSkills) == 0 || len(candidateSkills) == 0 {
		return 0.0
	}

	normalized := make([]string, len(candidateSkills))
	for i, s := range candidateSkills {
		normalized[i] = normalizeForFuzzy(s)
	}

	total := 0.0
	for _, skill := range jdSkills {
		skill = normalizeForFuzzy(skill)
		best := 0
		for _, cand := range normalized {
			if score := fuzzy.TokenSetRatio(skill, cand); score > best {
				best = score
			}
		}
		total += float64(best)
	}
	return total / float64(len(jdSkills))
}

func normalizeForFuzzy(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, ".", "")
	return strings.TrimSpace(s)
}
