// Package matching produces candidate orderings for a job: an embedding
// signal from the vector index, a fuzzy lexical skill signal, and an
// LLM-re-ranked top-5 shortlist. It never mutates persisted entities.
package matching

import (
	"sort"
	"strings"

	"github.com/hireflow-ai/hireflow/internal/schema"
	"github.com/tidwall/gjson"
)

// ExtractProfileSkills pulls the skill list out of a serialized resume or
// profile document. It reads the normalized shape (resume.skills) plus the
// legacy shapes: a top-level skills array, or a skills object whose values
// are arrays grouped under arbitrary sub-keys. Returns lower-cased, trimmed,
// deduplicated skills; empty on missing input. Never errors.
func ExtractProfileSkills(doc string) []string {
	if !gjson.Valid(doc) {
		return []string{}
	}
	var raw []gjson.Result
	if nested := gjson.Get(doc, "resume.skills"); nested.IsArray() {
		raw = nested.Array()
	} else if sk := gjson.Get(doc, "skills"); sk.IsArray() {
		raw = sk.Array()
	} else if sk.IsObject() {
		sk.ForEach(func(_, value gjson.Result) bool {
			if value.IsArray() {
				raw = append(raw, value.Array()...)
			}
			return true
		})
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if r.Type == gjson.String {
			out = append(out, r.String())
		}
	}
	return dedupeSkills(out)
}

// ExtractJobSkills unions the JD's technical skills, soft skills,
// certifications, and preferred qualifications into one normalized set.
func ExtractJobSkills(root *schema.JobDescriptionRoot) []string {
	if root == nil {
		return []string{}
	}
	jd := root.JobDescription
	var all []string
	all = append(all, jd.Requirements.TechnicalSkills...)
	all = append(all, jd.Requirements.SoftSkills...)
	all = append(all, jd.Requirements.Certifications...)
	all = append(all, jd.PreferredQualifications...)
	return dedupeSkills(all)
}

// NormalizeSkills applies the same lowering/dedup to an already-typed list,
// e.g. the skills column of a stored profile.
func NormalizeSkills(skills []string) []string {
	return dedupeSkills(skills)
}

func dedupeSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
