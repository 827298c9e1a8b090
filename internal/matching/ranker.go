package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// RankedEntry is the ephemeral ranking value the re-ranker produces; rank 1
// is the best match. It is never persisted on its own.
type RankedEntry struct {
	ProfileID string `json:"profile_id"`
	Rank      int    `json:"rank"`
}

// CandidateSummary is the lightweight payload handed to the LLM re-ranker.
type CandidateSummary struct {
	ID             string           `json:"id"`
	FullName       string           `json:"full_name"`
	Skills         []string         `json:"skills"`
	WorkExperience []map[string]any `json:"work_experience"`
	Education      []map[string]any `json:"education"`
}

// IndexEntry is one indexed resume as seen by the ranker. Distance is only
// meaningful on query results.
type IndexEntry struct {
	ProfileID string
	Document  string
	Distance  float64
}

// ResumeIndex is the vector index the embedding signal runs against.
type ResumeIndex interface {
	// QueryByText embeds the text and returns the k nearest indexed resumes,
	// best match first. k <= 0 means the full indexed set.
	QueryByText(ctx context.Context, text string, k int) ([]IndexEntry, error)
	// GetAll returns every indexed resume.
	GetAll(ctx context.Context) ([]IndexEntry, error)
}

type structuredInvoker interface {
	InvokeStructured(ctx context.Context, system, user string, outSchema *genai.Schema, out any) error
}

// EmbeddingMatch pairs a candidate with its embedding distance to the JD
// query (smaller is closer).
type EmbeddingMatch struct {
	ProfileID string  `json:"profile_id"`
	Distance  float64 `json:"distance"`
}

// FuzzyMatch pairs a candidate with its fuzzy lexical skill score (0-100).
type FuzzyMatch struct {
	ProfileID string  `json:"profile_id"`
	Score     float64 `json:"score"`
}

// Signals carries the two ranking signals side by side. They are exposed
// together and deliberately not merged into one combined score; consumers
// that want a single ordering use the LLM shortlist instead.
type Signals struct {
	JobSkills []string         `json:"jd_skills"`
	Embedding []EmbeddingMatch `json:"embed_results"`
	Fuzzy     []FuzzyMatch     `json:"fuzzy_results"`
}

const shortlistLimit = 5

// Ranker computes the hybrid signals and the LLM-re-ranked shortlist.
type Ranker struct {
	index   ResumeIndex
	invoker structuredInvoker
	logger  *zap.Logger
}

func NewRanker(index ResumeIndex, invoker structuredInvoker, logger *zap.Logger) *Ranker {
	return &Ranker{index: index, invoker: invoker, logger: logger}
}

// Signals runs the embedding nearest-neighbor query and the fuzzy skill
// match over the full indexed set. jobText is the serialized JD (schema
// JSON or raw markdown); jobSkills the normalized JD skill set.
func (r *Ranker) Signals(ctx context.Context, jobText string, jobSkills []string) (*Signals, error) {
	hits, err := r.index.QueryByText(ctx, jobText, 0)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	embedding := make([]EmbeddingMatch, 0, len(hits))
	for _, h := range hits {
		embedding = append(embedding, EmbeddingMatch{ProfileID: h.ProfileID, Distance: h.Distance})
	}
	sort.SliceStable(embedding, func(i, j int) bool { return embedding[i].Distance < embedding[j].Distance })

	all, err := r.index.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load indexed resumes: %w", err)
	}
	fuzzyMatches := make([]FuzzyMatch, 0, len(all))
	for _, doc := range all {
		score := FuzzyScore(jobSkills, ExtractProfileSkills(doc.Document))
		fuzzyMatches = append(fuzzyMatches, FuzzyMatch{ProfileID: doc.ProfileID, Score: score})
	}
	sort.SliceStable(fuzzyMatches, func(i, j int) bool { return fuzzyMatches[i].Score > fuzzyMatches[j].Score })

	return &Signals{JobSkills: jobSkills, Embedding: embedding, Fuzzy: fuzzyMatches}, nil
}

const shortlistSystem = "You are an HR matching expert. Given a job description (JSON or text) and a list of candidates " +
	"(each with id, full_name, skills, work_experience, education), rank them by fit (1 = best). " +
	"Return only the top 5 as a 'ranked' array of objects with 'profile_id' (the candidate id) and 'rank' (1-based integer)."

type shortlistOutput struct {
	Ranked []RankedEntry `json:"ranked"`
}

var shortlistSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"ranked": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"profile_id": {Type: genai.TypeString},
					"rank":       {Type: genai.TypeInteger},
				},
				Required: []string{"profile_id", "rank"},
			},
		},
	},
	Required: []string{"ranked"},
}

// Shortlist asks the model for the top-5 candidate ordering. Every returned
// profile_id must be one of the input candidate ids; otherwise the model
// output is rejected. On rejection or invocation failure the fallback is
// deterministic: the first five candidates in input order, rank = position+1.
// The shortlist therefore never blocks on model unavailability, at the cost
// of a less meaningful ordering in the degraded path.
func (r *Ranker) Shortlist(ctx context.Context, jobSchemaJSON string, candidates []CandidateSummary) []RankedEntry {
	if len(candidates) == 0 {
		return []RankedEntry{}
	}

	candidatesJSON, err := json.Marshal(candidates)
	if err != nil {
		r.logger.Error("marshal candidate summaries", zap.Error(err))
		return fallbackShortlist(candidates)
	}
	user := fmt.Sprintf("Job description:\n%s\n\nCandidates:\n%s",
		truncate(jobSchemaJSON, 4000), truncate(string(candidatesJSON), 6000))

	var out shortlistOutput
	if err := r.invoker.InvokeStructured(ctx, shortlistSystem, user, shortlistSchema, &out); err != nil {
		r.logger.Warn("shortlist model call failed, using input-order fallback", zap.Error(err))
		return fallbackShortlist(candidates)
	}

	known := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		known[c.ID] = struct{}{}
	}
	ranked := out.Ranked
	if len(ranked) > shortlistLimit {
		ranked = ranked[:shortlistLimit]
	}
	for _, entry := range ranked {
		if _, ok := known[entry.ProfileID]; !ok {
			r.logger.Warn("shortlist returned unknown profile id, rejecting model output",
				zap.String("profile_id", entry.ProfileID))
			return fallbackShortlist(candidates)
		}
	}
	if len(ranked) == 0 {
		return fallbackShortlist(candidates)
	}
	return ranked
}

func fallbackShortlist(candidates []CandidateSummary) []RankedEntry {
	n := len(candidates)
	if n > shortlistLimit {
		n = shortlistLimit
	}
	out := make([]RankedEntry, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, RankedEntry{ProfileID: candidates[i].ID, Rank: i + 1})
	}
	return out
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
