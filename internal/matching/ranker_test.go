package matching

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hireflow-ai/hireflow/internal/apperr"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

type stubIndex struct {
	queryResults []IndexEntry
	allResults   []IndexEntry
	queryErr     error
}

func (s *stubIndex) QueryByText(ctx context.Context, text string, k int) ([]IndexEntry, error) {
	return s.queryResults, s.queryErr
}

func (s *stubIndex) GetAll(ctx context.Context) ([]IndexEntry, error) {
	return s.allResults, nil
}

type stubInvoker struct {
	out string
	err error
}

func (s *stubInvoker) InvokeStructured(ctx context.Context, system, user string, outSchema *genai.Schema, out any) error {
	if s.err != nil {
		return s.err
	}
	return json.Unmarshal([]byte(s.out), out)
}

func candidateFixtures(n int) []CandidateSummary {
	ids := []string{"a", "b", "c", "d", "e", "f", "g"}
	out := make([]CandidateSummary, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, CandidateSummary{ID: ids[i]})
	}
	return out
}

func TestSignalsOrdersBothSignals(t *testing.T) {
	index := &stubIndex{
		queryResults: []IndexEntry{
			{ProfileID: "far", Distance: 0.9},
			{ProfileID: "near", Distance: 0.1},
		},
		allResults: []IndexEntry{
			{ProfileID: "weak", Document: `{"resume": {"skills": ["cobol"]}}`},
			{ProfileID: "strong", Document: `{"resume": {"skills": ["go", "postgres"]}}`},
		},
	}
	r := NewRanker(index, &stubInvoker{}, zap.NewNop())

	signals, err := r.Signals(context.Background(), "job text", []string{"go", "postgres"})
	require.NoError(t, err)

	require.Equal(t, "near", signals.Embedding[0].ProfileID)
	require.Equal(t, "far", signals.Embedding[1].ProfileID)
	require.Equal(t, "strong", signals.Fuzzy[0].ProfileID)
	require.Greater(t, signals.Fuzzy[0].Score, signals.Fuzzy[1].Score)
}

func TestSignalsPropagatesIndexError(t *testing.T) {
	index := &stubIndex{queryErr: errors.New("index down")}
	r := NewRanker(index, &stubInvoker{}, zap.NewNop())

	_, err := r.Signals(context.Background(), "job text", nil)
	require.Error(t, err)
}

func TestShortlistAcceptsValidModelOutput(t *testing.T) {
	invoker := &stubInvoker{out: `{"ranked": [{"profile_id": "b", "rank": 1}, {"profile_id": "a", "rank": 2}]}`}
	r := NewRanker(&stubIndex{}, invoker, zap.NewNop())

	ranked := r.Shortlist(context.Background(), "{}", candidateFixtures(3))
	require.Equal(t, []RankedEntry{{ProfileID: "b", Rank: 1}, {ProfileID: "a", Rank: 2}}, ranked)
}

func TestShortlistRejectsUnknownProfileID(t *testing.T) {
	invoker := &stubInvoker{out: `{"ranked": [{"profile_id": "ghost", "rank": 1}]}`}
	r := NewRanker(&stubIndex{}, invoker, zap.NewNop())

	ranked := r.Shortlist(context.Background(), "{}", candidateFixtures(3))
	require.Equal(t, []RankedEntry{
		{ProfileID: "a", Rank: 1},
		{ProfileID: "b", Rank: 2},
		{ProfileID: "c", Rank: 3},
	}, ranked)
}

func TestShortlistFallsBackOnModelFailure(t *testing.T) {
	invoker := &stubInvoker{err: &apperr.ModelInvocationError{Op: "invoke_structured", Err: errors.New("down")}}
	r := NewRanker(&stubIndex{}, invoker, zap.NewNop())

	ranked := r.Shortlist(context.Background(), "{}", candidateFixtures(7))
	require.Len(t, ranked, 5)
	for i, entry := range ranked {
		require.Equal(t, candidateFixtures(7)[i].ID, entry.ProfileID)
		require.Equal(t, i+1, entry.Rank)
	}
}

func TestShortlistTruncatesToFive(t *testing.T) {
	invoker := &stubInvoker{out: `{"ranked": [
		{"profile_id": "a", "rank": 1}, {"profile_id": "b", "rank": 2}, {"profile_id": "c", "rank": 3},
		{"profile_id": "d", "rank": 4}, {"profile_id": "e", "rank": 5}, {"profile_id": "f", "rank": 6}]}`}
	r := NewRanker(&stubIndex{}, invoker, zap.NewNop())

	ranked := r.Shortlist(context.Background(), "{}", candidateFixtures(7))
	require.Len(t, ranked, 5)
}

func TestShortlistEmptyCandidates(t *testing.T) {
	r := NewRanker(&stubIndex{}, &stubInvoker{}, zap.NewNop())
	require.Empty(t, r.Shortlist(context.Background(), "{}", nil))
}
