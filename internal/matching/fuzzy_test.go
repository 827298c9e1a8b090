package matching

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFuzzyScoreEmptySides(t *testing.T) {
	require.Equal(t, 0.0, FuzzyScore(nil, []string{"go"}))
	require.Equal(t, 0.0, FuzzyScore([]string{"go"}, nil))
	require.Equal(t, 0.0, FuzzyScore([]string{}, []string{}))
}

func TestFuzzyScoreExactAfterNormalization(t *testing.T) {
	require.InDelta(t, 100.0, FuzzyScore([]string{"Python"}, []string{"python "}), 0.001)
	require.InDelta(t, 100.0, FuzzyScore([]string{"Node.js"}, []string{"nodejs"}), 0.001)
	require.InDelta(t, 100.0, FuzzyScore([]string{"scikit-learn"}, []string{"scikit learn"}), 0.001)
}

func TestFuzzyScoreTokenOrderInsensitive(t *testing.T) {
	score := FuzzyScore([]string{"machine learning engineer"}, []string{"engineer machine learning"})
	require.InDelta(t, 100.0, score, 0.001)
}

func TestFuzzyScoreIsMeanOfBestMatches(t *testing.T) {
	// One perfect match and one miss average out.
	score := FuzzyScore([]string{"python", "kubernetes"}, []string{"python"})
	require.Greater(t, score, 50.0)
	require.Less(t, score, 100.0)

	perfect := FuzzyScore([]string{"python", "go"}, []string{"go", "python"})
	require.InDelta(t, 100.0, perfect, 0.001)
}
