package matching

import (
	"testing"

	"github.com/hireflow-ai/hireflow/internal/schema"
	"github.com/stretchr/testify/require"
)

func TestExtractProfileSkillsNestedShape(t *testing.T) {
	doc := `{"resume": {"skills": ["Go", "PostgreSQL", "go", " Docker "]}}`
	require.Equal(t, []string{"docker", "go", "postgresql"}, ExtractProfileSkills(doc))
}

func TestExtractProfileSkillsTopLevelArray(t *testing.T) {
	doc := `{"skills": ["Python", "SQL"]}`
	require.Equal(t, []string{"python", "sql"}, ExtractProfileSkills(doc))
}

func TestExtractProfileSkillsLegacyGroupedShape(t *testing.T) {
	doc := `{"skills": {"languages": ["Go", "Python"], "tools": ["Terraform"], "note": "ignored"}}`
	require.Equal(t, []string{"go", "python", "terraform"}, ExtractProfileSkills(doc))
}

func TestExtractProfileSkillsMissingOrInvalid(t *testing.T) {
	require.Empty(t, ExtractProfileSkills(`{}`))
	require.Empty(t, ExtractProfileSkills(`not json`))
	require.Empty(t, ExtractProfileSkills(``))
}

func TestExtractJobSkillsUnions(t *testing.T) {
	root := &schema.JobDescriptionRoot{
		JobDescription: schema.JobDescription{
			Requirements: schema.Requirements{
				TechnicalSkills: []string{"Go", "Kubernetes"},
				SoftSkills:      []string{"Communication"},
				Certifications:  []string{"CKA"},
			},
			PreferredQualifications: []string{"Kubernetes", "gRPC"},
		},
	}
	require.Equal(t, []string{"cka", "communication", "go", "grpc", "kubernetes"}, ExtractJobSkills(root))
}

func TestExtractJobSkillsNil(t *testing.T) {
	require.Empty(t, ExtractJobSkills(nil))
}
