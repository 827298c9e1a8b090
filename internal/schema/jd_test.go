package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeEnsuresTechnicalSkillsList(t *testing.T) {
	var root JobDescriptionRoot
	root.Normalize()
	require.NotNil(t, root.JobDescription.Requirements.TechnicalSkills)
	require.Empty(t, root.JobDescription.Requirements.TechnicalSkills)
}

func TestToMarkdownRendersSections(t *testing.T) {
	root := &JobDescriptionRoot{
		JobDescription: JobDescription{
			CompanyInformation: CompanyInformation{
				CompanyName: "Acme",
				Location:    Location{City: "Berlin", Country: "Germany", Remote: true},
			},
			JobDetails:       JobDetails{JobTitle: "Backend Engineer", EmploymentType: "full-time"},
			Summary:          "Build services.",
			Responsibilities: []string{"Design APIs", "Review code"},
			Requirements: Requirements{
				TechnicalSkills: []string{"Go", "PostgreSQL"},
				ExperienceYears: 3,
			},
			PreferredQualifications: []string{"gRPC"},
		},
	}

	md := root.ToMarkdown()
	require.Contains(t, md, "# Acme")
	require.Contains(t, md, "**Location:** Berlin, Germany")
	require.Contains(t, md, "**Remote:** Yes")
	require.Contains(t, md, "## Backend Engineer")
	require.Contains(t, md, "- Design APIs")
	require.Contains(t, md, "- **Technical skills:** Go, PostgreSQL")
	require.Contains(t, md, "- **Experience:** 3 years")
	require.Contains(t, md, "- gRPC")
}

func TestToMarkdownNilReceiver(t *testing.T) {
	var root *JobDescriptionRoot
	require.Equal(t, "", root.ToMarkdown())
}
