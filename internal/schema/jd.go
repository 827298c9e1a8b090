// Package schema holds the structured representations of job descriptions
// and parsed resumes, plus their markdown rendering.
package schema

import (
	"fmt"
	"strings"
)

// JobDescriptionRoot is the stored form of a structured JD. The root object
// always has exactly one key, "job_description".
type JobDescriptionRoot struct {
	JobDescription JobDescription `json:"job_description"`
}

type JobDescription struct {
	CompanyInformation      CompanyInformation      `json:"company_information"`
	JobDetails              JobDetails              `json:"job_details"`
	Summary                 string                  `json:"summary"`
	Responsibilities        []string                `json:"responsibilities"`
	Requirements            Requirements            `json:"requirements"`
	PreferredQualifications []string                `json:"preferred_qualifications"`
	Compensation            *Compensation           `json:"compensation,omitempty"`
	ApplicationInformation  *ApplicationInformation `json:"application_information,omitempty"`
}

type CompanyInformation struct {
	CompanyName string   `json:"company_name"`
	Industry    string   `json:"industry"`
	Website     string   `json:"website"`
	Location    Location `json:"location"`
}

type Location struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	Remote  bool   `json:"remote"`
}

type JobDetails struct {
	JobTitle            string `json:"job_title"`
	Department          string `json:"department"`
	EmploymentType      string `json:"employment_type"`
	ExperienceLevel     string `json:"experience_level"`
	PostedDate          string `json:"posted_date"`
	ApplicationDeadline string `json:"application_deadline"`
}

type Requirements struct {
	Education       string   `json:"education,omitempty"`
	ExperienceYears float64  `json:"experience_years,omitempty"`
	TechnicalSkills []string `json:"technical_skills"`
	SoftSkills      []string `json:"soft_skills,omitempty"`
	Certifications  []string `json:"certifications,omitempty"`
}

type Compensation struct {
	SalaryMin float64  `json:"salary_min,omitempty"`
	SalaryMax float64  `json:"salary_max,omitempty"`
	Currency  string   `json:"currency,omitempty"`
	Benefits  []string `json:"benefits,omitempty"`
}

type ApplicationInformation struct {
	ApplyLink    string `json:"apply_link,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

// Normalize enforces the structural invariant that technical_skills is
// always present as a list, possibly empty.
func (r *JobDescriptionRoot) Normalize() {
	if r.JobDescription.Requirements.TechnicalSkills == nil {
		r.JobDescription.Requirements.TechnicalSkills = []string{}
	}
}

// ToMarkdown renders the structured JD into the candidate-facing markdown
// stored alongside it.
func (r *JobDescriptionRoot) ToMarkdown() string {
	if r == nil {
		return ""
	}
	jd := r.JobDescription
	var lines []string

	company := jd.CompanyInformation
	if company.CompanyName != "" {
		lines = append(lines, "# "+company.CompanyName)
	}
	if company.Industry != "" {
		lines = append(lines, "**Industry:** "+company.Industry)
	}
	if company.Website != "" {
		lines = append(lines, "**Website:** "+company.Website)
	}
	loc := company.Location
	if loc.City != "" || loc.Country != "" {
		var parts []string
		for _, p := range []string{loc.City, loc.State, loc.Country} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		lines = append(lines, "**Location:** "+strings.Join(parts, ", "))
	}
	if loc.Remote {
		lines = append(lines, "**Remote:** Yes")
	}

	details := jd.JobDetails
	if details.JobTitle != "" {
		lines = append(lines, "\n## "+details.JobTitle)
	}
	if details.Department != "" {
		lines = append(lines, "**Department:** "+details.Department)
	}
	if details.EmploymentType != "" {
		lines = append(lines, "**Employment type:** "+details.EmploymentType)
	}
	if details.ExperienceLevel != "" {
		lines = append(lines, "**Experience level:** "+details.ExperienceLevel)
	}

	if jd.Summary != "" {
		lines = append(lines, "\n### Summary\n"+jd.Summary)
	}

	if len(jd.Responsibilities) > 0 {
		lines = append(lines, "\n### Responsibilities")
		for _, resp := range jd.Responsibilities {
			lines = append(lines, "- "+resp)
		}
	}

	req := jd.Requirements
	if len(req.TechnicalSkills) > 0 || len(req.SoftSkills) > 0 || len(req.Certifications) > 0 || req.ExperienceYears > 0 || req.Education != "" {
		lines = append(lines, "\n### Requirements")
		if len(req.TechnicalSkills) > 0 {
			lines = append(lines, "- **Technical skills:** "+strings.Join(req.TechnicalSkills, ", "))
		}
		if len(req.SoftSkills) > 0 {
			lines = append(lines, "- **Soft skills:** "+strings.Join(req.SoftSkills, ", "))
		}
		if len(req.Certifications) > 0 {
			lines = append(lines, "- **Certifications:** "+strings.Join(req.Certifications, ", "))
		}
		if req.ExperienceYears > 0 {
			lines = append(lines, fmt.Sprintf("- **Experience:** %g years", req.ExperienceYears))
		}
		if req.Education != "" {
			lines = append(lines, "- **Education:** "+req.Education)
		}
	}

	if len(jd.PreferredQualifications) > 0 {
		lines = append(lines, "\n### Preferred")
		for _, p := range jd.PreferredQualifications {
			lines = append(lines, "- "+p)
		}
	}

	if comp := jd.Compensation; comp != nil {
		if comp.SalaryMin > 0 || comp.SalaryMax > 0 {
			lines = append(lines, fmt.Sprintf("\n**Compensation:** %s %g-%g", comp.Currency, comp.SalaryMin, comp.SalaryMax))
		}
		if len(comp.Benefits) > 0 {
			lines = append(lines, "**Benefits:** "+strings.Join(comp.Benefits, ", "))
		}
	}

	if app := jd.ApplicationInformation; app != nil {
		if app.ApplyLink != "" {
			lines = append(lines, "\n**Apply:** "+app.ApplyLink)
		}
		if app.ContactEmail != "" {
			lines = append(lines, "**Contact:** "+app.ContactEmail)
		}
		if app.Instructions != "" {
			lines = append(lines, "\n### How to apply\n"+app.Instructions)
		}
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}
