package schema

import "strings"

// ResumeRoot is the parsed resume shape produced by structured extraction.
// The root object always has exactly one key, "resume".
type ResumeRoot struct {
	Resume Resume `json:"resume"`
}

type Resume struct {
	PersonalInformation PersonalInformation `json:"personal_information"`
	Education           []ResumeEducation   `json:"education"`
	WorkExperience      []ResumeExperience  `json:"work_experience"`
	Skills              []string            `json:"skills"`
	Summary             string              `json:"summary"`
	AdditionalDetails   AdditionalDetails   `json:"additional_details"`
}

type PersonalInformation struct {
	Name    string        `json:"name"`
	Email   string        `json:"email"`
	Phone   string        `json:"phone"`
	Address ResumeAddress `json:"address"`
}

type ResumeAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

type ResumeEducation struct {
	Degree         string `json:"degree"`
	Major          string `json:"major"`
	School         string `json:"school"`
	GraduationYear int    `json:"graduation_year"`
}

type ResumeExperience struct {
	Position         string   `json:"position"`
	Company          string   `json:"company"`
	StartDate        string   `json:"start_date"`
	EndDate          string   `json:"end_date"`
	Responsibilities []string `json:"responsibilities"`
}

type AdditionalDetails struct {
	Languages      []string `json:"languages"`
	Certifications []string `json:"certifications"`
	Interests      []string `json:"interests"`
}

// AddressLine flattens the structured address into a single display string.
func (a ResumeAddress) AddressLine() string {
	var parts []string
	for _, p := range []string{a.Street, a.City, a.State, a.ZipCode, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
