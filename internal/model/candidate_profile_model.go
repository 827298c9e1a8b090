package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hireflow-ai/hireflow/internal/schema"
)

// CandidateProfile is the one-per-candidate profile, filled from resume
// ingestion or manual edits. List fields are schemaless jsonb, mirroring
// whatever the extraction produced.
type CandidateProfile struct {
	ID             uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID         uuid.UUID        `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	FullName       string           `gorm:"type:varchar(255)" json:"full_name"`
	Email          string           `gorm:"type:varchar(255)" json:"email"`
	Phone          string           `gorm:"type:varchar(64)" json:"phone"`
	Address        string           `gorm:"type:varchar(512)" json:"address"`
	Summary        string           `gorm:"type:text" json:"summary"`
	Education      []map[string]any `gorm:"type:jsonb;serializer:json" json:"education"`
	WorkExperience []map[string]any `gorm:"type:jsonb;serializer:json" json:"work_experience"`
	Skills         []string         `gorm:"type:jsonb;serializer:json" json:"skills"`
	Languages      []string         `gorm:"type:jsonb;serializer:json" json:"languages"`
	Certifications []string         `gorm:"type:jsonb;serializer:json" json:"certifications"`
	Interests      []string         `gorm:"type:jsonb;serializer:json" json:"interests"`
	Projects       []map[string]any `gorm:"type:jsonb;serializer:json" json:"projects"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (p *CandidateProfile) TableName() string {
	return "candidate_profiles"
}

// ApplyResume fills the profile from a parsed resume, overwriting fields the
// resume actually provides and leaving the rest untouched.
func (p *CandidateProfile) ApplyResume(r *schema.ResumeRoot) {
	if r == nil {
		return
	}
	resume := r.Resume
	pi := resume.PersonalInformation
	if pi.Name != "" {
		p.FullName = pi.Name
	}
	if pi.Email != "" {
		p.Email = pi.Email
	}
	if pi.Phone != "" {
		p.Phone = pi.Phone
	}
	if line := pi.Address.AddressLine(); line != "" {
		p.Address = line
	}
	if resume.Summary != "" {
		p.Summary = resume.Summary
	}
	if len(resume.Skills) > 0 {
		p.Skills = resume.Skills
	}
	if len(resume.Education) > 0 {
		p.Education = toMapList(resume.Education)
	}
	if len(resume.WorkExperience) > 0 {
		p.WorkExperience = toMapList(resume.WorkExperience)
	}
	if len(resume.AdditionalDetails.Languages) > 0 {
		p.Languages = resume.AdditionalDetails.Languages
	}
	if len(resume.AdditionalDetails.Certifications) > 0 {
		p.Certifications = resume.AdditionalDetails.Certifications
	}
	if len(resume.AdditionalDetails.Interests) > 0 {
		p.Interests = resume.AdditionalDetails.Interests
	}
}

// AsJSON serializes the full profile for prompts. Nil list fields come out
// as empty arrays so the model never sees null.
func (p *CandidateProfile) AsJSON() string {
	out := map[string]any{
		"full_name":       p.FullName,
		"email":           p.Email,
		"phone":           p.Phone,
		"address":         p.Address,
		"summary":         p.Summary,
		"education":       orEmptyMaps(p.Education),
		"work_experience": orEmptyMaps(p.WorkExperience),
		"skills":          orEmptyStrings(p.Skills),
		"languages":       orEmptyStrings(p.Languages),
		"certifications":  orEmptyStrings(p.Certifications),
		"interests":       orEmptyStrings(p.Interests),
		"projects":        orEmptyMaps(p.Projects),
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

func toMapList(v any) []map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out []map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func orEmptyStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func orEmptyMaps(v []map[string]any) []map[string]any {
	if v == nil {
		return []map[string]any{}
	}
	return v
}
