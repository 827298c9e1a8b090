package dto

import "github.com/hireflow-ai/hireflow/internal/schema"

type CreateJobRequest struct {
	EmployerID    string `json:"employer_id"`
	Title         string `json:"title"`
	DescriptionMD string `json:"description_md"`
}

type UpdateJobRequest struct {
	Title             string                     `json:"title"`
	DescriptionMD     string                     `json:"description_md"`
	DescriptionSchema *schema.JobDescriptionRoot `json:"description_schema"`
}

type GenerateJDRequest struct {
	Brief string `json:"brief"`
}

type GenerateJDResponse struct {
	DescriptionSchema *schema.JobDescriptionRoot `json:"description_schema"`
	DescriptionMD     string                     `json:"description_md"`
}

type ReinviteRequest struct {
	ProfileID string `json:"profile_id"`
}

type RespondRequest struct {
	Interested bool `json:"interested"`
}

type ChatRequest struct {
	Transcript string `json:"transcript"`
	Message    string `json:"message"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

type CompleteRequest struct {
	Transcript string `json:"transcript"`
}

type UploadRecordingRequest struct {
	URL string `json:"url"`
}
