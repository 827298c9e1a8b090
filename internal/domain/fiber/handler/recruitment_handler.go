package handler

import (
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hireflow-ai/hireflow/internal/apperr"
	"github.com/hireflow-ai/hireflow/internal/dto"
	"github.com/hireflow-ai/hireflow/internal/middleware"
	"github.com/hireflow-ai/hireflow/internal/usecase"
	"github.com/hireflow-ai/hireflow/internal/util"
)

const maxResumeSize = 5 * 1024 * 1024

type RecruitmentHandler struct {
	uc *usecase.RecruitmentUsecase
}

func NewRecruitmentHandler(uc *usecase.RecruitmentUsecase) *RecruitmentHandler {
	return &RecruitmentHandler{uc: uc}
}

func (h *RecruitmentHandler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	jobs := api.Group("/jobs")
	jobs.Post("/", h.CreateJob)
	jobs.Get("/", h.ListJobs)
	jobs.Post("/generate-jd", middleware.RateLimiter(10, time.Minute), h.GenerateJD)
	jobs.Get("/:id", h.GetJob)
	jobs.Patch("/:id", h.UpdateJob)
	jobs.Post("/:id/publish", h.Publish)
	jobs.Post("/:id/reinvite", h.Reinvite)
	jobs.Post("/:id/finalize", h.Finalize)
	jobs.Get("/:id/candidates", h.ListJobCandidates)

	candidates := api.Group("/candidates")
	candidates.Post("/:userId/resume", middleware.RateLimiter(5, time.Minute), h.UploadResume)
	candidates.Get("/:userId/interviews", h.ListCandidateInterviews)

	api.Post("/job-candidates/:id/respond", h.Respond)

	interviews := api.Group("/interviews")
	interviews.Get("/:token", h.Join)
	interviews.Post("/:token/start", h.Start)
	interviews.Post("/:token/chat", h.Chat)
	interviews.Post("/:token/complete", h.Complete)
	interviews.Post("/:token/recording", h.UploadRecording)
}

func (h *RecruitmentHandler) CreateJob(c *fiber.Ctx) error {
	var req dto.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return util.Error(c, apperr.Validation("invalid request body"))
	}
	employerID, err := uuid.Parse(req.EmployerID)
	if err != nil {
		return util.Error(c, apperr.Validation("invalid employer_id"))
	}
	job, err := h.uc.CreateJob(c.UserContext(), employerID, req.Title, req.DescriptionMD)
	if err != nil {
		return util.Error(c, err)
	}
	return util.Success(c, fiber.StatusCreated, "Job created", job)
}

func (h *RecruitmentHandler) ListJobs(c *fiber.Ctx) error {
	employerID, err := uuid.Parse(c.Query("employer_id"))
	if err != nil {
		return util.Error(c, apperr.Validation("invalid employer_id"))
	}
	jobs, err := h.uc.ListJobs(c.UserContext(), employerID)
	if err != nil {
		return util.Error(c, err)
	}
	return util.Success(c, fiber.StatusOK, "Jobs listed", jobs)
}

func (h *RecruitmentHandler) GetJob(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.Error(c, apperr.Validation("invalid job id"))
	}
	job, err := h.uc.GetJob(c.UserContext(), jobID)
	if err != nil {
		return util.Error(c, err)
	}
	return util.Success(c, fiber.StatusOK, "Job found", job)
}

func (h *RecruitmentHandler) UpdateJob(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.Error(c, apperr.Validation("invalid job id"))
	}
	var req dto.UpdateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return util.Error(c, apperr.Validation("invalid request body"))
	}
	job, err := h.uc.UpdateJob(c.UserContext(), jobID, req.Title, req.DescriptionMD, req.DescriptionSchema)
	if err != nil {
		return util.Error(c, err)
	}
	return util.Success(c, fiber.StatusOK, "Job updated", job)
}

func (h *RecruitmentHandler) GenerateJD(c *fiber.Ctx) error {
	var req dto.GenerateJDRequest
	if err := c.BodyParser(&req); err != nil {
		return util.Error(c, apperr.Validation("invalid request body"))
	}
	root, markdown, err := h.uc.GenerateJD(c.UserContext(), req.Brief)
	if err != nil {
		return util.Error(c, err)
	}
	return util.Success(c, fiber.StatusOK, "Job description generated", dto.GenerateJDResponse{
		DescriptionSchema: root,
		DescriptionMD:     markdown,
	})
}

func (h *RecruitmentHandler) Publish(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.Error(c, apperr.Validation("invalid job id"))
	}
	job, err := h.uc.Publish(c.UserContext(), jobID)
	if err != nil {
		return util.Error(c, err)
	}
	return util.Success(c, fiber.StatusOK, "Job published", job)
}

func (h *RecruitmentHandler) Reinvite(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.Error(c, apperr.Validation("invalid job id"))
	}
	var req dto.ReinviteRequest
	if err := c.BodyParser(&req); err != nil {
		return util.Error(c, apperr.Validation("invalid request body"))
	}
	profileID, err := uuid.Parse(req.ProfileID)
	if err != nil {
		return util.Error(c, apperr.Validation("invalid profile_id"))
	}
	if err := h.uc.Reinvite(c.UserContext(), jobID, profileID); err != nil {
		return util.Error(c, err)
	}
	return util.Success(c, fiber.StatusOK, "Candidate reinvited", nil)
}

func (h *RecruitmentHandler) Finalize(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.Error(c, apperr.Validation("invalid job id"))
	}
	report, err := h.uc.Finalize(c.UserContext(), jobID)
	if err != nil {
		return util.Error(c, err)
	}
	return util.Success(c, fiber.StatusOK, "Job finalized", report)
}

func (h *RecruitmentHandler) ListJobCandidates(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.Error(c, apperr.Validation("invalid job id"))
	}
	jcs, err := h.uc.ListJobCandidates(c.UserContext(), jobID)
	if err != nil {
		return util.Error(c, err)
	}
	return util.Success(c, fiber.StatusOK, "Candidates listed", jcs)
}

func (h *RecruitmentHandler) UploadResume(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return util.Error(c, apperr.Validation("invalid user id"))
	}
	file, err := c.FormFile("resume")
	if err != nil {
		return util.Error(c, apperr.Validation("resume file is required"))
	}
	if file.Size > maxResumeSize {
		return util.Error(c, apperr.Validation("resume file is too large (max 5MB)"))
	}

	src, err := file.Open()
	if err != nil {
		return util.Error(c, apperr.Validation("cannot read resume file"))
	}
	defer src.Close()
	fileBytes, err := io.ReadAll(src)
	if err != nil {
		return util.Error(c, apperr.Validation("cannot read resume file"))
	}

	contentType := file.Header.Get("Content-Type")
	text, err := util.ExtractText(fileBytes, contentType)
	if err != nil {
		return util.Error(c, apperr.Validation("failed to extract resume text: %v", err))
	}

	profile, result, err := h.uc.IngestResume(c.UserContext(), userID, file.Filename, contentType, fileBytes, text)
	if err != nil {
		return util.Error(c, err)
	}
	return util.Success(c, fiber.StatusOK, result.Message, fiber.Map{
		"profile":    profile,
		"structured": result.Structured,
	})
}

func (h *RecruitmentHandler) ListCandidateInterviews(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return util.Error(c, apperr.Validation("invalid user id"))
	}
	interviews, err := h.uc.ListCandidateInterviews(c.UserContext(), userID)
	if err != nil {
		return util.Error(c, err)
	}
	return util.Success(c, fiber.StatusOK, "Interviews listed", interviews)
}

func (h *RecruitmentHandler) Respond(c *fiber.Ctx) error {
	jcID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.Error(c, apperr.Validation("invalid job candidate id"))
	}
	var req dto.RespondRequest
	if err := c.BodyParser(&req); err != nil {
		return util.Error(c, apperr.Validation("invalid request body"))
	}
	jc, err := h.uc.Respond(c.UserContext(), jcID, req.Interested)
	if err != nil {
		return util.Error(c, err)
	}
	return util.Success(c, fiber.StatusOK, fmt.Sprintf("Response %q recorded", *jc.CandidateDecision), jc)
}

func (h *RecruitmentHandler) Join(c *fiber.Ctx) error {
	result, err := h.uc.Join(c.UserContext(), c.Params("token"))
	if err != nil {
		return util.Error(c, err)
	}
	return util.Success(c, fiber.StatusOK, "Interview joined", fiber.Map{
		"job_title": result.Job.Title,
		"candidate": result.Profile.FullName,
		"questions": result.Session.Questions,
		"started":   result.Session.StartedAt != nil,
	})
}

func (h *RecruitmentHandler) Start(c *fiber.Ctx) error {
	session, err := h.uc.Start(c.UserContext(), c.Params("token"))
	if err != nil {
		return util.Error(c, err)
	}
	return util.Success(c, fiber.StatusOK, "Interview started", session)
}

func (h *RecruitmentHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return util.Error(c, apperr.Validation("invalid request body"))
	}
	reply, err := h.uc.Chat(c.UserContext(), c.Params("token"), req.Transcript, req.Message)
	if err != nil {
		return util.Error(c, err)
	}
	return util.Success(c, fiber.StatusOK, "Chat turn generated", dto.ChatResponse{Reply: reply})
}

func (h *RecruitmentHandler) Complete(c *fiber.Ctx) error {
	var req dto.CompleteRequest
	if err := c.BodyParser(&req); err != nil {
		return util.Error(c, apperr.Validation("invalid request body"))
	}
	session, err := h.uc.Complete(c.UserContext(), c.Params("token"), req.Transcript)
	if err != nil {
		return util.Error(c, err)
	}
	return util.Success(c, fiber.StatusOK, "Interview completed", session)
}

func (h *RecruitmentHandler) UploadRecording(c *fiber.Ctx) error {
	var req dto.UploadRecordingRequest
	if err := c.BodyParser(&req); err != nil {
		return util.Error(c, apperr.Validation("invalid request body"))
	}
	session, err := h.uc.UploadRecording(c.UserContext(), c.Params("token"), req.URL)
	if err != nil {
		return util.Error(c, err)
	}
	return util.Success(c, fiber.StatusOK, "Recording attached", session)
}
