// Package usecase implements the recruitment workflow engine: the Job,
// JobCandidate and InterviewSession lifecycles. It exclusively owns their
// state transitions; ranking and extraction are delegated to the agent
// dispatcher and never mutate persisted entities themselves.
package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hireflow-ai/hireflow/internal/agent"
	"github.com/hireflow-ai/hireflow/internal/apperr"
	"github.com/hireflow-ai/hireflow/internal/config"
	"github.com/hireflow-ai/hireflow/internal/matching"
	"github.com/hireflow-ai/hireflow/internal/model"
	"github.com/hireflow-ai/hireflow/internal/schema"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

type JobStore interface {
	Create(ctx context.Context, job *model.Job) error
	Update(ctx context.Context, job *model.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Job, error)
	ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]model.Job, error)
}

type CandidateStore interface {
	UpsertProfile(ctx context.Context, profile *model.CandidateProfile) error
	GetProfileByID(ctx context.Context, id uuid.UUID) (*model.CandidateProfile, error)
	GetProfileByUser(ctx context.Context, userID uuid.UUID) (*model.CandidateProfile, error)
	SaveResumeBlob(ctx context.Context, blob *model.ResumeBlob) error
	LastResumeBlob(ctx context.Context, userID uuid.UUID) (*model.ResumeBlob, error)
}

type JobCandidateStore interface {
	Create(ctx context.Context, jc *model.JobCandidate) error
	Update(ctx context.Context, jc *model.JobCandidate) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.JobCandidate, error)
	GetByJobAndProfile(ctx context.Context, jobID, profileID uuid.UUID) (*model.JobCandidate, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]model.JobCandidate, error)
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]model.JobCandidate, error)
	ClearTop3(ctx context.Context, jobID uuid.UUID) error
}

type InterviewStore interface {
	Create(ctx context.Context, session *model.InterviewSession) error
	Update(ctx context.Context, session *model.InterviewSession) error
	GetByToken(ctx context.Context, token string) (*model.InterviewSession, error)
	GetByJobCandidate(ctx context.Context, jobCandidateID uuid.UUID) (*model.InterviewSession, error)
}

// VectorIndex is the resume embedding index, write side only. Reads go
// through the ranker.
type VectorIndex interface {
	Add(ctx context.Context, profileID uuid.UUID, document string, metadata map[string]string) error
}

// AgentClient is the dispatcher boundary.
type AgentClient interface {
	IngestResume(ctx context.Context, profileID, fileText string) (*agent.IngestResumeResult, error)
	BestMatch(ctx context.Context, jobID, jobSchemaJSON string, jobSkills []string) (*agent.BestMatchResult, error)
	PrepareQuestions(ctx context.Context, jobContent, profileJSON string) ([]string, error)
	StoreInterviewResults(ctx context.Context, report agent.FinalReport) error
}

type ModelInvoker interface {
	InvokeText(ctx context.Context, system, user string) (string, error)
	InvokeStructured(ctx context.Context, system, user string, outSchema *genai.Schema, out any) error
}

// Mailer reports success/failure and never errors; delivery failures do not
// roll back the workflow transitions they follow.
type Mailer interface {
	SendJobOpportunity(ctx context.Context, email, name, jobTitle, jobMarkdown, profileSummary string) bool
	SendInterviewLink(ctx context.Context, email, name, jobTitle, link string) bool
}

// MediaGenerator produces per-question interview videos. External
// collaborator, always invoked off the request path.
type MediaGenerator interface {
	GenerateQuestionVideos(ctx context.Context, sessionID uuid.UUID, questions []string) ([]string, error)
}

type BackgroundQueue interface {
	Submit(name string, fn func(ctx context.Context) error)
}

type RecruitmentUsecase struct {
	jobs       JobStore
	candidates CandidateStore
	jobCands   JobCandidateStore
	interviews InterviewStore
	index      VectorIndex
	agents     AgentClient
	invoker    ModelInvoker
	mailer     Mailer
	media      MediaGenerator
	tasks      BackgroundQueue
	appCfg     *config.AppConfig
	logger     *zap.Logger
}

type RecruitmentUsecaseDeps struct {
	Jobs       JobStore
	Candidates CandidateStore
	JobCands   JobCandidateStore
	Interviews InterviewStore
	Index      VectorIndex
	Agents     AgentClient
	Invoker    ModelInvoker
	Mailer     Mailer
	Media      MediaGenerator
	Tasks      BackgroundQueue
	AppConfig  *config.AppConfig
	Logger     *zap.Logger
}

func NewRecruitmentUsecase(deps RecruitmentUsecaseDeps) *RecruitmentUsecase {
	return &RecruitmentUsecase{
		jobs:       deps.Jobs,
		candidates: deps.Candidates,
		jobCands:   deps.JobCands,
		interviews: deps.Interviews,
		index:      deps.Index,
		agents:     deps.Agents,
		invoker:    deps.Invoker,
		mailer:     deps.Mailer,
		media:      deps.Media,
		tasks:      deps.Tasks,
		appCfg:     deps.AppConfig,
		logger:     deps.Logger,
	}
}

func (u *RecruitmentUsecase) CreateJob(ctx context.Context, employerID uuid.UUID, title, descriptionMD string) (*model.Job, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperr.Validation("job title is required")
	}
	job := &model.Job{
		ID:            uuid.New(),
		EmployerID:    employerID,
		Title:         title,
		DescriptionMD: descriptionMD,
		Status:        model.JobStatusDraft,
	}
	if err := u.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// UpdateJob applies employer edits. Only drafts are editable.
func (u *RecruitmentUsecase) UpdateJob(ctx context.Context, jobID uuid.UUID, title, descriptionMD string, descSchema *schema.JobDescriptionRoot) (*model.Job, error) {
	job, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != model.JobStatusDraft {
		return nil, apperr.StateConflict("job %s is %s, only drafts can be edited", job.ID, job.Status)
	}
	if title != "" {
		job.Title = title
	}
	if descriptionMD != "" {
		job.DescriptionMD = descriptionMD
	}
	if descSchema != nil {
		descSchema.Normalize()
		job.DescriptionSchema = descSchema
	}
	if err := u.jobs.Update(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (u *RecruitmentUsecase) GetJob(ctx context.Context, jobID uuid.UUID) (*model.Job, error) {
	return u.jobs.GetByID(ctx, jobID)
}

func (u *RecruitmentUsecase) ListJobs(ctx context.Context, employerID uuid.UUID) ([]model.Job, error) {
	return u.jobs.ListByEmployer(ctx, employerID)
}

const jdExtractionSystem = "You are a job-description structuring assistant. Convert the posting into JSON with this exact shape: " +
	`{"job_description": {"company_information": {"company_name", "industry", "website", "location": {"city", "state", "country", "remote"}}, ` +
	`"job_details": {"job_title", "department", "employment_type", "experience_level", "posted_date", "application_deadline"}, ` +
	`"summary", "responsibilities": [], ` +
	`"requirements": {"education", "experience_years", "technical_skills": [], "soft_skills": [], "certifications": []}, ` +
	`"preferred_qualifications": [], "compensation": {"salary_min", "salary_max", "currency", "benefits": []}, ` +
	`"application_information": {"apply_link", "contact_email", "instructions"}}}. ` +
	"technical_skills must always be a list, possibly empty. Return only JSON."

// GenerateJD produces a structured JD (and its markdown rendering) from a
// free-text brief. Used by employers drafting a posting.
func (u *RecruitmentUsecase) GenerateJD(ctx context.Context, brief string) (*schema.JobDescriptionRoot, string, error) {
	if strings.TrimSpace(brief) == "" {
		return nil, "", apperr.Validation("job brief is required")
	}
	var root schema.JobDescriptionRoot
	if err := u.invoker.InvokeStructured(ctx, jdExtractionSystem, brief, nil, &root); err != nil {
		return nil, "", err
	}
	root.Normalize()
	return &root, root.ToMarkdown(), nil
}

// Publish moves a draft to published. When only markdown exists, a
// structured description is extracted first; extraction failure still
// publishes (best-match will then reject later). On a structured JD the
// shortlist is computed and a JobCandidate plus InterviewSession is created
// per resolvable top-5 entry, with opportunity mails queued off-path.
func (u *RecruitmentUsecase) Publish(ctx context.Context, jobID uuid.UUID) (*model.Job, error) {
	job, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != model.JobStatusDraft {
		return nil, apperr.StateConflict("job %s is %s, only drafts can be published", job.ID, job.Status)
	}
	if job.DescriptionSchema == nil && strings.TrimSpace(job.DescriptionMD) == "" {
		return nil, apperr.Validation("job needs a structured or markdown description before publishing")
	}

	if job.DescriptionSchema == nil {
		var root schema.JobDescriptionRoot
		if err := u.invoker.InvokeStructured(ctx, jdExtractionSystem, job.DescriptionMD, nil, &root); err != nil {
			u.logger.Warn("jd extraction failed, publishing without structured description",
				zap.String("job_id", job.ID.String()), zap.Error(err))
		} else {
			root.Normalize()
			job.DescriptionSchema = &root
			job.DescriptionMD = root.ToMarkdown()
		}
	}

	if job.DescriptionSchema != nil {
		u.shortlistCandidates(ctx, job)
	}

	job.Status = model.JobStatusPublished
	if err := u.jobs.Update(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (u *RecruitmentUsecase) shortlistCandidates(ctx context.Context, job *model.Job) {
	skills := matching.ExtractJobSkills(job.DescriptionSchema)
	result, err := u.agents.BestMatch(ctx, job.ID.String(), job.Content(), skills)
	if err != nil {
		u.logger.Warn("best match failed, publishing without shortlist",
			zap.String("job_id", job.ID.String()), zap.Error(err))
		return
	}

	for _, entry := range result.Shortlist {
		profileID, err := uuid.Parse(entry.ProfileID)
		if err != nil {
			continue
		}
		profile, err := u.candidates.GetProfileByID(ctx, profileID)
		if err != nil {
			// Unresolvable shortlist entries are skipped, not errored.
			u.logger.Warn("skipping unresolvable shortlist entry",
				zap.String("profile_id", entry.ProfileID), zap.Error(err))
			continue
		}

		invitedAt := job.CreatedAt
		jc := &model.JobCandidate{
			ID:                 uuid.New(),
			JobID:              job.ID,
			CandidateProfileID: profile.ID,
			Rank:               entry.Rank,
			InvitedAt:          &invitedAt,
		}
		if err := u.jobCands.Create(ctx, jc); err != nil {
			u.logger.Error("create job candidate", zap.Error(err))
			continue
		}
		session := &model.InterviewSession{
			ID:             uuid.New(),
			JobCandidateID: jc.ID,
			LinkToken:      model.NewInterviewToken(),
			Questions:      []string{},
		}
		if err := u.interviews.Create(ctx, session); err != nil {
			u.logger.Error("create interview session", zap.Error(err))
			continue
		}

		if profile.Email != "" {
			u.queueOpportunityMail(job, profile)
		}
	}
}

func (u *RecruitmentUsecase) queueOpportunityMail(job *model.Job, profile *model.CandidateProfile) {
	email, name, summary := profile.Email, profile.FullName, profile.Summary
	title, markdown := u.jobTitle(job), job.DescriptionMD
	u.tasks.Submit("job_opportunity_mail", func(ctx context.Context) error {
		if !u.mailer.SendJobOpportunity(ctx, email, name, title, markdown, summary) {
			return apperr.Validation("opportunity mail to %s not delivered", email)
		}
		return nil
	})
}

func (u *RecruitmentUsecase) jobTitle(job *model.Job) string {
	if job.DescriptionSchema != nil && job.DescriptionSchema.JobDescription.JobDetails.JobTitle != "" {
		return job.DescriptionSchema.JobDescription.JobDetails.JobTitle
	}
	return job.Title
}

// Reinvite re-sends the opportunity mail for an existing shortlist entry
// and refreshes invited_at. Published jobs only.
func (u *RecruitmentUsecase) Reinvite(ctx context.Context, jobID, profileID uuid.UUID) error {
	job, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status != model.JobStatusPublished {
		return apperr.StateConflict("job %s is %s, only published jobs can reinvite", job.ID, job.Status)
	}
	jc, err := u.jobCands.GetByJobAndProfile(ctx, jobID, profileID)
	if err != nil {
		return err
	}
	profile, err := u.candidates.GetProfileByID(ctx, profileID)
	if err != nil {
		return err
	}
	if profile.Email == "" {
		return apperr.Validation("candidate has no email address")
	}
	now := time.Now()
	jc.InvitedAt = &now
	if err := u.jobCands.Update(ctx, jc); err != nil {
		return err
	}
	u.queueOpportunityMail(job, profile)
	return nil
}

type qualifiedCandidate struct {
	jc      *model.JobCandidate
	session *model.InterviewSession
}

// Finalize closes a published job: selects the top 3 by score among
// candidates with a completed interview and non-empty transcript, forwards
// the report, and sets status=closed. Reporting failure never blocks the
// close. A second finalize fails on the status guard, leaving the first
// selection untouched.
func (u *RecruitmentUsecase) Finalize(ctx context.Context, jobID uuid.UUID) (*agent.FinalReport, error) {
	job, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != model.JobStatusPublished {
		return nil, apperr.StateConflict("job %s is %s, only published jobs can be finalized", job.ID, job.Status)
	}

	jcs, err := u.jobCands.ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	var qualified []qualifiedCandidate
	for i := range jcs {
		jc := &jcs[i]
		if jc.InterviewCompletedAt == nil {
			continue
		}
		session, err := u.interviews.GetByJobCandidate(ctx, jc.ID)
		if err != nil || strings.TrimSpace(session.Transcript) == "" {
			continue
		}
		qualified = append(qualified, qualifiedCandidate{jc: jc, session: session})
	}
	if len(qualified) == 0 {
		return nil, apperr.StateConflict("no completed interviews with transcripts to finalize")
	}

	sort.SliceStable(qualified, func(i, j int) bool {
		return scoreOrZero(qualified[i].jc.Score) > scoreOrZero(qualified[j].jc.Score)
	})
	topN := 3
	if len(qualified) < topN {
		topN = len(qualified)
	}
	top3 := make(map[uuid.UUID]struct{}, topN)
	for _, q := range qualified[:topN] {
		top3[q.jc.ID] = struct{}{}
	}

	if err := u.jobCands.ClearTop3(ctx, jobID); err != nil {
		return nil, err
	}
	report := agent.FinalReport{JobID: job.ID.String(), JobTitle: u.jobTitle(job)}
	for _, q := range qualified {
		_, selected := top3[q.jc.ID]
		q.jc.SelectedTop3 = selected
		if err := u.jobCands.Update(ctx, q.jc); err != nil {
			return nil, err
		}
		report.Candidates = append(report.Candidates, map[string]any{
			"profile_id":    q.jc.CandidateProfileID.String(),
			"rank":          q.jc.Rank,
			"score":         q.jc.Score,
			"transcript":    q.session.Transcript,
			"recording_url": q.session.RecordingURL,
		})
		if selected {
			report.Top3IDs = append(report.Top3IDs, q.jc.CandidateProfileID.String())
		}
	}

	if err := u.agents.StoreInterviewResults(ctx, report); err != nil {
		u.logger.Warn("storing final report failed, closing job anyway",
			zap.String("job_id", job.ID.String()), zap.Error(err))
	}

	job.Status = model.JobStatusClosed
	if err := u.jobs.Update(ctx, job); err != nil {
		return nil, err
	}
	return &report, nil
}

// ListJobCandidates returns the shortlist for an employer's job, rank
// ascending.
func (u *RecruitmentUsecase) ListJobCandidates(ctx context.Context, jobID uuid.UUID) ([]model.JobCandidate, error) {
	if _, err := u.jobs.GetByID(ctx, jobID); err != nil {
		return nil, err
	}
	return u.jobCands.ListByJob(ctx, jobID)
}

func scoreOrZero(score *float64) float64 {
	if score == nil {
		return 0
	}
	return *score
}

// IngestResume runs the extraction pipeline for an uploaded resume: parse
// via the dispatcher, upsert the profile, keep the blob, and (re)index the
// document. Index failures are logged, not fatal: the profile and blob are
// already stored.
func (u *RecruitmentUsecase) IngestResume(ctx context.Context, userID uuid.UUID, fileName, contentType string, fileBytes []byte, fileText string) (*model.CandidateProfile, *agent.IngestResumeResult, error) {
	if strings.TrimSpace(fileText) == "" {
		return nil, nil, apperr.Validation("no text could be extracted from the resume")
	}

	profile, err := u.candidates.GetProfileByUser(ctx, userID)
	if err != nil {
		var notFound *apperr.NotFoundError
		if !errors.As(err, &notFound) {
			return nil, nil, err
		}
		profile = &model.CandidateProfile{ID: uuid.New(), UserID: userID}
	}

	result, err := u.agents.IngestResume(ctx, profile.ID.String(), fileText)
	if err != nil {
		return nil, nil, err
	}
	if result.Structured {
		profile.ApplyResume(result.Resume)
	}
	if err := u.candidates.UpsertProfile(ctx, profile); err != nil {
		return nil, nil, err
	}

	blob := &model.ResumeBlob{
		ID:            uuid.New(),
		UserID:        userID,
		FileName:      fileName,
		ContentType:   contentType,
		FileContent:   fileBytes,
		ExtractedText: fileText,
		ParsedSchema:  result.Resume,
	}
	if err := u.candidates.SaveResumeBlob(ctx, blob); err != nil {
		return nil, nil, err
	}

	document := indexDocument(result, fileText)
	if err := u.index.Add(ctx, profile.ID, document, map[string]string{"file_name": fileName}); err != nil {
		u.logger.Warn("resume indexing failed, profile stored without embedding",
			zap.String("profile_id", profile.ID.String()), zap.Error(err))
	}
	return profile, result, nil
}

func indexDocument(result *agent.IngestResumeResult, fileText string) string {
	if result.Structured {
		if raw, err := json.Marshal(result.Resume); err == nil {
			return string(raw)
		}
	}
	raw, _ := json.Marshal(map[string]any{"resume": map[string]any{"summary": fileText}})
	return string(raw)
}

// CandidateInterview is the candidate-portal view of one shortlist entry.
type CandidateInterview struct {
	JobID             string   `json:"job_id"`
	JobTitle          string   `json:"job_title"`
	Rank              int      `json:"rank"`
	CandidateDecision *string  `json:"candidate_decision"`
	Score             *float64 `json:"score"`
	InterviewToken    string   `json:"interview_token"`
	Completed         bool     `json:"completed"`
}

func (u *RecruitmentUsecase) ListCandidateInterviews(ctx context.Context, userID uuid.UUID) ([]CandidateInterview, error) {
	profile, err := u.candidates.GetProfileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	jcs, err := u.jobCands.ListByProfile(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	out := make([]CandidateInterview, 0, len(jcs))
	for i := range jcs {
		jc := &jcs[i]
		job, err := u.jobs.GetByID(ctx, jc.JobID)
		if err != nil {
			continue
		}
		session, err := u.interviews.GetByJobCandidate(ctx, jc.ID)
		if err != nil {
			continue
		}
		out = append(out, CandidateInterview{
			JobID:             jc.JobID.String(),
			JobTitle:          u.jobTitle(job),
			Rank:              jc.Rank,
			CandidateDecision: jc.CandidateDecision,
			Score:             jc.Score,
			InterviewToken:    session.LinkToken,
			Completed:         jc.InterviewCompletedAt != nil,
		})
	}
	return out, nil
}
