// Package agent routes the four recruitment actions (ingest_resume,
// best_match, prepare_questions, store_interview_results) over an
// asynchronous channel boundary to the extraction and ranking capabilities.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hireflow-ai/hireflow/internal/apperr"
	"github.com/hireflow-ai/hireflow/internal/matching"
	"github.com/hireflow-ai/hireflow/internal/schema"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	ActionIngestResume          = "ingest_resume"
	ActionBestMatch             = "best_match"
	ActionPrepareQuestions      = "prepare_questions"
	ActionStoreInterviewResults = "store_interview_results"
)

type modelInvoker interface {
	InvokeText(ctx context.Context, system, user string) (string, error)
	InvokeStructured(ctx context.Context, system, user string, outSchema *genai.Schema, out any) error
}

type IngestResumeRequest struct {
	Action    string `json:"action"`
	ProfileID string `json:"profile_id"`
	FileText  string `json:"file_text"`
}

type IngestResumeResult struct {
	Message    string             `json:"message"`
	Structured bool               `json:"structured"`
	Resume     *schema.ResumeRoot `json:"resume,omitempty"`
	RawText    string             `json:"raw_text,omitempty"`
}

type BestMatchRequest struct {
	Action        string   `json:"action"`
	JobID         string   `json:"job_id"`
	JobSchemaJSON string   `json:"job_schema_json"`
	JobSkills     []string `json:"job_skills"`
}

type BestMatchResult struct {
	Signals   *matching.Signals      `json:"signals"`
	Shortlist []matching.RankedEntry `json:"shortlist"`
}

type PrepareQuestionsRequest struct {
	Action      string `json:"action"`
	JobContent  string `json:"job_content"`
	ProfileJSON string `json:"profile_json"`
}

type PrepareQuestionsResult struct {
	Questions []string `json:"questions"`
}

type StoreInterviewResultsRequest struct {
	Action string      `json:"action"`
	Report FinalReport `json:"report"`
}

type StoreInterviewResultsResult struct {
	Message string `json:"message"`
}

type response struct {
	data []byte
	err  error
}

type envelope struct {
	payload []byte
	reply   chan response
}

// Dispatcher owns the request channel and the single worker that serves
// it. Construct once per process, Start once, share by reference.
type Dispatcher struct {
	requests chan envelope
	invoker  modelInvoker
	ranker   *matching.Ranker
	resumes  *ResumeStore
	reports  *ReportStore
	logger   *zap.Logger
}

func NewDispatcher(invoker modelInvoker, ranker *matching.Ranker, resumes *ResumeStore, reports *ReportStore, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		requests: make(chan envelope),
		invoker:  invoker,
		ranker:   ranker,
		resumes:  resumes,
		reports:  reports,
		logger:   logger,
	}
}

// Start runs the worker loop until ctx is canceled.
func (d *Dispatcher) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case env := <-d.requests:
				data, err := d.handle(ctx, env.payload)
				env.reply <- response{data: data, err: err}
			}
		}
	}()
}

// Send submits a tagged JSON payload and waits for the worker's reply.
func (d *Dispatcher) Send(ctx context.Context, payload []byte) ([]byte, error) {
	env := envelope{payload: payload, reply: make(chan response, 1)}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case d.requests <- env:
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case resp := <-env.reply:
		return resp.data, resp.err
	}
}

func (d *Dispatcher) handle(ctx context.Context, payload []byte) ([]byte, error) {
	if !gjson.ValidBytes(payload) {
		return nil, apperr.Validation("malformed dispatch payload")
	}
	action := gjson.GetBytes(payload, "action").String()
	d.logger.Debug("dispatching action", zap.String("action", action))

	switch action {
	case ActionIngestResume:
		return d.handleIngestResume(ctx, payload)
	case ActionBestMatch:
		return d.handleBestMatch(ctx, payload)
	case ActionPrepareQuestions:
		return d.handlePrepareQuestions(ctx, payload)
	case ActionStoreInterviewResults:
		return d.handleStoreInterviewResults(payload)
	default:
		return nil, apperr.Validation("unknown action %q", action)
	}
}

const resumeExtractionSystem = "You are a resume parser. Extract the resume into JSON with this exact shape: " +
	`{"resume": {"personal_information": {"name", "email", "phone", "address": {"street", "city", "state", "zip_code", "country"}}, ` +
	`"education": [{"degree", "major", "school", "graduation_year"}], ` +
	`"work_experience": [{"position", "company", "start_date", "end_date", "responsibilities": []}], ` +
	`"skills": [], "summary", "additional_details": {"languages": [], "certifications": [], "interests": []}}}. ` +
	"Use empty strings or empty lists for anything the resume does not state. Return only JSON."

func (d *Dispatcher) handleIngestResume(ctx context.Context, payload []byte) ([]byte, error) {
	var req IngestResumeRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, apperr.Validation("malformed ingest_resume payload: %v", err)
	}
	if req.FileText == "" {
		return nil, apperr.Validation("ingest_resume requires file_text")
	}

	var parsed schema.ResumeRoot
	err := d.invoker.InvokeStructured(ctx, resumeExtractionSystem, req.FileText, nil, &parsed)
	result := IngestResumeResult{}
	var parseErr *apperr.ExtractionParseError
	switch {
	case err == nil:
		result.Structured = true
		result.Resume = &parsed
		result.Message = fmt.Sprintf("Resume for %s ingested.", parsed.Resume.PersonalInformation.Name)
	case errors.As(err, &parseErr):
		// Keep the raw text rather than dropping the upload.
		result.RawText = req.FileText
		result.Message = "Resume stored without structured extraction."
		d.logger.Warn("resume extraction unparseable, storing raw text", zap.Error(err))
	default:
		return nil, err
	}

	d.resumes.Put(StoredResume{ProfileID: req.ProfileID, Resume: result.Resume, RawText: result.RawText})
	return json.Marshal(result)
}

func (d *Dispatcher) handleBestMatch(ctx context.Context, payload []byte) ([]byte, error) {
	var req BestMatchRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, apperr.Validation("malformed best_match payload: %v", err)
	}
	if req.JobSchemaJSON == "" {
		return nil, apperr.StateConflict("best match requires a structured job description")
	}

	signals, err := d.ranker.Signals(ctx, req.JobSchemaJSON, req.JobSkills)
	if err != nil {
		return nil, err
	}
	summaries := d.candidateSummaries(signals)
	shortlist := d.ranker.Shortlist(ctx, req.JobSchemaJSON, summaries)

	return json.Marshal(BestMatchResult{Signals: signals, Shortlist: shortlist})
}

// candidateSummaries orders the stored resumes by the embedding signal
// (closest first), then appends stored entries the index has not seen yet.
func (d *Dispatcher) candidateSummaries(signals *matching.Signals) []matching.CandidateSummary {
	seen := make(map[string]struct{})
	var out []matching.CandidateSummary
	for _, match := range signals.Embedding {
		if entry, ok := d.resumes.Get(match.ProfileID); ok {
			out = append(out, summarize(entry))
			seen[match.ProfileID] = struct{}{}
		}
	}
	for _, entry := range d.resumes.All() {
		if _, ok := seen[entry.ProfileID]; !ok {
			out = append(out, summarize(entry))
		}
	}
	return out
}

func summarize(entry StoredResume) matching.CandidateSummary {
	summary := matching.CandidateSummary{
		ID:             entry.ProfileID,
		Skills:         []string{},
		WorkExperience: []map[string]any{},
		Education:      []map[string]any{},
	}
	if entry.Resume == nil {
		return summary
	}
	resume := entry.Resume.Resume
	summary.FullName = resume.PersonalInformation.Name
	summary.Skills = matching.NormalizeSkills(resume.Skills)
	summary.WorkExperience = asMapList(resume.WorkExperience)
	summary.Education = asMapList(resume.Education)
	return summary
}

func asMapList(v any) []map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return []map[string]any{}
	}
	var out []map[string]any
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return []map[string]any{}
	}
	return out
}

const questionsSystem = "You are a technical recruiter preparing a screening interview. " +
	"Given a job description and a candidate profile, write up to 10 interview questions " +
	"tailored to both. Output one question per line, numbered."

func (d *Dispatcher) handlePrepareQuestions(ctx context.Context, payload []byte) ([]byte, error) {
	var req PrepareQuestionsRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, apperr.Validation("malformed prepare_questions payload: %v", err)
	}
	if req.JobContent == "" {
		return nil, apperr.Validation("prepare_questions requires job_content")
	}

	user := fmt.Sprintf("Job description:\n%s\n\nCandidate profile:\n%s", req.JobContent, req.ProfileJSON)
	text, err := d.invoker.InvokeText(ctx, questionsSystem, user)
	if err != nil {
		return nil, err
	}
	return json.Marshal(PrepareQuestionsResult{Questions: ParseQuestions(text)})
}

func (d *Dispatcher) handleStoreInterviewResults(payload []byte) ([]byte, error) {
	var req StoreInterviewResultsRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, apperr.Validation("malformed store_interview_results payload: %v", err)
	}
	if req.Report.JobID == "" {
		return nil, apperr.Validation("store_interview_results requires report.job_id")
	}
	d.reports.Put(req.Report)
	return json.Marshal(StoreInterviewResultsResult{
		Message: fmt.Sprintf("Stored interview results for job %s.", req.Report.JobID),
	})
}

// IngestResume is the typed convenience wrapper around Send.
func (d *Dispatcher) IngestResume(ctx context.Context, profileID, fileText string) (*IngestResumeResult, error) {
	req := IngestResumeRequest{Action: ActionIngestResume, ProfileID: profileID, FileText: fileText}
	var out IngestResumeResult
	if err := d.roundTrip(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (d *Dispatcher) BestMatch(ctx context.Context, jobID, jobSchemaJSON string, jobSkills []string) (*BestMatchResult, error) {
	req := BestMatchRequest{Action: ActionBestMatch, JobID: jobID, JobSchemaJSON: jobSchemaJSON, JobSkills: jobSkills}
	var out BestMatchResult
	if err := d.roundTrip(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (d *Dispatcher) PrepareQuestions(ctx context.Context, jobContent, profileJSON string) ([]string, error) {
	req := PrepareQuestionsRequest{Action: ActionPrepareQuestions, JobContent: jobContent, ProfileJSON: profileJSON}
	var out PrepareQuestionsResult
	if err := d.roundTrip(ctx, req, &out); err != nil {
		return nil, err
	}
	return out.Questions, nil
}

func (d *Dispatcher) StoreInterviewResults(ctx context.Context, report FinalReport) error {
	req := StoreInterviewResultsRequest{Action: ActionStoreInterviewResults, Report: report}
	var out StoreInterviewResultsResult
	return d.roundTrip(ctx, req, &out)
}

func (d *Dispatcher) roundTrip(ctx context.Context, req, out any) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return err
	}
	data, err := d.Send(ctx, payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
