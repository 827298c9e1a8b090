package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/hireflow-ai/hireflow/internal/agent"
	"github.com/hireflow-ai/hireflow/internal/apperr"
	"github.com/hireflow-ai/hireflow/internal/config"
	"github.com/hireflow-ai/hireflow/internal/model"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// The in-memory stores return copies so mutations only persist through
// Update, matching the state-guard re-read semantics of the real
// repositories.

type memJobs struct {
	mu   sync.Mutex
	rows map[uuid.UUID]model.Job
}

func newMemJobs() *memJobs { return &memJobs{rows: map[uuid.UUID]model.Job{}} }

func (m *memJobs) Create(ctx context.Context, job *model.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[job.ID] = *job
	return nil
}

func (m *memJobs) Update(ctx context.Context, job *model.Job) error {
	return m.Create(ctx, job)
}

func (m *memJobs) GetByID(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.rows[id]
	if !ok {
		return nil, apperr.NotFound("job")
	}
	return &job, nil
}

func (m *memJobs) ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]model.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Job
	for _, job := range m.rows {
		if job.EmployerID == employerID {
			out = append(out, job)
		}
	}
	return out, nil
}

type memCandidates struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]model.CandidateProfile
	blobs    []model.ResumeBlob
}

func newMemCandidates() *memCandidates {
	return &memCandidates{profiles: map[uuid.UUID]model.CandidateProfile{}}
}

func (m *memCandidates) UpsertProfile(ctx context.Context, profile *model.CandidateProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.ID] = *profile
	return nil
}

func (m *memCandidates) GetProfileByID(ctx context.Context, id uuid.UUID) (*model.CandidateProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	profile, ok := m.profiles[id]
	if !ok {
		return nil, apperr.NotFound("candidate profile")
	}
	return &profile, nil
}

func (m *memCandidates) GetProfileByUser(ctx context.Context, userID uuid.UUID) (*model.CandidateProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, profile := range m.profiles {
		if profile.UserID == userID {
			p := profile
			return &p, nil
		}
	}
	return nil, apperr.NotFound("candidate profile")
}

func (m *memCandidates) SaveResumeBlob(ctx context.Context, blob *model.ResumeBlob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs = append(m.blobs, *blob)
	return nil
}

func (m *memCandidates) LastResumeBlob(ctx context.Context, userID uuid.UUID) (*model.ResumeBlob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.blobs) - 1; i >= 0; i-- {
		if m.blobs[i].UserID == userID {
			blob := m.blobs[i]
			return &blob, nil
		}
	}
	return nil, apperr.NotFound("resume")
}

type memJobCandidates struct {
	mu   sync.Mutex
	rows map[uuid.UUID]model.JobCandidate
}

func newMemJobCandidates() *memJobCandidates {
	return &memJobCandidates{rows: map[uuid.UUID]model.JobCandidate{}}
}

func (m *memJobCandidates) Create(ctx context.Context, jc *model.JobCandidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[jc.ID] = *jc
	return nil
}

func (m *memJobCandidates) Update(ctx context.Context, jc *model.JobCandidate) error {
	return m.Create(ctx, jc)
}

func (m *memJobCandidates) GetByID(ctx context.Context, id uuid.UUID) (*model.JobCandidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	jc, ok := m.rows[id]
	if !ok {
		return nil, apperr.NotFound("job candidate")
	}
	return &jc, nil
}

func (m *memJobCandidates) GetByJobAndProfile(ctx context.Context, jobID, profileID uuid.UUID) (*model.JobCandidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, jc := range m.rows {
		if jc.JobID == jobID && jc.CandidateProfileID == profileID {
			row := jc
			return &row, nil
		}
	}
	return nil, apperr.NotFound("job candidate")
}

func (m *memJobCandidates) ListByJob(ctx context.Context, jobID uuid.UUID) ([]model.JobCandidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.JobCandidate
	for _, jc := range m.rows {
		if jc.JobID == jobID {
			out = append(out, jc)
		}
	}
	return out, nil
}

func (m *memJobCandidates) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]model.JobCandidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.JobCandidate
	for _, jc := range m.rows {
		if jc.CandidateProfileID == profileID {
			out = append(out, jc)
		}
	}
	return out, nil
}

func (m *memJobCandidates) ClearTop3(ctx context.Context, jobID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, jc := range m.rows {
		if jc.JobID == jobID {
			jc.SelectedTop3 = false
			m.rows[id] = jc
		}
	}
	return nil
}

type memInterviews struct {
	mu   sync.Mutex
	rows map[uuid.UUID]model.InterviewSession
}

func newMemInterviews() *memInterviews {
	return &memInterviews{rows: map[uuid.UUID]model.InterviewSession{}}
}

func (m *memInterviews) Create(ctx context.Context, session *model.InterviewSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[session.ID] = *session
	return nil
}

func (m *memInterviews) Update(ctx context.Context, session *model.InterviewSession) error {
	return m.Create(ctx, session)
}

func (m *memInterviews) GetByToken(ctx context.Context, token string) (*model.InterviewSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, session := range m.rows {
		if session.LinkToken == token {
			s := session
			return &s, nil
		}
	}
	return nil, apperr.NotFound("interview session")
}

func (m *memInterviews) GetByJobCandidate(ctx context.Context, jobCandidateID uuid.UUID) (*model.InterviewSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, session := range m.rows {
		if session.JobCandidateID == jobCandidateID {
			s := session
			return &s, nil
		}
	}
	return nil, apperr.NotFound("interview session")
}

type memIndex struct {
	mu   sync.Mutex
	docs map[uuid.UUID]string
	err  error
}

func newMemIndex() *memIndex { return &memIndex{docs: map[uuid.UUID]string{}} }

func (m *memIndex) Add(ctx context.Context, profileID uuid.UUID, document string, metadata map[string]string) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[profileID] = document
	return nil
}

type stubAgents struct {
	questions    []string
	questionsErr error
	bestMatch    *agent.BestMatchResult
	bestMatchErr error
	ingest       *agent.IngestResumeResult
	ingestErr    error
	reports      []agent.FinalReport
	reportsErr   error
}

func (s *stubAgents) IngestResume(ctx context.Context, profileID, fileText string) (*agent.IngestResumeResult, error) {
	return s.ingest, s.ingestErr
}

func (s *stubAgents) BestMatch(ctx context.Context, jobID, jobSchemaJSON string, jobSkills []string) (*agent.BestMatchResult, error) {
	return s.bestMatch, s.bestMatchErr
}

func (s *stubAgents) PrepareQuestions(ctx context.Context, jobContent, profileJSON string) ([]string, error) {
	return s.questions, s.questionsErr
}

func (s *stubAgents) StoreInterviewResults(ctx context.Context, report agent.FinalReport) error {
	if s.reportsErr != nil {
		return s.reportsErr
	}
	s.reports = append(s.reports, report)
	return nil
}

type stubModel struct {
	text          string
	textErr       error
	structured    func(out any) error
	structuredErr error
}

func (s *stubModel) InvokeText(ctx context.Context, system, user string) (string, error) {
	return s.text, s.textErr
}

func (s *stubModel) InvokeStructured(ctx context.Context, system, user string, outSchema *genai.Schema, out any) error {
	if s.structuredErr != nil {
		return s.structuredErr
	}
	if s.structured != nil {
		return s.structured(out)
	}
	return nil
}

type mailRecord struct {
	kind  string
	email string
}

type stubMailer struct {
	mu    sync.Mutex
	sent  []mailRecord
	fails bool
}

func (s *stubMailer) SendJobOpportunity(ctx context.Context, email, name, jobTitle, jobMarkdown, profileSummary string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, mailRecord{kind: "opportunity", email: email})
	return !s.fails
}

func (s *stubMailer) SendInterviewLink(ctx context.Context, email, name, jobTitle, link string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, mailRecord{kind: "interview_link", email: email})
	return !s.fails
}

// inlineQueue runs tasks synchronously so tests observe side effects
// deterministically.
type inlineQueue struct{}

func (inlineQueue) Submit(name string, fn func(ctx context.Context) error) {
	_ = fn(context.Background())
}

type fixture struct {
	uc         *RecruitmentUsecase
	jobs       *memJobs
	candidates *memCandidates
	jobCands   *memJobCandidates
	interviews *memInterviews
	index      *memIndex
	agents     *stubAgents
	invoker    *stubModel
	mailer     *stubMailer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		jobs:       newMemJobs(),
		candidates: newMemCandidates(),
		jobCands:   newMemJobCandidates(),
		interviews: newMemInterviews(),
		index:      newMemIndex(),
		agents:     &stubAgents{},
		invoker:    &stubModel{},
		mailer:     &stubMailer{},
	}
	f.uc = NewRecruitmentUsecase(RecruitmentUsecaseDeps{
		Jobs:       f.jobs,
		Candidates: f.candidates,
		JobCands:   f.jobCands,
		Interviews: f.interviews,
		Index:      f.index,
		Agents:     f.agents,
		Invoker:    f.invoker,
		Mailer:     f.mailer,
		Tasks:      inlineQueue{},
		AppConfig:  &config.AppConfig{FrontendURL: "http://localhost:3000"},
		Logger:     zap.NewNop(),
	})
	return f
}

func (f *fixture) addProfile(t *testing.T, name, email string) *model.CandidateProfile {
	t.Helper()
	profile := &model.CandidateProfile{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		FullName: name,
		Email:    email,
	}
	if err := f.candidates.UpsertProfile(context.Background(), profile); err != nil {
		t.Fatal(err)
	}
	return profile
}
