package agent

import (
	"sync"

	"github.com/hireflow-ai/hireflow/internal/schema"
)

// StoredResume is one ingested resume held in process. Resume is nil when
// extraction failed and only the raw text was kept.
type StoredResume struct {
	ProfileID string
	Resume    *schema.ResumeRoot
	RawText   string
}

// ResumeStore is the in-process candidate list the best-match action ranks
// against. It is constructed once per process and injected into the
// dispatcher; insertion order is preserved.
type ResumeStore struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]StoredResume
}

func NewResumeStore() *ResumeStore {
	return &ResumeStore{entries: make(map[string]StoredResume)}
}

// Put inserts or replaces the resume for a profile. A replaced entry keeps
// its original position.
func (s *ResumeStore) Put(entry StoredResume) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[entry.ProfileID]; !ok {
		s.order = append(s.order, entry.ProfileID)
	}
	s.entries[entry.ProfileID] = entry
}

func (s *ResumeStore) Get(profileID string) (StoredResume, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[profileID]
	return entry, ok
}

// All returns the stored resumes in insertion order.
func (s *ResumeStore) All() []StoredResume {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]StoredResume, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.entries[id])
	}
	return out
}

func (s *ResumeStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// FinalReport is the finalize payload forwarded by store_interview_results.
type FinalReport struct {
	JobID      string           `json:"job_id"`
	JobTitle   string           `json:"job_title"`
	Candidates []map[string]any `json:"candidates"`
	Top3IDs    []string         `json:"top_3_ids"`
}

// ReportStore keeps the latest finalize report per job.
type ReportStore struct {
	mu      sync.RWMutex
	reports map[string]FinalReport
}

func NewReportStore() *ReportStore {
	return &ReportStore{reports: make(map[string]FinalReport)}
}

func (s *ReportStore) Put(report FinalReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[report.JobID] = report
}

func (s *ReportStore) Get(jobID string) (FinalReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.reports[jobID]
	return report, ok
}
