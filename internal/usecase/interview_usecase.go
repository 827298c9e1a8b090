package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hireflow-ai/hireflow/internal/apperr"
	"github.com/hireflow-ai/hireflow/internal/model"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	jobContentPromptLimit = 3000
	profilePromptLimit    = 2000
)

// Respond records the candidate's decision on an invitation. First response
// wins: a second call fails with a conflict and leaves the stored decision
// unchanged. An interested response prepares the interview questions and
// queues the interview-link mail and media generation off-path.
func (u *RecruitmentUsecase) Respond(ctx context.Context, jobCandidateID uuid.UUID, interested bool) (*model.JobCandidate, error) {
	jc, err := u.jobCands.GetByID(ctx, jobCandidateID)
	if err != nil {
		return nil, err
	}
	if jc.CandidateDecision != nil {
		return nil, apperr.StateConflict("candidate already responded with %q", *jc.CandidateDecision)
	}

	decision := model.CandidateDecisionRejected
	if interested {
		decision = model.CandidateDecisionInterested
	}
	jc.CandidateDecision = &decision
	if err := u.jobCands.Update(ctx, jc); err != nil {
		return nil, err
	}
	if !interested {
		return jc, nil
	}

	session, err := u.interviews.GetByJobCandidate(ctx, jc.ID)
	if err != nil {
		return nil, err
	}
	job, err := u.jobs.GetByID(ctx, jc.JobID)
	if err != nil {
		return nil, err
	}
	profile, err := u.candidates.GetProfileByID(ctx, jc.CandidateProfileID)
	if err != nil {
		return nil, err
	}

	questions, err := u.agents.PrepareQuestions(ctx, job.Content(), profile.AsJSON())
	if err != nil {
		// Join prepares them lazily if this fails.
		u.logger.Warn("question preparation failed, deferring to join",
			zap.String("session_id", session.ID.String()), zap.Error(err))
	} else if len(questions) > 0 {
		session.Questions = questions
		if err := u.interviews.Update(ctx, session); err != nil {
			return nil, err
		}
		u.queueMediaGeneration(jc.ID, session.ID, questions)
	}

	if profile.Email != "" {
		u.queueInterviewLinkMail(job, profile, session.LinkToken)
	}
	return jc, nil
}

func (u *RecruitmentUsecase) queueInterviewLinkMail(job *model.Job, profile *model.CandidateProfile, token string) {
	email, name := profile.Email, profile.FullName
	title := u.jobTitle(job)
	link := strings.TrimRight(u.appCfg.FrontendURL, "/") + "/interview/" + token
	u.tasks.Submit("interview_link_mail", func(ctx context.Context) error {
		if !u.mailer.SendInterviewLink(ctx, email, name, title, link) {
			return apperr.Validation("interview link mail to %s not delivered", email)
		}
		return nil
	})
}

func (u *RecruitmentUsecase) queueMediaGeneration(jobCandidateID, sessionID uuid.UUID, questions []string) {
	if u.media == nil {
		return
	}
	u.tasks.Submit("question_media", func(ctx context.Context) error {
		videos, err := u.media.GenerateQuestionVideos(ctx, sessionID, questions)
		if err != nil {
			return err
		}
		session, err := u.interviews.GetByJobCandidate(ctx, jobCandidateID)
		if err != nil {
			return err
		}
		session.QuestionVideos = videos
		return u.interviews.Update(ctx, session)
	})
}

// JoinResult aggregates everything the interview page needs.
type JoinResult struct {
	Session   *model.InterviewSession
	Candidate *model.JobCandidate
	Job       *model.Job
	Profile   *model.CandidateProfile
}

// Join resolves the unauthenticated interview link. Rejects unknown tokens
// and completed interviews. Questions are prepared lazily here when respond
// could not.
func (u *RecruitmentUsecase) Join(ctx context.Context, token string) (*JoinResult, error) {
	session, err := u.interviews.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	jc, err := u.jobCands.GetByID(ctx, session.JobCandidateID)
	if err != nil {
		return nil, err
	}
	if jc.InterviewCompletedAt != nil {
		return nil, apperr.StateConflict("interview already completed")
	}
	job, err := u.jobs.GetByID(ctx, jc.JobID)
	if err != nil {
		return nil, err
	}
	profile, err := u.candidates.GetProfileByID(ctx, jc.CandidateProfileID)
	if err != nil {
		return nil, err
	}

	if len(session.Questions) == 0 {
		questions, err := u.agents.PrepareQuestions(ctx, job.Content(), profile.AsJSON())
		if err != nil {
			return nil, err
		}
		session.Questions = questions
		if err := u.interviews.Update(ctx, session); err != nil {
			return nil, err
		}
		u.queueMediaGeneration(jc.ID, session.ID, questions)
	}

	return &JoinResult{Session: session, Candidate: jc, Job: job, Profile: profile}, nil
}

// Start marks the interview as started. Idempotent: a repeated call is a
// no-op success and keeps the original timestamp.
func (u *RecruitmentUsecase) Start(ctx context.Context, token string) (*model.InterviewSession, error) {
	session, err := u.interviews.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if session.EndedAt != nil {
		return nil, apperr.StateConflict("interview already completed")
	}
	if session.StartedAt == nil {
		now := time.Now()
		session.StartedAt = &now
		if err := u.interviews.Update(ctx, session); err != nil {
			return nil, err
		}
	}
	return session, nil
}

// Chat generates one interviewer turn. Stateless per call: the caller
// supplies the transcript so far and the latest candidate message; an empty
// message is the opening turn and requires an empty transcript.
func (u *RecruitmentUsecase) Chat(ctx context.Context, token, transcript, message string) (string, error) {
	session, err := u.interviews.GetByToken(ctx, token)
	if err != nil {
		return "", err
	}
	if session.EndedAt != nil {
		return "", apperr.StateConflict("interview already completed")
	}
	if message == "" && transcript != "" {
		return "", apperr.Validation("the opening turn requires an empty transcript")
	}
	jc, err := u.jobCands.GetByID(ctx, session.JobCandidateID)
	if err != nil {
		return "", err
	}
	job, err := u.jobs.GetByID(ctx, jc.JobID)
	if err != nil {
		return "", err
	}
	profile, err := u.candidates.GetProfileByID(ctx, jc.CandidateProfileID)
	if err != nil {
		return "", err
	}

	system := interviewerSystem(job.Content(), profile.AsJSON(), session.Questions)
	user := "(start the interview with a short greeting and your first question)"
	if message != "" {
		user = fmt.Sprintf("Transcript so far:\n%s\n\nCandidate: %s\n\nReply with your next interviewer turn only.", transcript, message)
	}
	return u.invoker.InvokeText(ctx, system, user)
}

func interviewerSystem(jobContent, profileJSON string, questions []string) string {
	var b strings.Builder
	b.WriteString("You are a friendly, professional screening interviewer. Keep turns short, ")
	b.WriteString("ask one question at a time, and stay on the role below.\n\n")
	b.WriteString("Job description:\n")
	b.WriteString(clip(jobContent, jobContentPromptLimit))
	b.WriteString("\n\nCandidate profile:\n")
	b.WriteString(clip(profileJSON, profilePromptLimit))
	if len(questions) > 0 {
		b.WriteString("\n\nSuggested questions:\n")
		for _, q := range questions {
			b.WriteString("- " + q + "\n")
		}
	}
	return b.String()
}

func clip(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

const scoringSystem = "You are an interview assessor. Given a job description and an interview transcript, " +
	"score the candidate's fit from 0 to 100 and explain briefly. Return JSON with 'score' and 'reasoning'."

var scoringSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"score":     {Type: genai.TypeNumber},
		"reasoning": {Type: genai.TypeString},
	},
	Required: []string{"score"},
}

type scoreOutput struct {
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
}

// Complete stores the transcript and end time, then attempts structured
// scoring. A scoring failure leaves the score null rather than failing the
// completion. The score propagates to the JobCandidate. Rejects a second
// completion.
func (u *RecruitmentUsecase) Complete(ctx context.Context, token, transcript string) (*model.InterviewSession, error) {
	session, err := u.interviews.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if session.EndedAt != nil {
		return nil, apperr.StateConflict("interview already completed")
	}
	jc, err := u.jobCands.GetByID(ctx, session.JobCandidateID)
	if err != nil {
		return nil, err
	}
	if jc.InterviewCompletedAt != nil {
		return nil, apperr.StateConflict("interview already completed")
	}
	job, err := u.jobs.GetByID(ctx, jc.JobID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session.Transcript = transcript
	session.EndedAt = &now

	user := fmt.Sprintf("Job description:\n%s\n\nTranscript:\n%s", clip(job.Content(), jobContentPromptLimit), transcript)
	var scored scoreOutput
	if err := u.invoker.InvokeStructured(ctx, scoringSystem, user, scoringSchema, &scored); err != nil {
		u.logger.Warn("interview scoring failed, completing without score",
			zap.String("session_id", session.ID.String()), zap.Error(err))
	} else {
		score := clampScore(scored.Score)
		session.Score = &score
	}

	if err := u.interviews.Update(ctx, session); err != nil {
		return nil, err
	}
	jc.InterviewCompletedAt = &now
	jc.Score = session.Score
	if err := u.jobCands.Update(ctx, jc); err != nil {
		return nil, err
	}
	return session, nil
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// UploadRecording attaches the recording URL produced by the out-of-scope
// media pipeline.
func (u *RecruitmentUsecase) UploadRecording(ctx context.Context, token, url string) (*model.InterviewSession, error) {
	if strings.TrimSpace(url) == "" {
		return nil, apperr.Validation("recording url is required")
	}
	session, err := u.interviews.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	session.RecordingURL = url
	if err := u.interviews.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}
