package usecase

//go:generate mockgen -source=ports.go -destination=mocks/ports_mock.go -package=mocks

import (
	"context"

	"jobboard/domain"
)

type JobRepository interface {
	// GetJobByID returns nil, nil when the job does not exist.
	GetJobByID(ctx context.Context, jobID string) (*domain.JobPosting, error)
}

type SubmissionRepository interface {
	// FindSubmission returns nil, nil when the candidate has not applied.
	FindSubmission(ctx context.Context, candidateID, jobID string) (*domain.ResumeSubmission, error)
	// InsertResume returns domain.ErrDuplicateSubmission on a (candidate, job) conflict.
	InsertResume(ctx context.Context, sub *domain.ResumeSubmission) error
	// InsertScore returns domain.ErrDuplicateSubmission when the resume already has a score.
	InsertScore(ctx context.Context, score *domain.ScoreVerdict) error
	UpdateScoreNotifiedFlag(ctx context.Context, scoreID string, notified bool) error
}

type ObjectStore interface {
	Store(ctx context.Context, localPath string, opts domain.StoreOptions) (domain.StoredObject, error)
	Delete(ctx context.Context, providerID string) error
}

type ResumeParser interface {
	Parse(ctx context.Context, fileURL string) (domain.NormalizedResume, error)
}

// Scorer always produces a verdict.
type Scorer interface {
	Score(ctx context.Context, resume domain.NormalizedResume, jobDescription string) domain.Verdict
}

// Notifier reports delivery problems in the result instead of failing.
type Notifier interface {
	NotifyHR(ctx context.Context, alert domain.HRAlert) domain.NotificationResult
	NotifyCandidate(ctx context.Context, ack domain.CandidateAck) domain.NotificationResult
}

type EventPublisher interface {
	Publish(ctx context.Context, event domain.ApplicationEvent) error
}
