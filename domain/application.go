package domain

import "time"

type Role string

const (
	RoleCandidate Role = "candidate"
	RoleHR        Role = "hr"
	RoleAdmin     Role = "admin"
)

// Principal is the already-authenticated caller.
type Principal struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Role        Role   `json:"role"`
}

// ApplicationResult is returned to the HTTP layer after a successful submission.
type ApplicationResult struct {
	ApplicationID        string      `json:"applicationId"`
	ResumeID             string      `json:"resumeId"`
	JobID                string      `json:"jobId"`
	JobTitle             string      `json:"jobTitle"`
	MatchScore           int         `json:"matchScore"`
	ShortlistProbability float64     `json:"shortlistProbability"`
	SalaryRange          SalaryRange `json:"salaryRange"`
	MissingSkills        []string    `json:"missingSkills"`
	StrongSkills         []string    `json:"strongSkills"`
	Recommendation       string      `json:"recommendation"`
	KeyHighlights        []string    `json:"keyHighlights"`
	AreasOfConcern       []string    `json:"areasOfConcern"`
	ScoredBy             string      `json:"scoredBy"`
	EmailSent            bool        `json:"emailSent"`
	CandidateEmailSent   bool        `json:"candidateEmailSent"`
	ResumeURL            string      `json:"resumeUrl"`
	AppliedAt            time.Time   `json:"appliedAt"`
}

// Applicant is one scored submission as listed to HR.
type Applicant struct {
	ResumeID    string        `json:"resumeId"`
	CandidateID string        `json:"candidateId"`
	Name        string        `json:"name"`
	Email       string        `json:"email"`
	ResumeURL   string        `json:"resumeUrl"`
	AppliedAt   time.Time     `json:"appliedAt"`
	Score       *ScoreVerdict `json:"score,omitempty"`
}

// NotificationResult reports the outcome of a best-effort email send.
type NotificationResult struct {
	Sent   bool   `json:"sent"`
	Reason string `json:"reason,omitempty"`
}

// HRAlert is sent to the posting contact when a candidate scores at or above
// the notify threshold.
type HRAlert struct {
	To                   string
	ToName               string
	JobID                string
	JobTitle             string
	CandidateName        string
	CandidateEmail       string
	MatchScore           int
	ShortlistProbability float64
	StrongSkills         []string
	Recommendation       string
	ResumeURL            string
}

// CandidateAck confirms receipt of an application to the candidate.
type CandidateAck struct {
	To         string
	ToName     string
	JobTitle   string
	AppliedAt  time.Time
	MatchScore int
}

// ApplicationEvent is published once a submission completes.
type ApplicationEvent struct {
	Type        string    `json:"type"`
	ResumeID    string    `json:"resumeId"`
	ScoreID     string    `json:"scoreId"`
	JobID       string    `json:"jobId"`
	CandidateID string    `json:"candidateId"`
	MatchScore  int       `json:"matchScore"`
	ScoredBy    string    `json:"scoredBy"`
	HRNotified  bool      `json:"hrNotified"`
	AppliedAt   time.Time `json:"appliedAt"`
}

const EventApplicationSubmitted = "application.submitted"
