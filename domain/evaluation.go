package domain

import (
	"time"

	"gorm.io/datatypes"
)

// ScoredByFallback marks verdicts produced by the keyword fallback scorer.
const ScoredByFallback = "fallback"

type SalaryRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Verdict is the scoring output for one resume against one job description.
type Verdict struct {
	MatchScore           int         `json:"matchScore"`
	ShortlistProbability float64     `json:"shortlistProbability"`
	SalaryRange          SalaryRange `json:"salaryRange"`
	MissingSkills        []string    `json:"missingSkills"`
	StrongSkills         []string    `json:"strongSkills"`
	Recommendation       string      `json:"recommendation"`
	KeyHighlights        []string    `json:"keyHighlights"`
	AreasOfConcern       []string    `json:"areasOfConcern"`
	ScoredBy             string      `json:"scoredBy"`
}

// Fallback reports whether the verdict came from the keyword fallback scorer.
func (v Verdict) Fallback() bool { return v.ScoredBy == ScoredByFallback }

// ScoreVerdict is the persisted verdict for a ResumeSubmission. Only
// HRNotified is ever updated after creation.
type ScoreVerdict struct {
	ID                   string                      `gorm:"primaryKey;size:36" json:"id"`
	ResumeID             string                      `gorm:"size:36;not null;uniqueIndex" json:"resumeId"`
	JobID                string                      `gorm:"size:64;not null;index" json:"jobId"`
	MatchScore           int                         `gorm:"not null" json:"matchScore"`
	ShortlistProbability float64                     `gorm:"not null" json:"shortlistProbability"`
	SalaryRange          SalaryRange                 `gorm:"embedded;embeddedPrefix:salary_" json:"salaryRange"`
	MissingSkills        datatypes.JSONSlice[string] `json:"missingSkills"`
	StrongSkills         datatypes.JSONSlice[string] `json:"strongSkills"`
	Recommendation       string                      `gorm:"type:text" json:"recommendation"`
	KeyHighlights        datatypes.JSONSlice[string] `json:"keyHighlights"`
	AreasOfConcern       datatypes.JSONSlice[string] `json:"areasOfConcern"`
	ScoredBy             string                      `gorm:"size:64" json:"scoredBy"`
	HRNotified           bool                        `gorm:"not null;default:false" json:"hrNotified"`
	CreatedAt            time.Time                   `json:"createdAt"`
}

func (ScoreVerdict) TableName() string { return "resume_scores" }

// NewScoreVerdict builds the persisted record for a verdict.
func NewScoreVerdict(id, resumeID, jobID string, v Verdict) *ScoreVerdict {
	return &ScoreVerdict{
		ID:                   id,
		ResumeID:             resumeID,
		JobID:                jobID,
		MatchScore:           v.MatchScore,
		ShortlistProbability: v.ShortlistProbability,
		SalaryRange:          v.SalaryRange,
		MissingSkills:        nonNil(v.MissingSkills),
		StrongSkills:         nonNil(v.StrongSkills),
		Recommendation:       v.Recommendation,
		KeyHighlights:        nonNil(v.KeyHighlights),
		AreasOfConcern:       nonNil(v.AreasOfConcern),
		ScoredBy:             v.ScoredBy,
	}
}

// Verdict converts the stored record back into a Verdict.
func (s *ScoreVerdict) Verdict() Verdict {
	return Verdict{
		MatchScore:           s.MatchScore,
		ShortlistProbability: s.ShortlistProbability,
		SalaryRange:          s.SalaryRange,
		MissingSkills:        nonNil(s.MissingSkills),
		StrongSkills:         nonNil(s.StrongSkills),
		Recommendation:       s.Recommendation,
		KeyHighlights:        nonNil(s.KeyHighlights),
		AreasOfConcern:       nonNil(s.AreasOfConcern),
		ScoredBy:             s.ScoredBy,
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
