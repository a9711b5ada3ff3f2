package domain

import "time"

type JobStatus string

const (
	JobStatusActive JobStatus = "active"
	JobStatusClosed JobStatus = "closed"
	JobStatusDraft  JobStatus = "draft"
)

// Valid reports whether s is one of the known lifecycle states.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusActive, JobStatusClosed, JobStatusDraft:
		return true
	}
	return false
}

// JobPosting is a position candidates apply to. JobID is the public identifier
// referenced by submissions; ID is only the storage row id.
type JobPosting struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	JobID        string    `gorm:"size:64;uniqueIndex;not null" json:"jobId"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	Requirements string    `gorm:"type:text" json:"requirements"`
	CompanyName  string    `gorm:"size:255" json:"companyName"`
	ContactEmail string    `gorm:"size:255" json:"contactEmail"`
	ContactName  string    `gorm:"size:255" json:"contactName"`
	Status       JobStatus `gorm:"size:16;not null;default:'draft';index" json:"status"`
	CreatedBy    string    `gorm:"size:64" json:"createdBy"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (JobPosting) TableName() string { return "job_postings" }

// AcceptsApplications is true only while the posting is active.
func (j *JobPosting) AcceptsApplications() bool {
	return j != nil && j.Status == JobStatusActive
}

// ScoringText is the job text fed to the scorer: description followed by requirements.
func (j *JobPosting) ScoringText() string {
	if j.Requirements == "" {
		return j.Description
	}
	return j.Description + "\n\nRequirements:\n" + j.Requirements
}
