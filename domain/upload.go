package domain

import (
	"time"

	"gorm.io/datatypes"
)

// MaxResumeBytes is the largest resume file accepted (5 MiB, inclusive).
const MaxResumeBytes int64 = 5 << 20

// Allowed resume MIME types.
const (
	MIMEPDF       = "application/pdf"
	MIMEMSWord    = "application/msword"
	MIMEDocx      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEPlainText = "text/plain"
)

var AllowedResumeMIMETypes = []string{MIMEPDF, MIMEMSWord, MIMEDocx, MIMEPlainText}

// StagedUpload is a resume already validated and written to local disk by the
// upload middleware.
type StagedUpload struct {
	Path        string
	FileName    string
	ContentType string
	Size        int64
}

// ResumeSubmission is one candidate's application to one job. At most one row
// exists per (CandidateID, JobID).
type ResumeSubmission struct {
	ID          string                               `gorm:"primaryKey;size:36" json:"id"`
	JobID       string                               `gorm:"size:64;not null;uniqueIndex:idx_candidate_job,priority:2;index" json:"jobId"`
	CandidateID string                               `gorm:"size:64;not null;uniqueIndex:idx_candidate_job,priority:1" json:"candidateId"`
	FileURL     string                               `gorm:"size:1024;not null" json:"fileUrl"`
	StorageID   string                               `gorm:"size:512" json:"-"`
	ParsedData  datatypes.JSONType[NormalizedResume] `json:"parsedData"`
	UploadedAt  time.Time                            `gorm:"not null" json:"uploadedAt"`

	Score *ScoreVerdict `gorm:"foreignKey:ResumeID;references:ID;constraint:OnDelete:CASCADE" json:"score,omitempty"`
}

func (ResumeSubmission) TableName() string { return "resumes" }

// Resume returns the normalized resume stored with the submission.
func (r *ResumeSubmission) Resume() NormalizedResume {
	return r.ParsedData.Data()
}

// StoreOptions describe how an object store should name and tag an upload.
type StoreOptions struct {
	Folder      string
	FileName    string
	ContentType string
}

// StoredObject is the durable location of an uploaded file.
type StoredObject struct {
	URL        string
	ProviderID string
}
