package interfaces

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/sirupsen/logrus"

	"jobboard/domain"
	"jobboard/infrastructure"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Repository interface {
	CreateJob(ctx context.Context, job *domain.JobPosting) error
	GetJobByID(ctx context.Context, jobID string) (*domain.JobPosting, error)
	ListApplicants(ctx context.Context, jobID string) ([]domain.Applicant, error)
	DeleteSubmission(ctx context.Context, resumeID string) (*domain.ResumeSubmission, error)
}

type ApplicationSubmitter interface {
	SubmitApplication(ctx context.Context, jobID string, principal domain.Principal, upload domain.StagedUpload) (*domain.ApplicationResult, error)
}

type ObjectRemover interface {
	Delete(ctx context.Context, providerID string) error
}

type HTTPHandler struct {
	Repo      Repository
	Apps      ApplicationSubmitter
	Files     ObjectRemover
	UploadDir string
	Log       logrus.FieldLogger

	now func() time.Time
}

// NewHTTPHandler registers every route on router.
func NewHTTPHandler(router *gin.Engine, repo Repository, apps ApplicationSubmitter, files ObjectRemover, uploadDir string, log logrus.FieldLogger) *HTTPHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	// pdfcpu must not write a config dir next to the service binary.
	api.DisableConfigDir()

	h := &HTTPHandler{
		Repo:      repo,
		Apps:      apps,
		Files:     files,
		UploadDir: uploadDir,
		Log:       log,
		now:       time.Now,
	}

	router.GET("/health", h.Health)

	authed := router.Group("/api", Principal())
	staff := RequireRole(domain.RoleHR, domain.RoleAdmin)

	authed.POST("/jobs", staff, h.CreateJob)
	authed.GET("/jobs/:jobId", h.GetJob)
	authed.POST("/jobs/:jobId/apply", RequireRole(domain.RoleCandidate), h.Apply)
	authed.GET("/jobs/:jobId/applicants", staff, h.ListApplicants)
	authed.GET("/jobs/:jobId/applicants/export", staff, h.ExportApplicants)
	authed.DELETE("/applications/:resumeId", RequireRole(domain.RoleAdmin), h.DeleteApplication)

	return h
}

func (h *HTTPHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type createJobRequest struct {
	Title        string           `json:"title" binding:"required,max=255"`
	Description  string           `json:"description" binding:"required"`
	Requirements string           `json:"requirements"`
	CompanyName  string           `json:"companyName" binding:"max=255"`
	ContactEmail string           `json:"contactEmail" binding:"required,email"`
	ContactName  string           `json:"contactName" binding:"max=255"`
	Status       domain.JobStatus `json:"status" binding:"omitempty,oneof=active closed draft"`
}

func (h *HTTPHandler) CreateJob(c *gin.Context) {
	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, _ := principalFrom(c)

	status := req.Status
	if status == "" {
		status = domain.JobStatusDraft
	}
	job := &domain.JobPosting{
		JobID:        uuid.NewString(),
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Requirements: req.Requirements,
		CompanyName:  req.CompanyName,
		ContactEmail: req.ContactEmail,
		ContactName:  req.ContactName,
		Status:       status,
		CreatedBy:    p.ID,
	}
	if err := h.Repo.CreateJob(c.Request.Context(), job); err != nil {
		h.Log.WithError(err).Error("create job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create job"})
		return
	}
	c.JSON(http.StatusCreated, job)
}

func (h *HTTPHandler) GetJob(c *gin.Context) {
	job, ok := h.loadJob(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, job)
}

// Apply stages the uploaded resume and runs the submission pipeline.
func (h *HTTPHandler) Apply(c *gin.Context) {
	p, _ := principalFrom(c)
	jobID := c.Param("jobId")

	upload, err := stageResume(c, h.UploadDir)
	if err != nil {
		var rejected *uploadError
		if errors.As(err, &rejected) {
			c.JSON(rejected.status, gin.H{"error": rejected.msg, "retryable": false})
			return
		}
		h.Log.WithError(err).WithField("job_id", jobID).Error("stage resume")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store upload", "retryable": true})
		return
	}

	res, err := h.Apps.SubmitApplication(c.Request.Context(), jobID, p, upload)
	if err != nil {
		writeApplicationError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *HTTPHandler) ListApplicants(c *gin.Context) {
	job, ok := h.loadJob(c)
	if !ok {
		return
	}
	applicants, err := h.Repo.ListApplicants(c.Request.Context(), job.JobID)
	if err != nil {
		h.Log.WithError(err).WithField("job_id", job.JobID).Error("list applicants")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list applicants"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"job":        job,
		"total":      len(applicants),
		"applicants": applicants,
	})
}

func (h *HTTPHandler) ExportApplicants(c *gin.Context) {
	job, ok := h.loadJob(c)
	if !ok {
		return
	}
	applicants, err := h.Repo.ListApplicants(c.Request.Context(), job.JobID)
	if err != nil {
		h.Log.WithError(err).WithField("job_id", job.JobID).Error("list applicants")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list applicants"})
		return
	}

	var buf bytes.Buffer
	if err := infrastructure.WriteApplicantsReport(&buf, job, applicants, h.now()); err != nil {
		h.Log.WithError(err).WithField("job_id", job.JobID).Error("export applicants")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="applicants-%s.xlsx"`, job.JobID))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// DeleteApplication removes the submission and its score. The stored file is
// released best effort.
func (h *HTTPHandler) DeleteApplication(c *gin.Context) {
	resumeID := c.Param("resumeId")
	sub, err := h.Repo.DeleteSubmission(c.Request.Context(), resumeID)
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "application not found"})
		return
	}
	if err != nil {
		h.Log.WithError(err).WithField("resume_id", resumeID).Error("delete application")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete application"})
		return
	}

	if h.Files != nil && sub.StorageID != "" {
		if err := h.Files.Delete(c.Request.Context(), sub.StorageID); err != nil {
			h.Log.WithError(err).WithField("resume_id", resumeID).Warn("delete stored resume")
		}
	}
	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) loadJob(c *gin.Context) (*domain.JobPosting, bool) {
	jobID := c.Param("jobId")
	job, err := h.Repo.GetJobByID(c.Request.Context(), jobID)
	if err != nil {
		h.Log.WithError(err).WithField("job_id", jobID).Error("load job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load job"})
		return nil, false
	}
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return nil, false
	}
	return job, true
}

// writeApplicationError maps a submission failure onto an HTTP status.
func writeApplicationError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrFileTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrJobNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateApplication):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrJobNotActive):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUnsupportedFormat):
		status = http.StatusUnsupportedMediaType
	default:
		kind, _ := domain.KindOf(err)
		switch kind {
		case domain.KindValidation:
			status = http.StatusBadRequest
		case domain.KindUpload, domain.KindParsing:
			status = http.StatusBadGateway
		}
	}

	body := gin.H{"error": err.Error(), "retryable": true}
	var appErr *domain.ApplicationError
	if errors.As(err, &appErr) {
		body["kind"] = appErr.Kind
		body["stage"] = appErr.Stage
		body["retryable"] = appErr.Retryable()
	}
	c.JSON(status, body)
}
