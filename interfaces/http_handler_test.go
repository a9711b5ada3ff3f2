package interfaces

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"jobboard/domain"
)

type fakeRepo struct {
	jobs       map[string]*domain.JobPosting
	applicants []domain.Applicant
	created    *domain.JobPosting
	deleted    *domain.ResumeSubmission
}

func (r *fakeRepo) CreateJob(_ context.Context, job *domain.JobPosting) error {
	r.created = job
	return nil
}

func (r *fakeRepo) GetJobByID(_ context.Context, jobID string) (*domain.JobPosting, error) {
	return r.jobs[jobID], nil
}

func (r *fakeRepo) ListApplicants(context.Context, string) ([]domain.Applicant, error) {
	return r.applicants, nil
}

func (r *fakeRepo) DeleteSubmission(_ context.Context, resumeID string) (*domain.ResumeSubmission, error) {
	if r.deleted == nil || r.deleted.ID != resumeID {
		return nil, domain.ErrNotFound
	}
	return r.deleted, nil
}

type fakeSubmitter struct {
	called  bool
	jobID   string
	p       domain.Principal
	upload  domain.StagedUpload
	content []byte
	err     error
}

func (s *fakeSubmitter) SubmitApplication(_ context.Context, jobID string, p domain.Principal, upload domain.StagedUpload) (*domain.ApplicationResult, error) {
	s.called, s.jobID, s.p, s.upload = true, jobID, p, upload
	s.content, _ = os.ReadFile(upload.Path)
	os.Remove(upload.Path)
	if s.err != nil {
		return nil, s.err
	}
	return &domain.ApplicationResult{ApplicationID: "s-1", ResumeID: "r-1", JobID: jobID, MatchScore: 72}, nil
}

type fakeRemover struct{ ids []string }

func (f *fakeRemover) Delete(_ context.Context, id string) error {
	f.ids = append(f.ids, id)
	return nil
}

type harness struct {
	router *gin.Engine
	repo   *fakeRepo
	apps   *fakeSubmitter
	files  *fakeRemover
}

func newHarness(t *testing.T) *harness {
	gin.SetMode(gin.TestMode)
	log, _ := test.NewNullLogger()
	h := &harness{
		router: gin.New(),
		repo: &fakeRepo{jobs: map[string]*domain.JobPosting{
			"job-1": {JobID: "job-1", Title: "Go Engineer", Status: domain.JobStatusActive},
		}},
		apps:  &fakeSubmitter{},
		files: &fakeRemover{},
	}
	NewHTTPHandler(h.router, h.repo, h.apps, h.files, t.TempDir(), log)
	return h
}

func (h *harness) do(req *http.Request, role domain.Role) *httptest.ResponseRecorder {
	if role != "" {
		req.Header.Set(HeaderUserID, "user-1")
		req.Header.Set(HeaderUserEmail, "user@example.com")
		req.Header.Set(HeaderUserName, "Test User")
		req.Header.Set(HeaderUserRole, string(role))
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func applyRequest(t *testing.T, jobID, field, fileName string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, fileName)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/jobs/"+jobID+"/apply", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func textResume(size int) []byte {
	line := []byte("Jane Doe - Senior Go Engineer with PostgreSQL and Docker experience\n")
	out := bytes.Repeat(line, size/len(line)+1)
	return out[:size]
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	w := h.do(httptest.NewRequest(http.MethodGet, "/health", nil), "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPrincipalRequired(t *testing.T) {
	h := newHarness(t)
	w := h.do(httptest.NewRequest(http.MethodGet, "/api/jobs/job-1", nil), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateJob(t *testing.T) {
	h := newHarness(t)

	body := `{"title":"Platform Engineer","description":"Run our Go services.","contactEmail":"hr@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/jobs", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := h.do(req, domain.RoleCandidate)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/jobs", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = h.do(req, domain.RoleHR)
	require.Equal(t, http.StatusCreated, w.Code)

	require.NotNil(t, h.repo.created)
	assert.NotEmpty(t, h.repo.created.JobID)
	assert.Equal(t, domain.JobStatusDraft, h.repo.created.Status)
	assert.Equal(t, "user-1", h.repo.created.CreatedBy)
	assert.Equal(t, h.repo.created.JobID, decode(t, w)["jobId"])
}

func TestCreateJob_InvalidBody(t *testing.T) {
	h := newHarness(t)
	req := httptest.NewRequest(http.MethodPost, "/api/jobs",
		strings.NewReader(`{"title":"X","description":"Y","contactEmail":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")

	w := h.do(req, domain.RoleAdmin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, h.repo.created)
}

func TestGetJob(t *testing.T) {
	h := newHarness(t)

	w := h.do(httptest.NewRequest(http.MethodGet, "/api/jobs/job-1", nil), domain.RoleCandidate)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Go Engineer", decode(t, w)["title"])

	w = h.do(httptest.NewRequest(http.MethodGet, "/api/jobs/nope", nil), domain.RoleCandidate)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApply(t *testing.T) {
	h := newHarness(t)
	content := textResume(2048)

	w := h.do(applyRequest(t, "job-1", "resume", "jane.txt", content), domain.RoleCandidate)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	require.True(t, h.apps.called)
	assert.Equal(t, "job-1", h.apps.jobID)
	assert.Equal(t, "user-1", h.apps.p.ID)
	assert.Equal(t, "user@example.com", h.apps.p.Email)
	assert.Equal(t, domain.MIMEPlainText, h.apps.upload.ContentType)
	assert.Equal(t, "jane.txt", h.apps.upload.FileName)
	assert.EqualValues(t, len(content), h.apps.upload.Size)
	assert.Equal(t, content, h.apps.content)

	body := decode(t, w)
	assert.Equal(t, "s-1", body["applicationId"])
	assert.EqualValues(t, 72, body["matchScore"])
}

func TestApply_SizeBoundary(t *testing.T) {
	t.Run("exactly the limit", func(t *testing.T) {
		h := newHarness(t)
		w := h.do(applyRequest(t, "job-1", "resume", "cv.txt", textResume(int(domain.MaxResumeBytes))), domain.RoleCandidate)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, domain.MaxResumeBytes, h.apps.upload.Size)
	})

	t.Run("one byte over", func(t *testing.T) {
		h := newHarness(t)
		w := h.do(applyRequest(t, "job-1", "resume", "cv.txt", textResume(int(domain.MaxResumeBytes)+1)), domain.RoleCandidate)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.False(t, h.apps.called)
	})
}

func TestApply_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		file    string
		content []byte
		want    int
	}{
		{name: "missing field", field: "cv", file: "cv.txt", content: textResume(100), want: http.StatusBadRequest},
		{name: "image", field: "resume", file: "cv.png", content: append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...), want: http.StatusUnsupportedMediaType},
		{name: "broken pdf", field: "resume", file: "cv.pdf", content: []byte("%PDF-1.4\nthis is not really a pdf\n"), want: http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			w := h.do(applyRequest(t, "job-1", tt.field, tt.file, tt.content), domain.RoleCandidate)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.False(t, h.apps.called)
		})
	}
}

func TestApply_OnlyCandidates(t *testing.T) {
	h := newHarness(t)
	w := h.do(applyRequest(t, "job-1", "resume", "cv.txt", textResume(100)), domain.RoleHR)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestApply_ErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		retryable bool
	}{
		{"job not found", &domain.ApplicationError{Kind: domain.KindValidation, Stage: "validating", Err: domain.ErrJobNotFound}, http.StatusNotFound, false},
		{"duplicate", &domain.ApplicationError{Kind: domain.KindValidation, Stage: "validating", Err: domain.ErrDuplicateApplication}, http.StatusConflict, false},
		{"not active", &domain.ApplicationError{Kind: domain.KindValidation, Stage: "validating", Err: domain.ErrJobNotActive}, http.StatusUnprocessableEntity, false},
		{"unsupported format", &domain.ApplicationError{Kind: domain.KindValidation, Stage: "validating", Err: domain.ErrUnsupportedFormat}, http.StatusUnsupportedMediaType, false},
		{"too large", &domain.ApplicationError{Kind: domain.KindValidation, Stage: "validating", Err: domain.ErrFileTooLarge}, http.StatusRequestEntityTooLarge, false},
		{"upload", &domain.ApplicationError{Kind: domain.KindUpload, Stage: "uploading", Err: errors.New("bucket gone")}, http.StatusBadGateway, true},
		{"parsing", &domain.ApplicationError{Kind: domain.KindParsing, Stage: "parsing", Status: 503, Err: errors.New("down")}, http.StatusBadGateway, true},
		{"persistence", &domain.ApplicationError{Kind: domain.KindPersistence, Stage: "persisting_score", Err: errors.New("deadlock")}, http.StatusInternalServerError, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.apps.err = tt.err

			w := h.do(applyRequest(t, "job-1", "resume", "cv.txt", textResume(100)), domain.RoleCandidate)
			require.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.retryable, decode(t, w)["retryable"])
		})
	}
}

func TestListApplicants(t *testing.T) {
	h := newHarness(t)
	h.repo.applicants = []domain.Applicant{
		{ResumeID: "r-1", Name: "Sam", Score: &domain.ScoreVerdict{MatchScore: 91}},
		{ResumeID: "r-2", Name: "Lee", Score: &domain.ScoreVerdict{MatchScore: 40}},
	}

	w := h.do(httptest.NewRequest(http.MethodGet, "/api/jobs/job-1/applicants", nil), domain.RoleHR)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 2, body["total"])

	w = h.do(httptest.NewRequest(http.MethodGet, "/api/jobs/job-1/applicants", nil), domain.RoleCandidate)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = h.do(httptest.NewRequest(http.MethodGet, "/api/jobs/missing/applicants", nil), domain.RoleHR)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportApplicants(t *testing.T) {
	h := newHarness(t)
	h.repo.applicants = []domain.Applicant{
		{ResumeID: "r-1", Name: "Sam", AppliedAt: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), Score: &domain.ScoreVerdict{MatchScore: 91}},
	}

	w := h.do(httptest.NewRequest(http.MethodGet, "/api/jobs/job-1/applicants/export", nil), domain.RoleAdmin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "applicants-job-1.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	name, err := f.GetCellValue("Applicants", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Sam", name)
}

func TestDeleteApplication(t *testing.T) {
	h := newHarness(t)
	h.repo.deleted = &domain.ResumeSubmission{ID: "r-1", StorageID: "resumes/job-1/abc.pdf"}

	w := h.do(httptest.NewRequest(http.MethodDelete, "/api/applications/r-1", nil), domain.RoleHR)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = h.do(httptest.NewRequest(http.MethodDelete, "/api/applications/r-1", nil), domain.RoleAdmin)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"resumes/job-1/abc.pdf"}, h.files.ids)

	w = h.do(httptest.NewRequest(http.MethodDelete, "/api/applications/r-9", nil), domain.RoleAdmin)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
