package interfaces

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"jobboard/domain"
)

const (
	resumeField = "resume"
	// room for the multipart envelope around a maximum-size file
	multipartOverhead = 1 << 20
)

// uploadError is a rejection by the upload guard.
type uploadError struct {
	status int
	msg    string
}

func (e *uploadError) Error() string { return e.msg }

func rejectUpload(status int, format string, args ...any) *uploadError {
	return &uploadError{status: status, msg: fmt.Sprintf(format, args...)}
}

// stageResume checks the multipart resume field and writes it under dir.
// Accepted files are at most domain.MaxResumeBytes and sniff as one of
// domain.AllowedResumeMIMETypes; PDFs must also pass structural validation.
func stageResume(c *gin.Context, dir string) (domain.StagedUpload, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, domain.MaxResumeBytes+multipartOverhead)

	fh, err := c.FormFile(resumeField)
	if err != nil {
		if tooLarge(err) {
			return domain.StagedUpload{}, rejectUpload(http.StatusRequestEntityTooLarge, "%v", domain.ErrFileTooLarge)
		}
		return domain.StagedUpload{}, rejectUpload(http.StatusBadRequest, "multipart field %q is required", resumeField)
	}
	if fh.Size > domain.MaxResumeBytes {
		return domain.StagedUpload{}, rejectUpload(http.StatusRequestEntityTooLarge, "%v", domain.ErrFileTooLarge)
	}
	if fh.Size == 0 {
		return domain.StagedUpload{}, rejectUpload(http.StatusBadRequest, "resume file is empty")
	}

	src, err := fh.Open()
	if err != nil {
		return domain.StagedUpload{}, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, domain.MaxResumeBytes+1))
	if err != nil {
		return domain.StagedUpload{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > domain.MaxResumeBytes {
		return domain.StagedUpload{}, rejectUpload(http.StatusRequestEntityTooLarge, "%v", domain.ErrFileTooLarge)
	}

	mt := mimetype.Detect(data)
	contentType, ok := allowedType(mt)
	if !ok {
		return domain.StagedUpload{}, rejectUpload(http.StatusUnsupportedMediaType,
			"unsupported resume type %s; allowed: %s", mt.String(), strings.Join(domain.AllowedResumeMIMETypes, ", "))
	}
	if contentType == domain.MIMEPDF {
		if err := validatePDF(data); err != nil {
			return domain.StagedUpload{}, rejectUpload(http.StatusUnprocessableEntity, "resume is not a readable PDF: %v", err)
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.StagedUpload{}, fmt.Errorf("create upload dir: %w", err)
	}
	f, err := os.CreateTemp(dir, "resume-*"+mt.Extension())
	if err != nil {
		return domain.StagedUpload{}, fmt.Errorf("stage upload: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return domain.StagedUpload{}, fmt.Errorf("stage upload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return domain.StagedUpload{}, fmt.Errorf("stage upload: %w", err)
	}

	return domain.StagedUpload{
		Path:        f.Name(),
		FileName:    filepath.Base(fh.Filename),
		ContentType: contentType,
		Size:        int64(len(data)),
	}, nil
}

func allowedType(mt *mimetype.MIME) (string, bool) {
	for _, allowed := range domain.AllowedResumeMIMETypes {
		if mt.Is(allowed) {
			return allowed, true
		}
	}
	return "", false
}

func validatePDF(data []byte) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return api.Validate(bytes.NewReader(data), conf)
}

func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large")
}
