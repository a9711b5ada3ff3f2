package infrastructure

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/domain"
)

const sampleResume = `Maria Garcia
maria.garcia@example.com | +34 612 345 678
https://www.linkedin.com/in/mariagarcia

Backend engineer with 6 years of experience building Go microservices.
Worked with PostgreSQL, Docker and Kubernetes on AWS.
`

func TestLocalResumeParser_PlainText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleResume))
	}))
	defer srv.Close()
	log, _ := test.NewNullLogger()

	p := NewLocalResumeParser(nil, 30*time.Second, log)
	r, err := p.Parse(context.Background(), srv.URL+"/cv.txt")
	require.NoError(t, err)

	assert.Equal(t, "Maria Garcia", r.PersonalInfo.Name)
	assert.Equal(t, "maria.garcia@example.com", r.PersonalInfo.Email)
	assert.Equal(t, "+34 612 345 678", r.PersonalInfo.Phone)
	assert.Equal(t, "https://www.linkedin.com/in/mariagarcia", r.PersonalInfo.LinkedIn)
	assert.Equal(t, 6.0, r.TotalExperienceYears)
	assert.ElementsMatch(t, []string{"go", "postgresql", "docker", "kubernetes", "aws", "microservices"}, r.Skills.All)
	assert.NotEmpty(t, r.Summary)
}

func TestLocalResumeParser_DownloadFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	log, _ := test.NewNullLogger()

	_, err := NewLocalResumeParser(nil, 30*time.Second, log).Parse(context.Background(), srv.URL+"/missing.pdf")

	var pErr *domain.ParsingError
	require.True(t, errors.As(err, &pErr))
	assert.Equal(t, http.StatusNotFound, pErr.Status)
}

func TestExtractText_RejectsBinary(t *testing.T) {
	_, err := ExtractText([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestLocalResumeParser_Supports(t *testing.T) {
	log, _ := test.NewNullLogger()
	p := NewLocalResumeParser(nil, time.Second, log)

	assert.True(t, p.Supports(domain.MIMEPDF))
	assert.True(t, p.Supports(domain.MIMEDocx))
	assert.True(t, p.Supports(domain.MIMEPlainText))
	assert.False(t, p.Supports(domain.MIMEMSWord))
}

func TestLocalResumeParser_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)
	log, _ := test.NewNullLogger()

	start := time.Now()
	_, err := NewLocalResumeParser(nil, 50*time.Millisecond, log).Parse(context.Background(), srv.URL+"/slow.pdf")

	var pErr *domain.ParsingError
	require.True(t, errors.As(err, &pErr))
	assert.True(t, pErr.Timeout)
	assert.Less(t, time.Since(start), 5*time.Second)
}
