package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/domain"
)

type recordingTransport struct {
	from string
	to   []string
	msg  []byte
	err  error
}

func (r *recordingTransport) Send(_ context.Context, from string, to []string, msg []byte) error {
	r.from, r.to, r.msg = from, to, msg
	return r.err
}

func newTestDispatcher(tr MailTransport) *MailDispatcher {
	log, _ := test.NewNullLogger()
	return NewMailDispatcher(tr, "jobs@example.com", "Job Board", "https://jobs.example.com/", log)
}

func readParts(t *testing.T, msg []byte) (subject string, parts map[string]string) {
	mr, err := mail.CreateReader(bytes.NewReader(msg))
	require.NoError(t, err)
	subject, err = mr.Header.Subject()
	require.NoError(t, err)

	parts = map[string]string{}
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		ct, _, _ := p.Header.(*mail.InlineHeader).ContentType()
		body, _ := io.ReadAll(p.Body)
		parts[ct] = string(body)
	}
	return subject, parts
}

func TestMailDispatcher_NotifyHR(t *testing.T) {
	tr := &recordingTransport{}
	res := newTestDispatcher(tr).NotifyHR(context.Background(), domain.HRAlert{
		To:             "hr@acme.com",
		ToName:         "Pat",
		JobID:          "job-1",
		JobTitle:       "Go Engineer",
		CandidateName:  "Sam Park",
		MatchScore:     91,
		StrongSkills:   []string{"Go", "Kubernetes"},
		ResumeURL:      "https://files.example/cv.pdf",
		Recommendation: "Interview",
	})

	require.True(t, res.Sent)
	assert.Equal(t, "jobs@example.com", tr.from)
	assert.Equal(t, []string{"hr@acme.com"}, tr.to)

	subject, parts := readParts(t, tr.msg)
	assert.Equal(t, "Strong candidate for Go Engineer: Sam Park (91% match)", subject)
	assert.Contains(t, parts["text/plain"], "Strong skills: Go, Kubernetes")
	assert.Contains(t, parts["text/html"], "<strong>91/100</strong>")
	assert.Contains(t, parts["text/html"], `href="https://jobs.example.com/jobs/job-1/applicants"`)
}

func TestMailDispatcher_NotifyCandidate(t *testing.T) {
	tr := &recordingTransport{}
	res := newTestDispatcher(tr).NotifyCandidate(context.Background(), domain.CandidateAck{
		To:        "sam@example.com",
		JobTitle:  "Go Engineer",
		AppliedAt: time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC),
	})

	require.True(t, res.Sent)
	subject, parts := readParts(t, tr.msg)
	assert.Equal(t, "We received your application for Go Engineer", subject)
	assert.Contains(t, parts["text/plain"], "Hi there,")
	assert.Contains(t, parts["text/plain"], "March 4, 2026")
}

func TestMailDispatcher_FailuresAreReported(t *testing.T) {
	t.Run("transport error", func(t *testing.T) {
		res := newTestDispatcher(&recordingTransport{err: errors.New("relay refused")}).
			NotifyCandidate(context.Background(), domain.CandidateAck{To: "sam@example.com"})
		assert.False(t, res.Sent)
		assert.Equal(t, "relay refused", res.Reason)
	})
	t.Run("missing recipient", func(t *testing.T) {
		tr := &recordingTransport{}
		res := newTestDispatcher(tr).NotifyHR(context.Background(), domain.HRAlert{JobTitle: "Go Engineer"})
		assert.False(t, res.Sent)
		assert.Equal(t, "missing recipient address", res.Reason)
		assert.Nil(t, tr.msg)
	})
	t.Run("disabled", func(t *testing.T) {
		res := newTestDispatcher(nil).NotifyHR(context.Background(), domain.HRAlert{To: "hr@acme.com"})
		assert.False(t, res.Sent)
	})
}
