package infrastructure

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"

	"jobboard/domain"
)

// MailTransport delivers an already composed RFC 5322 message.
type MailTransport interface {
	Send(ctx context.Context, from string, to []string, msg []byte) error
}

// MailDispatcher sends the HR alert and the candidate acknowledgement. Sends
// are best effort: failures come back as NotificationResult, never as errors.
type MailDispatcher struct {
	transport   MailTransport
	from        mail.Address
	frontendURL string
	log         logrus.FieldLogger
}

// NewMailDispatcher accepts a nil transport; every send then reports
// Sent=false.
func NewMailDispatcher(transport MailTransport, fromAddress, fromName, frontendURL string, log logrus.FieldLogger) *MailDispatcher {
	return &MailDispatcher{
		transport:   transport,
		from:        mail.Address{Name: fromName, Address: fromAddress},
		frontendURL: strings.TrimRight(frontendURL, "/"),
		log:         log.WithField("component", "mailer"),
	}
}

func (d *MailDispatcher) NotifyHR(ctx context.Context, a domain.HRAlert) domain.NotificationResult {
	candidate := orDefault(a.CandidateName, "Unnamed candidate")
	subject := fmt.Sprintf("Strong candidate for %s: %s (%d%% match)", a.JobTitle, candidate, a.MatchScore)

	var md strings.Builder
	fmt.Fprintf(&md, "Hello %s,\n\n", orDefault(a.ToName, "there"))
	fmt.Fprintf(&md, "A new applicant for **%s** scored **%d/100** ", a.JobTitle, a.MatchScore)
	fmt.Fprintf(&md, "with a shortlist probability of **%.0f%%**.\n\n", a.ShortlistProbability*100)
	fmt.Fprintf(&md, "- Candidate: %s\n", candidate)
	if a.CandidateEmail != "" {
		fmt.Fprintf(&md, "- Email: %s\n", a.CandidateEmail)
	}
	if len(a.StrongSkills) > 0 {
		fmt.Fprintf(&md, "- Strong skills: %s\n", strings.Join(a.StrongSkills, ", "))
	}
	if a.ResumeURL != "" {
		fmt.Fprintf(&md, "- [Resume](%s)\n", a.ResumeURL)
	}
	if a.Recommendation != "" {
		fmt.Fprintf(&md, "\n> %s\n", a.Recommendation)
	}
	if d.frontendURL != "" {
		fmt.Fprintf(&md, "\n[Review all applicants](%s/jobs/%s/applicants)\n", d.frontendURL, a.JobID)
	}

	return d.send(ctx, "hr_alert", mail.Address{Name: a.ToName, Address: a.To}, subject, md.String())
}

func (d *MailDispatcher) NotifyCandidate(ctx context.Context, a domain.CandidateAck) domain.NotificationResult {
	subject := fmt.Sprintf("We received your application for %s", a.JobTitle)

	var md strings.Builder
	fmt.Fprintf(&md, "Hi %s,\n\n", orDefault(a.ToName, "there"))
	fmt.Fprintf(&md, "Thank you for applying to **%s**. Your resume was received on %s ", a.JobTitle, a.AppliedAt.UTC().Format("January 2, 2006"))
	md.WriteString("and is now with the hiring team.\n\n")
	md.WriteString("We will contact you if your profile matches what the team is looking for.\n")
	if d.frontendURL != "" {
		fmt.Fprintf(&md, "\n[Track your applications](%s/applications)\n", d.frontendURL)
	}

	return d.send(ctx, "candidate_ack", mail.Address{Name: a.ToName, Address: a.To}, subject, md.String())
}

func (d *MailDispatcher) send(ctx context.Context, kind string, to mail.Address, subject, markdown string) domain.NotificationResult {
	log := d.log.WithField("kind", kind)
	if d.transport == nil {
		return domain.NotificationResult{Reason: "mail transport disabled"}
	}
	if strings.TrimSpace(to.Address) == "" {
		log.Warn("notification skipped: no recipient address")
		return domain.NotificationResult{Reason: "missing recipient address"}
	}

	msg, err := composeMessage(d.from, to, subject, markdown, time.Now())
	if err != nil {
		log.WithError(err).Error("compose notification")
		return domain.NotificationResult{Reason: err.Error()}
	}
	if err := d.transport.Send(ctx, d.from.Address, []string{to.Address}, msg); err != nil {
		log.WithError(err).WithField("to", to.Address).Error("send notification")
		return domain.NotificationResult{Reason: err.Error()}
	}
	log.WithField("to", to.Address).Info("notification sent")
	return domain.NotificationResult{Sent: true}
}

// composeMessage builds a multipart/alternative message with the markdown as
// the plain text part and its rendering as the HTML part.
func composeMessage(from, to mail.Address, subject, markdown string, now time.Time) ([]byte, error) {
	var html bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &html); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	var h mail.Header
	h.SetDate(now)
	h.SetSubject(subject)
	h.SetAddressList("From", []*mail.Address{&from})
	h.SetAddressList("To", []*mail.Address{&to})
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("message id: %w", err)
	}

	var buf bytes.Buffer
	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, err
	}
	tw, err := mw.CreateInline()
	if err != nil {
		return nil, err
	}
	if err := writeInlinePart(tw, "text/plain", markdown); err != nil {
		return nil, err
	}
	if err := writeInlinePart(tw, "text/html", html.String()); err != nil {
		return nil, err
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeInlinePart(tw *mail.InlineWriter, contentType, body string) error {
	var ph mail.InlineHeader
	ph.SetContentType(contentType, map[string]string{"charset": "utf-8"})
	w, err := tw.CreatePart(ph)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, body); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
