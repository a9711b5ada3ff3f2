package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/nguyenthenguyen/docx"
	"github.com/sirupsen/logrus"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"

	"jobboard/domain"
)

var (
	emailPattern    = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern    = regexp.MustCompile(`\+?\d[\d\s().\-]{7,}\d`)
	linkedInPattern = regexp.MustCompile(`(?i)(https?://)?([a-z]{2,3}\.)?linkedin\.com/in/[A-Za-z0-9_\-%]+/?`)
	yearsPattern    = regexp.MustCompile(`(?i)(\d{1,2}(\.\d)?)\+?\s*(years|yrs)`)
	docxParagraph   = regexp.MustCompile(`</w:p>`)
	xmlTag          = regexp.MustCompile(`<[^>]+>`)
)

// LocalResumeParser extracts resume text in-process instead of calling a
// parsing service. It downloads the stored file, pulls plain text out of it
// and builds the same loosely typed document a parsing service would return.
type LocalResumeParser struct {
	client     *http.Client
	vocabulary []string
	timeout    time.Duration
	log        logrus.FieldLogger
}

// NewLocalResumeParser bounds every Parse call by timeout, download and
// extraction included.
func NewLocalResumeParser(vocabulary []string, timeout time.Duration, log logrus.FieldLogger) *LocalResumeParser {
	if len(vocabulary) == 0 {
		vocabulary = DefaultSkillVocabulary
	}
	return &LocalResumeParser{
		client:     newHTTPClient(0),
		vocabulary: vocabulary,
		timeout:    timeout,
		log:        log.WithField("component", "local_parser"),
	}
}

// Supports reports whether text can be extracted from contentType. Legacy
// Word documents cannot.
func (p *LocalResumeParser) Supports(contentType string) bool {
	switch contentType {
	case domain.MIMEPDF, domain.MIMEDocx, domain.MIMEPlainText:
		return true
	}
	return false
}

func (p *LocalResumeParser) Parse(ctx context.Context, fileURL string) (domain.NormalizedResume, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return domain.NormalizedResume{}, &domain.ParsingError{Err: err}
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return domain.NormalizedResume{}, &domain.ParsingError{Timeout: isTimeout(ctx, err), Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return domain.NormalizedResume{}, &domain.ParsingError{Status: resp.StatusCode, Err: fmt.Errorf("download %s: %s", fileURL, resp.Status)}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, domain.MaxResumeBytes+1))
	if err != nil {
		return domain.NormalizedResume{}, &domain.ParsingError{Err: err}
	}

	text, err := extractWithin(ctx, data)
	if err != nil {
		return domain.NormalizedResume{}, &domain.ParsingError{Timeout: isTimeout(ctx, err), Err: err}
	}

	raw, err := json.Marshal(p.document(text))
	if err != nil {
		return domain.NormalizedResume{}, &domain.ParsingError{Err: err}
	}
	resume, err := NormalizeResume(raw)
	if err != nil {
		return domain.NormalizedResume{}, &domain.ParsingError{Err: err}
	}
	p.log.WithField("chars", len(text)).Debug("resume extracted locally")
	return resume, nil
}

// extractWithin stops waiting for ExtractText once ctx is done.
func extractWithin(ctx context.Context, data []byte) (string, error) {
	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		text, err := ExtractText(data)
		ch <- result{text, err}
	}()
	select {
	case res := <-ch:
		return res.text, res.err
	case <-ctx.Done():
		return "", fmt.Errorf("extract text: %w", ctx.Err())
	}
}

// ExtractText returns the plain text of a PDF, DOCX or text resume. Other
// formats yield domain.ErrUnsupportedFormat.
func ExtractText(data []byte) (string, error) {
	mtype := mimetype.Detect(data)
	switch {
	case mtype.Is(domain.MIMEPDF):
		return pdfText(data)
	case mtype.Is(domain.MIMEDocx):
		return docxText(data)
	case mtype.Is(domain.MIMEPlainText):
		return string(data), nil
	}
	return "", fmt.Errorf("%w: cannot extract text from %s", domain.ErrUnsupportedFormat, mtype.String())
}

func pdfText(data []byte) (string, error) {
	reader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	pages, err := reader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("count pdf pages: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= pages; i++ {
		page, err := reader.GetPage(i)
		if err != nil {
			continue
		}
		ex, err := extractor.New(page)
		if err != nil {
			continue
		}
		text, err := ex.ExtractText()
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", errors.New("no text could be extracted from the pdf")
	}
	return out, nil
}

func docxText(data []byte) (string, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}
	defer r.Close()

	content := docxParagraph.ReplaceAllString(r.Editable().GetContent(), "\n")
	content = html.UnescapeString(xmlTag.ReplaceAllString(content, ""))
	if strings.TrimSpace(content) == "" {
		return "", errors.New("docx has no text")
	}
	return content, nil
}

// document derives the fields a parsing service would report from raw text.
func (p *LocalResumeParser) document(text string) map[string]any {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	doc := map[string]any{
		"email":    emailPattern.FindString(text),
		"phone":    strings.TrimSpace(phonePattern.FindString(text)),
		"linkedin": linkedInPattern.FindString(text),
		"skills":   matchSkills(p.vocabulary, text),
	}
	// The first short line without contact details is usually the name.
	for _, l := range lines {
		if len(l) <= 60 && !strings.ContainsAny(l, "@:/|") && !phonePattern.MatchString(l) {
			doc["name"] = l
			break
		}
	}
	if m := yearsPattern.FindStringSubmatch(text); m != nil {
		doc["years_of_experience"] = m[1]
	}
	if len(lines) > 1 {
		summary := strings.Join(lines[1:min(len(lines), 6)], " ")
		doc["summary"] = truncate(summary, 600)
	}
	return doc
}
