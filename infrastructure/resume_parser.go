package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"jobboard/config"
	"jobboard/domain"
)

const maxParserResponseBytes = 10 << 20

// ResumeParserClient calls the external parsing service and normalizes what it
// returns.
type ResumeParserClient struct {
	endpoint string
	apiKey   string
	timeout  time.Duration
	client   *http.Client
	log      logrus.FieldLogger
}

func NewResumeParserClient(cfg config.ParserConfig, log logrus.FieldLogger) *ResumeParserClient {
	return &ResumeParserClient{
		endpoint: cfg.URL,
		apiKey:   cfg.APIKey,
		timeout:  time.Duration(cfg.TimeoutSeconds) * time.Second,
		client:   newHTTPClient(0),
		log:      log.WithField("component", "resume_parser"),
	}
}

// Parse sends fileURL to the parser. The call is bounded by the configured
// timeout regardless of ctx.
func (p *ResumeParserClient) Parse(ctx context.Context, fileURL string) (domain.NormalizedResume, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	body, err := json.Marshal(map[string]string{"url": fileURL})
	if err != nil {
		return domain.NormalizedResume{}, &domain.ParsingError{Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.NormalizedResume{}, &domain.ParsingError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		req.Header.Set("X-API-Key", p.apiKey)
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return domain.NormalizedResume{}, &domain.ParsingError{Timeout: isTimeout(ctx, err), Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxParserResponseBytes))
	if err != nil {
		return domain.NormalizedResume{}, &domain.ParsingError{Status: resp.StatusCode, Timeout: isTimeout(ctx, err), Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.NormalizedResume{}, &domain.ParsingError{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("parser responded %s: %s", resp.Status, truncate(strings.TrimSpace(string(payload)), 300)),
		}
	}

	resume, err := NormalizeResume(payload)
	if err != nil {
		return domain.NormalizedResume{}, &domain.ParsingError{Status: resp.StatusCode, Err: err}
	}

	p.log.WithFields(logrus.Fields{
		"duration_ms": time.Since(start).Milliseconds(),
		"skills":      len(resume.Skills.All),
		"experience":  len(resume.Experience),
	}).Debug("resume parsed")
	return resume, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
