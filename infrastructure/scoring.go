package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"jobboard/domain"
)

const maxJobDescriptionChars = 12000

// ResumeScorer asks a generative model for a verdict and falls back to the
// keyword scorer when the model fails or answers with something unusable.
// Score never returns an error.
type ResumeScorer struct {
	gen      TextGenerator
	fallback *FallbackScorer
	log      logrus.FieldLogger
}

// NewResumeScorer accepts a nil generator, in which case every verdict comes
// from the fallback scorer.
func NewResumeScorer(gen TextGenerator, fallback *FallbackScorer, log logrus.FieldLogger) *ResumeScorer {
	return &ResumeScorer{gen: gen, fallback: fallback, log: log.WithField("component", "scorer")}
}

func (s *ResumeScorer) Score(ctx context.Context, resume domain.NormalizedResume, jobDescription string) domain.Verdict {
	if s.gen == nil {
		return s.fallback.Score(resume, jobDescription)
	}

	out, err := s.gen.Generate(ctx, buildScoringPrompt(resume, plainText(jobDescription)))
	if err != nil {
		s.log.WithError(err).Warn("scoring upstream failed, using fallback scorer")
		return s.fallback.Score(resume, jobDescription)
	}

	verdict, err := parseVerdict(out.Text, s.fallback.salary)
	if err != nil {
		s.log.WithError(err).WithField("model", out.Model).Warn("unusable scoring response, using fallback scorer")
		return s.fallback.Score(resume, jobDescription)
	}
	verdict.ScoredBy = out.Model
	return verdict
}

func buildScoringPrompt(r domain.NormalizedResume, jobDescription string) string {
	var work []string
	for _, e := range r.Experience {
		line := strings.TrimSpace(e.Title + " at " + e.Company)
		if e.Duration != "" {
			line += " (" + e.Duration + ")"
		} else if e.StartDate != "" || e.EndDate != "" {
			line += " (" + e.StartDate + " - " + e.EndDate + ")"
		}
		work = append(work, "- "+line)
	}
	var education []string
	for _, e := range r.Education {
		education = append(education, "- "+strings.TrimSpace(e.Degree+", "+e.Institution+" "+e.GraduationDate))
	}
	if len(jobDescription) > maxJobDescriptionChars {
		jobDescription = jobDescription[:maxJobDescriptionChars]
	}

	return fmt.Sprintf(`You are an expert technical recruiter. Compare the candidate with the job description.

Candidate:
Name: %s
Total experience: %.1f years
Skills: %s
Education:
%s
Work history:
%s

Job Description:
%s

Return ONLY a JSON object with exactly this structure, without markdown or any other text:
{
  "match_score": integer 0-100,
  "shortlist_probability": number 0-1,
  "salary_range": {"min": number, "max": number},
  "missing_skills": [string],
  "strong_skills": [string],
  "recommendation": string,
  "key_highlights": [string],
  "areas_of_concern": [string]
}`,
		orNone(r.PersonalInfo.Name),
		r.TotalExperienceYears,
		orNone(strings.Join(r.Skills.All, ", ")),
		orNone(strings.Join(education, "\n")),
		orNone(strings.Join(work, "\n")),
		jobDescription,
	)
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "not provided"
	}
	return s
}

// parseVerdict repairs and validates a model reply. Out of range numbers are
// clamped; missing fields become zero values or empty slices.
func parseVerdict(text string, defaultSalary domain.SalaryRange) (domain.Verdict, error) {
	obj, err := extractJSONObject(text)
	if err != nil {
		return domain.Verdict{}, err
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(obj), &m); err != nil {
		return domain.Verdict{}, fmt.Errorf("decode verdict: %w", err)
	}

	prob := toFloat(m["shortlist_probability"])
	if prob > 1 && prob <= 100 {
		prob /= 100
	}
	prob = math.Round(math.Min(math.Max(prob, 0), 1)*100) / 100

	salary := defaultSalary
	if sr, ok := m["salary_range"].(map[string]any); ok {
		lo, hi := int(toFloat(sr["min"])), int(toFloat(sr["max"]))
		if lo > hi {
			lo, hi = hi, lo
		}
		if hi > 0 {
			salary = domain.SalaryRange{Min: max(lo, 0), Max: hi}
		}
	}

	return domain.Verdict{
		MatchScore:           clampInt(int(math.Round(toFloat(m["match_score"]))), 0, 100),
		ShortlistProbability: prob,
		SalaryRange:          salary,
		MissingSkills:        toStrings(m["missing_skills"]),
		StrongSkills:         toStrings(m["strong_skills"]),
		Recommendation:       toString(m["recommendation"]),
		KeyHighlights:        toStrings(m["key_highlights"]),
		AreasOfConcern:       toStrings(m["areas_of_concern"]),
	}, nil
}

var errNoJSONObject = errors.New("no JSON object in model response")

// extractJSONObject strips markdown fences and returns the first balanced
// {...} span, ignoring braces inside string literals.
func extractJSONObject(content string) (string, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	start := strings.IndexByte(content, '{')
	if start < 0 {
		return "", errNoJSONObject
	}
	depth, inString, escaped := 0, false, false
	for i := start; i < len(content); i++ {
		c := content[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return content[start : i+1], nil
			}
		}
	}
	return "", errNoJSONObject
}

// toFloat accepts numbers and numeric strings such as "85", "85%" or "$90,000".
func toFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0
		}
		return t
	case string:
		cleaned := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' || r == '.' || r == '-' {
				return r
			}
			return -1
		}, t)
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func toStrings(v any) []string {
	out := []string{}
	items, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		if s := text(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
