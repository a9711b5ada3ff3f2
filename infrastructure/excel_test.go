package infrastructure

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"jobboard/domain"
)

func TestWriteApplicantsReport(t *testing.T) {
	job := &domain.JobPosting{JobID: "job-1", Title: "Go Engineer", Status: domain.JobStatusActive}
	applied := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	applicants := []domain.Applicant{
		{
			Name: "Sam Park", Email: "sam@example.com", ResumeURL: "https://files.example/sam.pdf", AppliedAt: applied,
			Score: &domain.ScoreVerdict{MatchScore: 88, ShortlistProbability: 0.8, StrongSkills: []string{"Go", "SQL"}, HRNotified: true, ScoredBy: "gemini-2.0-flash"},
		},
		{
			Name: "Lee Kim", Email: "lee@example.com", AppliedAt: applied,
			Score: &domain.ScoreVerdict{MatchScore: 40, ScoredBy: domain.ScoredByFallback},
		},
		{Name: "Unscored", AppliedAt: applied},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteApplicantsReport(&buf, job, applicants, applied))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Applicants"}, f.GetSheetList())

	get := func(sheet, cell string) string {
		v, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "Go Engineer", get("Summary", "B1"))
	assert.Equal(t, "3", get("Summary", "B5"))
	assert.Equal(t, "2", get("Summary", "B6"))
	assert.Equal(t, "1", get("Summary", "B7"))
	assert.Equal(t, "64.0", get("Summary", "B8"))

	assert.Equal(t, "Match Score", get("Applicants", "D1"))
	assert.Equal(t, "Sam Park", get("Applicants", "B2"))
	assert.Equal(t, "88", get("Applicants", "D2"))
	assert.Equal(t, "Go, SQL", get("Applicants", "F2"))
	assert.Equal(t, "Open resume", get("Applicants", "K2"))
	assert.Equal(t, "fallback", get("Applicants", "I3"))
	assert.Equal(t, "", get("Applicants", "D4"))

	link, target, err := f.GetCellHyperLink("Applicants", "K2")
	require.NoError(t, err)
	assert.True(t, link)
	assert.Equal(t, "https://files.example/sam.pdf", target)
}
