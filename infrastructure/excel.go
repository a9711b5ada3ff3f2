package infrastructure

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"jobboard/domain"
)

const (
	summarySheet    = "Summary"
	applicantsSheet = "Applicants"
)

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

// WriteApplicantsReport writes an XLSX report of the job's applicants, already
// ranked by match score, to w.
func WriteApplicantsReport(w io.Writer, job *domain.JobPosting, applicants []domain.Applicant, now time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(applicantsSheet); err != nil {
		return err
	}

	if err := writeSummarySheet(f, job, applicants, now); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeApplicantsSheet(f, applicants); err != nil {
		return fmt.Errorf("failed to create applicants sheet: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, job *domain.JobPosting, applicants []domain.Applicant, now time.Time) error {
	f.SetColWidth(summarySheet, "A", "A", 28)
	f.SetColWidth(summarySheet, "B", "B", 50)

	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	var scored, shortlisted, total int
	for _, a := range applicants {
		if a.Score == nil {
			continue
		}
		scored++
		total += a.Score.MatchScore
		if a.Score.HRNotified {
			shortlisted++
		}
	}
	average := "n/a"
	if scored > 0 {
		average = fmt.Sprintf("%.1f", float64(total)/float64(scored))
	}

	rows := [][2]any{
		{"Job", job.Title},
		{"Job ID", job.JobID},
		{"Status", string(job.Status)},
		{"Generated", now.UTC().Format("2006-01-02 15:04:05 MST")},
		{"Applicants", len(applicants)},
		{"Scored", scored},
		{"HR notified", shortlisted},
		{"Average match score", average},
	}
	for i, r := range rows {
		label := fmt.Sprintf("A%d", i+1)
		f.SetCellValue(summarySheet, label, r[0])
		f.SetCellStyle(summarySheet, label, label, labelStyle)
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", i+1), r[1])
	}
	return nil
}

func writeApplicantsSheet(f *excelize.File, applicants []domain.Applicant) error {
	headers := []string{"Rank", "Name", "Email", "Match Score", "Shortlist Probability",
		"Strong Skills", "Missing Skills", "Recommendation", "Scored By", "Applied At", "Resume"}
	widths := []float64{7, 25, 30, 12, 12, 35, 35, 60, 18, 20, 14}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorder,
	})
	if err != nil {
		return err
	}
	bands := map[string]int{}
	for name, color := range map[string]string{"high": "C6EFCE", "mid": "FFEB9C", "low": "FFC7CE", "none": "EDEDED"} {
		id, err := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
			Border:    thinBorder,
		})
		if err != nil {
			return err
		}
		bands[name] = id
	}

	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(applicantsSheet, col, col, widths[i])
		f.SetCellValue(applicantsSheet, col+"1", h)
		f.SetCellStyle(applicantsSheet, col+"1", col+"1", headerStyle)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))

	for i, a := range applicants {
		row := i + 2
		values := []any{i + 1, a.Name, a.Email, "", "", "", "", "", "", a.AppliedAt.UTC().Format("2006-01-02 15:04"), ""}
		band := "none"
		if s := a.Score; s != nil {
			values[3] = s.MatchScore
			values[4] = s.ShortlistProbability
			values[5] = strings.Join(s.StrongSkills, ", ")
			values[6] = strings.Join(s.MissingSkills, ", ")
			values[7] = s.Recommendation
			values[8] = s.ScoredBy
			band = scoreBand(s.MatchScore)
		}
		for c, v := range values {
			col, _ := excelize.ColumnNumberToName(c + 1)
			f.SetCellValue(applicantsSheet, fmt.Sprintf("%s%d", col, row), v)
		}
		f.SetCellStyle(applicantsSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), bands[band])

		if a.ResumeURL != "" {
			cell := fmt.Sprintf("%s%d", lastCol, row)
			f.SetCellValue(applicantsSheet, cell, "Open resume")
			f.SetCellHyperLink(applicantsSheet, cell, a.ResumeURL, "External")
		}
	}

	if len(applicants) > 0 {
		f.AutoFilter(applicantsSheet, fmt.Sprintf("A1:%s%d", lastCol, len(applicants)+1), []excelize.AutoFilterOptions{})
	}
	return f.SetPanes(applicantsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func scoreBand(score int) string {
	switch {
	case score >= 80:
		return "high"
	case score >= 50:
		return "mid"
	}
	return "low"
}
