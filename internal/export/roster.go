// Package export writes the candidate roster to an Excel workbook.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spigell/interview-assistant/internal/dashboard"
	"github.com/spigell/interview-assistant/internal/session"
)

const (
	SummarySheet    = "Summary"
	CandidatesSheet = "Candidates"
	QuestionsSheet  = "Questions"
)

var (
	candidateHeaders = []string{"Name", "Email", "Phone", "Status", "Final Score", "Created", "Resume File", "AI Summary"}
	questionHeaders  = []string{"Candidate", "#", "Difficulty", "Question", "Answer", "Score", "Time Limit (s)", "Time Spent (s)"}
)

var bandColors = map[dashboard.Band]string{
	dashboard.BandGood: "C6EFCE",
	dashboard.BandFair: "FFEB9C",
	dashboard.BandPoor: "FFC7CE",
}

// Roster writes candidates to path, appending .xlsx when missing, and returns
// the path written. now stamps the summary sheet.
func Roster(candidates []session.Candidate, path string, now time.Time) (string, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	path = filepath.Clean(path)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return "", fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{CandidatesSheet, QuestionsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return "", fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	styles, err := newStyles(f)
	if err != nil {
		return "", err
	}

	if err := writeSummary(f, styles, candidates, now); err != nil {
		return "", fmt.Errorf("summary sheet: %w", err)
	}
	if err := writeCandidates(f, styles, candidates); err != nil {
		return "", fmt.Errorf("candidates sheet: %w", err)
	}
	if err := writeQuestions(f, styles, candidates); err != nil {
		return "", fmt.Errorf("questions sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return path, nil
}

type styles struct {
	header int
	label  int
	bands  map[dashboard.Band]int
}

func newStyles(f *excelize.File) (styles, error) {
	var s styles
	var err error

	s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return s, fmt.Errorf("header style: %w", err)
	}

	s.label, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return s, fmt.Errorf("label style: %w", err)
	}

	s.bands = make(map[dashboard.Band]int, len(bandColors))
	for band, color := range bandColors {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return s, fmt.Errorf("%s style: %w", band, err)
		}
		s.bands[band] = id
	}
	return s, nil
}

func writeSummary(f *excelize.File, st styles, candidates []session.Candidate, now time.Time) error {
	stats := dashboard.ComputeStats(candidates)
	rows := [][2]any{
		{"Generated", now.Format("2006-01-02 15:04:05")},
		{"Total Candidates", stats.Total},
		{"Completed", stats.Completed},
		{"In Progress", stats.InProgress},
		{"Average Score", stats.AverageScore},
	}

	if err := f.SetColWidth(SummarySheet, "A", "A", 20); err != nil {
		return err
	}
	for i, r := range rows {
		if err := setRow(f, SummarySheet, i+1, r[0], r[1]); err != nil {
			return err
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetCellStyle(SummarySheet, cell, cell, st.label); err != nil {
			return err
		}
	}
	return nil
}

func writeCandidates(f *excelize.File, st styles, candidates []session.Candidate) error {
	if err := writeHeader(f, st, CandidatesSheet, candidateHeaders); err != nil {
		return err
	}
	if err := f.SetColWidth(CandidatesSheet, "A", "G", 20); err != nil {
		return err
	}
	if err := f.SetColWidth(CandidatesSheet, "H", "H", 80); err != nil {
		return err
	}

	for i, c := range candidates {
		row := i + 2
		if err := setRow(f, CandidatesSheet, row,
			c.Name, c.Email, c.Phone, string(c.Status), c.FinalScore,
			c.CreatedAt.Format("2006-01-02 15:04"), c.ResumeFileName, c.AISummary,
		); err != nil {
			return err
		}
		if c.Status == session.StatusCompleted {
			cell, _ := excelize.CoordinatesToCellName(5, row)
			if err := f.SetCellStyle(CandidatesSheet, cell, cell, st.bands[dashboard.ScoreBand(c.FinalScore)]); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeQuestions(f *excelize.File, st styles, candidates []session.Candidate) error {
	if err := writeHeader(f, st, QuestionsSheet, questionHeaders); err != nil {
		return err
	}
	if err := f.SetColWidth(QuestionsSheet, "D", "E", 60); err != nil {
		return err
	}

	row := 2
	for _, c := range candidates {
		for i, q := range c.Questions {
			if err := setRow(f, QuestionsSheet, row,
				c.Name, i+1, string(q.Difficulty), q.Content, q.Answer, q.Score, q.TimeLimit, q.TimeSpent,
			); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func writeHeader(f *excelize.File, st styles, sheet string, headers []string) error {
	values := make([]any, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := setRow(f, sheet, 1, values...); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	return f.SetCellStyle(sheet, "A1", last, st.header)
}

func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
