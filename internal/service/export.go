package service

import (
	"bytes"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"gradetracker/internal/model"
)

const (
	CSVFileName  = "student_grades.csv"
	CSVMimeType  = "text/csv"
	XLSXFileName = "student_grades.xlsx"
	XLSXMimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	xlsxSheet = "Grades"
)

var exportHeader = []string{"Name", "Grade", "Status"}

// ToCSV renders the collection with a Name,Grade,Status header. Every field is
// double-quoted and rows are separated by a bare newline.
func (s *GradeStore) ToCSV() string {
	students := s.All()

	rows := make([]string, 0, len(students)+1)
	rows = append(rows, csvRow(exportHeader))
	for _, st := range students {
		rows = append(rows, csvRow([]string{
			st.Name,
			formatGrade(st.Grade),
			string(model.LetterGrade(st.Grade)),
		}))
	}

	return strings.Join(rows, "\n")
}

func csvRow(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

// formatGrade renders one decimal place, rounding the exact binary value to
// the nearest tenth. A value lying exactly halfway rounds away from zero, so
// 91.25 renders as 91.3 while 0.15 (stored just below 0.15) renders as 0.1.
func formatGrade(grade float64) string {
	// 20*grade is an odd integer exactly when grade sits on a tie.
	twenty := new(big.Float).SetPrec(128).SetFloat64(grade)
	twenty.Mul(twenty, big.NewFloat(20))
	if n, acc := twenty.Int64(); acc == big.Exact && n%2 != 0 {
		tenths := (n + 1) / 2
		if n < 0 {
			tenths = (n - 1) / 2
		}
		return strconv.FormatFloat(float64(tenths)/10, 'f', 1, 64)
	}

	return strconv.FormatFloat(grade, 'f', 1, 64)
}

// ToXLSX renders the same rows as ToCSV into a single-sheet workbook.
func (s *GradeStore) ToXLSX() ([]byte, error) {
	students := s.All()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	gradeStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr("0.0")})
	if err != nil {
		return nil, fmt.Errorf("failed to create grade style: %w", err)
	}

	for i, st := range students {
		row := i + 2
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		values := []interface{}{st.Name, st.Grade, string(model.LetterGrade(st.Grade))}
		if err := f.SetSheetRow(xlsxSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", row, err)
		}
	}

	if len(students) > 0 {
		last := fmt.Sprintf("B%d", len(students)+1)
		if err := f.SetCellStyle(xlsxSheet, "B2", last, gradeStyle); err != nil {
			return nil, fmt.Errorf("failed to style grades: %w", err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func strPtr(s string) *string {
	return &s
}
