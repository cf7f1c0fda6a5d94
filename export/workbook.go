package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// AuditSheet is the worksheet name of the audit workbook.
const AuditSheet = "Compliance Audit Log"

var (
	auditHeaders = []string{"Risk Level", "Page", "Line", "Text", "Error/Suggestion", "Source Link", "Action", "Date"}
	auditWidths  = []float64{12, 10, 8, 60, 60, 44, 14, 12}
	strictHeader = []string{"SOP Line (verbatim)", "Issue Type", "Severity", "Suggestion"}
)

func (r AuditRow) cells() []interface{} {
	line := ""
	if r.Line > 0 {
		line = strconv.Itoa(r.Line)
	}
	return []interface{}{string(r.RiskLevel), r.Page, line, r.Text, r.Suggestion, r.SourceLink, r.Action, r.Date}
}

// BuildAuditWorkbook renders rows as an XLSX workbook.
func BuildAuditWorkbook(rows []AuditRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", AuditSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(auditHeaders))
	for i, h := range auditHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(AuditSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := row.cells()
		if err := f.SetSheetRow(AuditSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"7C3AED"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(auditHeaders))
	if err := f.SetCellStyle(AuditSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, err
	}

	bodyStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create body style: %w", err)
	}
	if len(rows) > 0 {
		end := fmt.Sprintf("%s%d", lastCol, len(rows)+1)
		if err := f.SetCellStyle(AuditSheet, "A2", end, bodyStyle); err != nil {
			return nil, err
		}
	}

	for i, w := range auditWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(AuditSheet, col, col, w); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// BuildAuditCSV renders the strict CSV log: only rows whose quoted line states
// an explicit problem, with the approval state folded into the issue type.
func BuildAuditCSV(rows []AuditRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(strictHeader); err != nil {
		return nil, err
	}

	wrote := false
	for _, r := range rows {
		if r.IssueType == "" || r.Severity == "" {
			continue
		}
		if err := w.Write([]string{r.Text, r.IssueType + " - " + r.Action, r.Severity, r.Suggestion}); err != nil {
			return nil, err
		}
		wrote = true
	}
	if !wrote {
		if err := w.Write([]string{NoViolationText, "Observation", "Observation", ""}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}
