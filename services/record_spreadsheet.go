package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"solve_litigation_go/logger"
	"solve_litigation_go/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const (
	// XLSXContentType is the media type of exported workbooks
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	sheetCitations = "Citations"
	sheetActs      = "Acts"

	// maxImportRows bounds one import request
	maxImportRows = 500
	// excelCellLimit is the longest text a cell may hold
	excelCellLimit = 32767
	listSeparator  = ";"
)

// Column layout shared by export and import. Import ignores the citation number
// column because numbers are always assigned on creation.
var citationColumns = []string{
	"Citation No", "Institution*", "Date of order*", "Title*", "Appellate type", "Case no",
	"Appellant", "Respondent", "Judge", "Laws", "Points of law", "Head note", "Judgments",
}

var actColumns = []string{"Citation No", "Institution", "Title", "Index", "Notification", "Judgments"}

// ImportResult reports the outcome of a spreadsheet import
type ImportResult struct {
	Created         int      `json:"created"`
	CitationNumbers []string `json:"citationNumbers"`
	Errors          []string `json:"errors"`
}

// ExportRecords writes approved citations and acts to an XLSX workbook
func ExportRecords(ctx context.Context, db *gorm.DB, actor *models.User) (*bytes.Buffer, error) {
	if err := Authorize(actor, OpExportRecords); err != nil {
		return nil, err
	}

	var records []models.LegalRecord
	err := db.WithContext(ctx).
		Where("status = ?", models.RecordStatusApproved).
		Order("kind, citation_no").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load records for export: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetCitations)
	if _, err := f.NewSheet(sheetActs); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	writeHeader(f, sheetCitations, citationColumns, headerStyle)
	writeHeader(f, sheetActs, actColumns, headerStyle)

	citationRow, actRow := 2, 2
	for i := range records {
		r := &records[i]
		if r.IsAct() {
			writeRow(f, sheetActs, actRow, []string{
				r.CitationNo, r.InstitutionName, r.Title, r.Index, r.Notification, r.Judgments,
			})
			actRow++
			continue
		}
		writeRow(f, sheetCitations, citationRow, []string{
			r.CitationNo, r.InstitutionName, formatOrderDate(r), r.Title, r.ApellateType, r.CaseNo,
			r.PartyNameAppealant, r.PartyNameRespondent, r.JudgeName,
			strings.Join(r.Laws, listSeparator+" "), strings.Join(r.PointOfLaw, listSeparator+" "),
			r.HeadNote, r.Judgments,
		})
		citationRow++
	}

	f.SetColWidth(sheetCitations, "A", "M", 24)
	f.SetColWidth(sheetActs, "A", "F", 24)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel buffer: %w", err)
	}
	return buf, nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) {
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheet, "A1", last, style)
}

func writeRow(f *excelize.File, sheet string, row int, values []string) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellStr(sheet, cell, truncate(v, excelCellLimit))
	}
}

func formatOrderDate(r *models.LegalRecord) string {
	if r.DateOfOrder == nil {
		return ""
	}
	return r.DateOfOrder.Format("2006-01-02")
}

// ImportCitations creates one pending citation per data row of the Citations sheet.
// Rows fail independently; a failed row does not stop the import.
func ImportCitations(ctx context.Context, svc *RecordService, file io.Reader, actor *models.User) (*ImportResult, error) {
	if err := Authorize(actor, OpImportRecords); err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, NewValidationError("Invalid spreadsheet", err.Error())
	}
	defer f.Close()

	sheet := sheetCitations
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read citations sheet: %w", err)
	}
	if len(rows)-1 > maxImportRows {
		return nil, NewValidationError(fmt.Sprintf("A spreadsheet may contain at most %d citations", maxImportRows))
	}

	result := &ImportResult{CitationNumbers: []string{}, Errors: []string{}}
	for i, row := range rows {
		if i == 0 || isBlankRow(row) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		record, err := svc.Create(models.RecordKindCitation, citationInputFromRow(row), actor)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %s", i+1, importErrorMessage(err)))
			continue
		}
		result.Created++
		result.CitationNumbers = append(result.CitationNumbers, record.CitationNo)
	}
	return result, nil
}

func citationInputFromRow(row []string) RecordInput {
	col := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	return RecordInput{
		InstitutionName:     col(1),
		DateOfOrder:         col(2),
		Title:               col(3),
		ApellateType:        col(4),
		CaseNo:              col(5),
		PartyNameAppealant:  col(6),
		PartyNameRespondent: col(7),
		JudgeName:           col(8),
		Laws:                splitList(col(9)),
		PointOfLaw:          splitList(col(10)),
		HeadNote:            col(11),
		Judgments:           col(12),
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, listSeparator) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func importErrorMessage(err error) string {
	if de, ok := AsDomainError(err); ok {
		if len(de.Details) > 0 {
			return de.Message + " (" + strings.Join(de.Details, ", ") + ")"
		}
		return de.Message
	}
	logger.Log.Error("Citation import row failed", "error", err)
	return "internal error"
}
