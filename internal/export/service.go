package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"docpipe/internal/entity"
)

// Service produces XLSX bytes for processed documents so back-office
// consumers can review extraction output without touching the pipeline.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ResultXLSX renders one DocumentResult as a workbook: a summary sheet, an
// entities sheet, and one sheet per extracted table.
func (s *Service) ResultXLSX(res *entity.DocumentResult) ([]byte, error) {
	start := time.Now()
	f := excelize.NewFile()

	if err := s.writeSummary(f, res); err != nil {
		return nil, err
	}
	if err := s.writeEntities(f, res); err != nil {
		return nil, err
	}
	if err := s.writeTables(f, res); err != nil {
		return nil, err
	}

	// drop the default sheet left over from NewFile
	if idx, _ := f.GetSheetIndex("Sheet1"); idx != -1 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	s.logger.Debug("export.xlsx.ok",
		"document_id", res.DocumentID, "bytes", buf.Len(), "duration_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}

func (s *Service) writeSummary(f *excelize.File, res *entity.DocumentResult) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	rows := [][]any{
		{"Document ID", res.DocumentID.String()},
		{"Status", string(res.Status)},
		{"Type", string(res.Classification.Label)},
		{"Type Confidence", res.Classification.Confidence},
		{"Pages", len(res.Pages)},
		{"Entities", len(res.Entities)},
		{"Processed At", res.ProcessedAt.Format(time.RFC3339)},
	}
	if res.Fields != nil {
		rows = append(rows,
			[]any{"Field Confidence", res.Fields.Confidence},
			[]any{"Route", string(res.Fields.Route)},
		)
		for k, v := range res.Fields.Fields {
			rows = append(rows, []any{"Field: " + k, v})
		}
	}
	for _, ps := range res.Statuses.Pages {
		rows = append(rows, []any{
			fmt.Sprintf("Page %d", ps.Page),
			fmt.Sprintf("text=%s tables=%s", ps.Text, ps.Tables),
		})
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) writeEntities(f *excelize.File, res *entity.DocumentResult) error {
	const sheet = "Entities"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []any{"Type", "Value", "Raw Text", "Page", "Offset", "Normalization"}
	cell, _ := excelize.CoordinatesToCellName(1, 1)
	if err := f.SetSheetRow(sheet, cell, &headers); err != nil {
		return err
	}
	for i, e := range res.Entities {
		row := []any{
			string(e.Type), e.Value, e.Text, e.Page,
			fmt.Sprintf("%d-%d", e.Start, e.End), string(e.Normalization),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) writeTables(f *excelize.File, res *entity.DocumentResult) error {
	n := 0
	for _, page := range res.Pages {
		for _, tbl := range page.Tables {
			n++
			sheet := fmt.Sprintf("Table %d (p%d)", n, page.Number)
			if tbl.Irregular {
				sheet += " irregular"
			}
			if _, err := f.NewSheet(sheet); err != nil {
				return err
			}
			for i, row := range tbl.Rows {
				vals := make([]any, len(row))
				for j, c := range row {
					vals[j] = c
				}
				cell, _ := excelize.CoordinatesToCellName(1, i+1)
				if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
