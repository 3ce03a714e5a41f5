package exporter

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"sentimentcli/internal/analysis"
	apperrors "sentimentcli/internal/errors"
)

// Workbook sheet names
const (
	sheetDaily        = "Daily Performance"
	sheetCorrelations = "Correlations"
	sheetClassSummary = "By Sentiment Class"
)

// ExportWorkbook writes one Excel workbook containing the joined daily table,
// the correlation matrix and the per-class summary as separate sheets. Cell
// values mirror the CSV artifacts.
func (e *ReportExporter) ExportWorkbook(rows []analysis.JoinedDay, columns []string, matrix [][]float64, summaries []analysis.ClassSummary) error {
	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return apperrors.NewStorageError("failed to create output directory", err).
			WithContext("dir", e.outputDir)
	}

	f := excelize.NewFile()
	defer f.Close()

	dailyRecords := make([][]string, 0, len(rows))
	for _, row := range rows {
		dailyRecords = append(dailyRecords, joinedToRow(row))
	}
	if err := writeSheet(f, sheetDaily, joinedHeaders, dailyRecords); err != nil {
		return err
	}

	corrHeaders := append([]string{""}, columns...)
	corrRecords := make([][]string, 0, len(matrix))
	for i, row := range matrix {
		record := []string{columns[i]}
		for _, v := range row {
			record = append(record, formatFloat(v))
		}
		corrRecords = append(corrRecords, record)
	}
	if err := writeSheet(f, sheetCorrelations, corrHeaders, corrRecords); err != nil {
		return err
	}

	classRecords := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		classRecords = append(classRecords, classSummaryToRow(s))
	}
	if err := writeSheet(f, sheetClassSummary, classSummaryHeaders, classRecords); err != nil {
		return err
	}

	// Drop the default sheet created by excelize
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return apperrors.NewStorageError("failed to remove default sheet", err)
	}

	fullPath := filepath.Join(e.outputDir, WorkbookFile)
	e.logger.Info("writing Excel workbook",
		slog.String("path", fullPath),
		slog.Int("daily_rows", len(rows)))

	if err := f.SaveAs(fullPath); err != nil {
		return apperrors.NewStorageError("failed to save workbook", err).
			WithContext("path", fullPath)
	}
	return nil
}

func writeSheet(f *excelize.File, name string, headers []string, records [][]string) error {
	if _, err := f.NewSheet(name); err != nil {
		return apperrors.NewStorageError("failed to create sheet", err).
			WithContext("sheet", name)
	}

	if err := setRow(f, name, 1, headers); err != nil {
		return err
	}
	for i, record := range records {
		if err := setRow(f, name, i+2, record); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return apperrors.NewStorageError("failed to compute cell name", err).
				WithContext("sheet", sheet)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return apperrors.NewStorageError("failed to set cell value", err).
				WithContext("sheet", sheet).
				WithContext("cell", cell)
		}
	}
	return nil
}
