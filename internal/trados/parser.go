package trados

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mlindqvist/catcost/internal/common"
	"github.com/mlindqvist/catcost/internal/model"
)

// Parser reads Trados analysis reports into file analyses.
type Parser struct{}

// NewParser creates a new report parser.
func NewParser() *Parser {
	return &Parser{}
}

// CATTool names the tool whose exports this parser understands.
func (p *Parser) CATTool() string {
	return "Trados"
}

// Sniff reports whether the first two lines look like a Trados analysis
// report: category names in line 1, semicolon delimiters, column headers in
// line 2, and the multi-semicolon category separators.
func (p *Parser) Sniff(firstLine, secondLine string) bool {
	categoryIndicators := []string{
		"Context Match", "Repetitions", "100%", "95% - 99%", "No Match", "Total",
	}
	hasCategories := false
	for _, ind := range categoryIndicators {
		if strings.Contains(firstLine, ind) {
			hasCategories = true
			break
		}
	}

	headerIndicators := []string{"File", "Segments", "Words", "Percent"}
	hasHeaders := false
	for _, ind := range headerIndicators {
		if strings.Contains(secondLine, ind) {
			hasHeaders = true
			break
		}
	}

	return hasCategories &&
		hasHeaders &&
		strings.Contains(firstLine, ";") &&
		strings.Contains(secondLine, ";") &&
		strings.Contains(firstLine, ";;;")
}

// ParseFile parses a whole report. Every data row becomes one FileAnalysis;
// unusable rows are skipped with a warning, never failing the file. The file
// itself fails only on undecodable content, a missing header pair, or a
// column mapping that does not validate.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]*model.FileAnalysis, error) {
	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	content, err := DecodeReport(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}

	lines := splitLines(content)
	if len(lines) < 3 {
		return nil, fmt.Errorf("%w: report needs 2 header lines and at least 1 data row", common.ErrNotAnalysisReport)
	}

	mapping := MapColumns(lines[0], lines[1])
	if err := mapping.Validate(mapping.ColumnCount); err != nil {
		return nil, err
	}

	var analyses []*model.FileAnalysis
	for i, line := range lines[2:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fa := p.extractRow(line, mapping)
		if fa == nil {
			slog.Warn("skipping unusable data row", "row", i+3)
			continue
		}
		fa.CATTool = p.CATTool()
		analyses = append(analyses, fa)
	}

	if len(analyses) == 0 {
		return nil, fmt.Errorf("%w: no usable data rows", common.ErrNotAnalysisReport)
	}

	slog.Info("parsed analysis report",
		"files", len(analyses),
		"format", mapping.Format,
		"categories", len(mapping.Categories))
	return analyses, nil
}

// extractRow converts one data row into a FileAnalysis. Returns nil when the
// row is unusable: missing filename or languages, or zero words total.
func (p *Parser) extractRow(line string, mapping *ColumnMapping) *model.FileAnalysis {
	cells := splitCells(line)
	if len(cells) < 3 {
		return nil
	}

	filename, source, target := p.extractFileInfo(cells, mapping)
	fa := model.NewFileAnalysis(filename, source, target)

	for category := range mapping.Categories {
		segments := safeInt(cells, mapping.CategoryColumn(category, FieldSegments))
		words := safeInt(cells, mapping.CategoryColumn(category, FieldWords))
		placeables := safeInt(cells, mapping.CategoryColumn(category, FieldPlaceables))
		percent := safeFloat(cells, mapping.CategoryColumn(category, FieldPercent))

		characters := 0
		if mapping.HasCharacters() {
			characters = safeInt(cells, mapping.CategoryColumn(category, FieldCharacters))
		}

		fa.SetCategory(category, model.NewCategoryStats(category, segments, words, characters, placeables, percent))
	}

	if !fa.Valid() {
		return nil
	}
	return fa
}

// extractFileInfo pulls filename and language pair from the File cell. The
// cell format is "<name> | <src>><tgt>"; when the pattern is absent the
// languages are recovered from the bare filename if possible, otherwise left
// empty for the caller to treat as unknown.
func (p *Parser) extractFileInfo(cells []string, mapping *ColumnMapping) (filename, source, target string) {
	fileCol := mapping.FixedColumns["File"]
	fileCell := ""
	if fileCol < len(cells) {
		fileCell = strings.Trim(cells[fileCol], ` "`)
	}

	filename = fileCell
	if before, after, found := strings.Cut(fileCell, " | "); found {
		filename = strings.TrimSpace(before)
		if src, tgt, ok := splitLanguagePair(after); ok {
			return filename, src, tgt
		}
	}

	if src, tgt, ok := languagePairFromFilename(filename); ok {
		return filename, src, tgt
	}
	return filename, "", ""
}

// languagePairFromFilename recovers a language pair from filename patterns
// like "file_en>de" or "file en>de". Returns false when nothing plausible is
// found.
func languagePairFromFilename(filename string) (source, target string, ok bool) {
	for _, sep := range []string{" | ", "_", "-", " "} {
		if !strings.Contains(filename, sep) {
			continue
		}
		parts := strings.Split(filename, sep)
		if len(parts) < 2 {
			continue
		}
		if src, tgt, valid := splitLanguagePair(parts[len(parts)-1]); valid {
			return src, tgt, true
		}
	}
	return "", "", false
}

// splitLanguagePair parses "src>tgt" with 2-5 character codes.
func splitLanguagePair(s string) (source, target string, ok bool) {
	before, after, found := strings.Cut(strings.TrimSpace(s), ">")
	if !found {
		return "", "", false
	}
	source = strings.ToLower(strings.TrimSpace(before))
	target = strings.ToLower(strings.TrimSpace(after))
	if len(source) < 2 || len(source) > 5 || len(target) < 2 || len(target) > 5 {
		return "", "", false
	}
	return source, target, true
}

// safeInt reads an integer cell, coercing blanks and garbage to 0. Exports
// from some tool versions leave cells for zero-activity categories empty, so
// failing the row here would lose nothing but the file. Float-looking values
// like "12.0" truncate.
func safeInt(cells []string, index int) int {
	if index < 0 || index >= len(cells) {
		return 0
	}
	value := strings.TrimSpace(cells[index])
	if value == "" {
		return 0
	}

	if strings.Contains(value, ".") {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			slog.Warn("could not convert cell to int", "value", value)
			return 0
		}
		return int(f)
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("could not convert cell to int", "value", value)
		return 0
	}
	return n
}

// safeFloat reads a float cell, coercing blanks and garbage to 0.
func safeFloat(cells []string, index int) float64 {
	if index < 0 || index >= len(cells) {
		return 0
	}
	value := strings.TrimSpace(cells[index])
	if value == "" {
		return 0
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		slog.Warn("could not convert cell to float", "value", value)
		return 0
	}
	return f
}

// splitCells splits a data row into cells with surrounding quotes stripped.
func splitCells(line string) []string {
	cells := strings.Split(line, ";")
	for i := range cells {
		cells[i] = strings.Trim(cells[i], ` "`)
	}
	return cells
}

// splitLines splits report content into trimmed, non-empty-tail lines.
func splitLines(content string) []string {
	rawLines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(rawLines))
	for _, l := range rawLines {
		lines = append(lines, strings.TrimRight(l, "\r"))
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
