// Package trados parses semicolon-delimited Trados analysis reports.
//
// The report format has two physical layouts of the same logical table: one
// with a per-category Characters column (5 fields per category) and one
// without (4 fields). Nothing in the file says which layout is in use, so
// detection is heuristic: it always produces a best-effort mapping, and a
// separate validation step rejects mappings that cannot be trusted.
package trados

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/mlindqvist/catcost/internal/common"
	"github.com/mlindqvist/catcost/internal/model"
)

// FormatType identifies which physical layout a report uses.
type FormatType string

const (
	// FormatWithCharacters is the 5-fields-per-category layout.
	FormatWithCharacters FormatType = "with_characters"
	// FormatWithoutCharacters is the 4-fields-per-category layout.
	FormatWithoutCharacters FormatType = "without_characters"
)

// Reports with per-category Characters columns run past this column count;
// the sub-header count corroborates when categories are missing and the
// total alone would be ambiguous.
const (
	withCharactersColumnThreshold = 45
	charactersSubHeaderThreshold  = 6
)

// Field names within a category block, in physical column order.
const (
	FieldSegments   = "segments"
	FieldWords      = "words"
	FieldCharacters = "characters"
	FieldPlaceables = "placeables"
	FieldPercent    = "percent"
)

// categorySeparator splits header line 1 into category blocks. Blocks are
// separated by at least 3 consecutive semicolons.
var categorySeparator = regexp.MustCompile(`;{3,}`)

// ColumnMapping is the resolved column-index table for one report.
type ColumnMapping struct {
	Categories   map[model.MatchCategory]map[string]int
	FixedColumns map[string]int
	TotalColumns map[string]int
	Format       FormatType
	ColumnCount  int
}

// HasCharacters reports whether the layout carries per-category characters.
func (m *ColumnMapping) HasCharacters() bool {
	return m.Format == FormatWithCharacters
}

// FieldsPerCategory returns the block width for this layout.
func (m *ColumnMapping) FieldsPerCategory() int {
	if m.HasCharacters() {
		return 5
	}
	return 4
}

// CategoryColumn returns the column index for a category field, or -1 when
// the field is not mapped.
func (m *ColumnMapping) CategoryColumn(category model.MatchCategory, field string) int {
	if fields, ok := m.Categories[category]; ok {
		if idx, ok := fields[field]; ok {
			return idx
		}
	}
	return -1
}

// Validate checks the mapping post-conditions: a File column, at least one
// mapped category, and every recorded index inside the physical table.
// Detection itself never fails; this is the only rejection point.
func (m *ColumnMapping) Validate(totalColumns int) error {
	if _, ok := m.FixedColumns["File"]; !ok {
		return fmt.Errorf("%w: no File column", common.ErrInvalidMapping)
	}
	if len(m.Categories) == 0 {
		return fmt.Errorf("%w: no categories mapped", common.ErrInvalidMapping)
	}

	check := func(idx int) error {
		if idx < 0 || idx >= totalColumns {
			return fmt.Errorf("%w: column index %d out of bounds [0,%d)", common.ErrInvalidMapping, idx, totalColumns)
		}
		return nil
	}
	for _, idx := range m.FixedColumns {
		if err := check(idx); err != nil {
			return err
		}
	}
	for _, idx := range m.TotalColumns {
		if err := check(idx); err != nil {
			return err
		}
	}
	for _, fields := range m.Categories {
		for _, idx := range fields {
			if err := check(idx); err != nil {
				return err
			}
		}
	}
	return nil
}

// DetectFormat classifies the layout from the second header line. The
// decision is deliberately over-determined: the absolute column count is the
// primary signal and the count of literal "Characters" sub-headers the
// corroborating one, because the number of categories present varies between
// exports and a bare column threshold misfires when some are missing.
func DetectFormat(headerLine2 string) FormatType {
	headers := splitColumns(headerLine2)

	charactersCount := 0
	for _, h := range headers {
		if strings.Contains(h, "Characters") {
			charactersCount++
		}
	}

	if len(headers) >= withCharactersColumnThreshold || charactersCount >= charactersSubHeaderThreshold {
		slog.Debug("detected layout with characters columns",
			"columns", len(headers), "characters_headers", charactersCount)
		return FormatWithCharacters
	}
	slog.Debug("detected layout without characters columns",
		"columns", len(headers), "characters_headers", charactersCount)
	return FormatWithoutCharacters
}

// ExtractCategoryNames pulls the ordered category block names from the first
// header line, dropping empty, File, and Total tokens.
func ExtractCategoryNames(headerLine1 string) []string {
	var names []string
	for _, part := range categorySeparator.Split(headerLine1, -1) {
		name := strings.TrimSpace(strings.ReplaceAll(part, ";", ""))
		if name == "" || name == "Total" || name == "File" {
			continue
		}
		names = append(names, name)
	}
	return names
}

// MapColumns builds the full column mapping from the two header lines.
// It never fails: unknown categories are skipped, missing fixed columns get
// defaults. Callers must run Validate before extracting rows.
func MapColumns(headerLine1, headerLine2 string) *ColumnMapping {
	format := DetectFormat(headerLine2)
	categoryNames := ExtractCategoryNames(headerLine1)
	headers := splitColumns(headerLine2)

	mapping := &ColumnMapping{
		Format:       format,
		ColumnCount:  len(headers),
		Categories:   make(map[model.MatchCategory]map[string]int),
		FixedColumns: make(map[string]int),
		TotalColumns: make(map[string]int),
	}

	categoryFields := []string{FieldSegments, FieldWords, FieldPlaceables, FieldPercent}
	if format == FormatWithCharacters {
		categoryFields = []string{FieldSegments, FieldWords, FieldCharacters, FieldPlaceables, FieldPercent}
	}

	// The fixed columns (File, Tagging Errors, Chars/Word) always sit in the
	// first few physical columns.
	for i, header := range headers[:min(5, len(headers))] {
		lower := strings.ToLower(header)
		switch {
		case strings.Contains(lower, "file"):
			mapping.FixedColumns["File"] = i
		case strings.Contains(lower, "tagging") && strings.Contains(lower, "error"):
			mapping.FixedColumns["Tagging Errors"] = i
		case strings.Contains(lower, "chars") && strings.Contains(lower, "word"):
			mapping.FixedColumns["Chars/Word"] = i
		}
	}
	if _, ok := mapping.FixedColumns["File"]; !ok {
		slog.Warn("File column not found in headers, defaulting to column 0")
		mapping.FixedColumns["File"] = 0
	}

	// Category blocks start right after the 3 fixed columns. Unknown category
	// names consume their block width without producing a mapping.
	col := 3
	for _, name := range categoryNames {
		category, known := model.CategoryFromHeader(name)
		if !known {
			slog.Warn("skipping unknown category", "category", name, "columns", len(categoryFields))
			col += len(categoryFields)
			continue
		}

		fields := make(map[string]int, len(categoryFields))
		for _, field := range categoryFields {
			if col < len(headers) {
				fields[field] = col
				col++
			} else {
				slog.Warn("not enough columns for category field", "category", name, "field", field)
			}
		}
		mapping.Categories[category] = fields
	}

	// Whatever remains is optimistically treated as the trailing Total block
	// in fixed field order.
	remaining := len(headers) - col
	if remaining >= 3 {
		mapping.TotalColumns[FieldSegments] = col
		mapping.TotalColumns[FieldWords] = col + 1
		mapping.TotalColumns[FieldPlaceables] = col + 2
		if remaining >= 4 {
			mapping.TotalColumns[FieldCharacters] = col + 3
		}
	}

	slog.Debug("mapped report columns",
		"format", format,
		"categories", len(mapping.Categories),
		"columns", len(headers))
	return mapping
}

// splitColumns splits a raw line into trimmed cells.
func splitColumns(line string) []string {
	cells := strings.Split(line, ";")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}
