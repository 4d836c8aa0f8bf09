package trados

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlindqvist/catcost/internal/common"
	"github.com/mlindqvist/catcost/internal/model"
)

var allCategoryHeaders = []string{
	"Context Match", "Repetitions", "100%", "95% - 99%",
	"85% - 94%", "75% - 84%", "50% - 74%", "No Match",
}

// buildHeaders constructs the two header lines the way Trados exports them:
// line 1 names each category block once, line 2 names every physical column.
func buildHeaders(t *testing.T, withCharacters bool, categories []string) (string, string) {
	t.Helper()

	fields := []string{"Segments", "Words", "Placeables", "Percent"}
	if withCharacters {
		fields = []string{"Segments", "Words", "Characters", "Placeables", "Percent"}
	}

	line1 := "File;;"
	for _, cat := range categories {
		line1 += ";" + cat + strings.Repeat(";", len(fields)-1)
	}
	line1 += ";Total" + strings.Repeat(";", len(fields)-1)

	cols := []string{"File", "Tagging Errors", "Chars/Word"}
	for range categories {
		cols = append(cols, fields...)
	}
	cols = append(cols, "Segments", "Words", "Placeables")
	if withCharacters {
		cols = append(cols, "Characters")
	}
	return line1, strings.Join(cols, ";")
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name           string
		withCharacters bool
		categories     []string
		want           FormatType
	}{
		{"full report with characters", true, allCategoryHeaders, FormatWithCharacters},
		{"full report without characters", false, allCategoryHeaders, FormatWithoutCharacters},
		// With categories missing the column count drops below the
		// threshold; the Characters sub-header count still decides.
		{"partial report with characters", true, allCategoryHeaders[:6], FormatWithCharacters},
		{"partial report without characters", false, allCategoryHeaders[:4], FormatWithoutCharacters},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, line2 := buildHeaders(t, tt.withCharacters, tt.categories)
			assert.Equal(t, tt.want, DetectFormat(line2))
		})
	}
}

func TestExtractCategoryNames(t *testing.T) {
	line1, _ := buildHeaders(t, true, allCategoryHeaders)
	names := ExtractCategoryNames(line1)
	assert.Equal(t, allCategoryHeaders, names)
}

func TestExtractCategoryNames_DropsFileAndTotal(t *testing.T) {
	names := ExtractCategoryNames("File;;;Context Match;;;;;Total;;;;")
	assert.Equal(t, []string{"Context Match"}, names)
}

func TestMapColumns_WithCharacters(t *testing.T) {
	line1, line2 := buildHeaders(t, true, allCategoryHeaders)
	mapping := MapColumns(line1, line2)

	assert.Equal(t, FormatWithCharacters, mapping.Format)
	assert.Equal(t, 5, mapping.FieldsPerCategory())
	assert.Equal(t, 0, mapping.FixedColumns["File"])
	assert.Equal(t, 1, mapping.FixedColumns["Tagging Errors"])
	assert.Equal(t, 2, mapping.FixedColumns["Chars/Word"])

	require.Len(t, mapping.Categories, 8)
	// First category block starts immediately after the fixed columns.
	assert.Equal(t, 3, mapping.CategoryColumn(model.CategoryContextMatch, FieldSegments))
	assert.Equal(t, 4, mapping.CategoryColumn(model.CategoryContextMatch, FieldWords))
	assert.Equal(t, 5, mapping.CategoryColumn(model.CategoryContextMatch, FieldCharacters))
	assert.Equal(t, 6, mapping.CategoryColumn(model.CategoryContextMatch, FieldPlaceables))
	assert.Equal(t, 7, mapping.CategoryColumn(model.CategoryContextMatch, FieldPercent))
	// Every category maps a characters field in this layout.
	for _, c := range model.StandardCategories() {
		assert.GreaterOrEqual(t, mapping.CategoryColumn(c, FieldCharacters), 0, "category %s", c)
	}

	// Trailing Total block.
	assert.Equal(t, 43, mapping.TotalColumns[FieldSegments])
	assert.Equal(t, 44, mapping.TotalColumns[FieldWords])
	assert.Equal(t, 45, mapping.TotalColumns[FieldPlaceables])
	assert.Equal(t, 46, mapping.TotalColumns[FieldCharacters])

	require.NoError(t, mapping.Validate(mapping.ColumnCount))
}

func TestMapColumns_WithoutCharacters(t *testing.T) {
	line1, line2 := buildHeaders(t, false, allCategoryHeaders)
	mapping := MapColumns(line1, line2)

	assert.Equal(t, FormatWithoutCharacters, mapping.Format)
	assert.Equal(t, 4, mapping.FieldsPerCategory())
	require.Len(t, mapping.Categories, 8)
	for _, c := range model.StandardCategories() {
		assert.Equal(t, -1, mapping.CategoryColumn(c, FieldCharacters), "category %s must not map characters", c)
		assert.GreaterOrEqual(t, mapping.CategoryColumn(c, FieldWords), 0)
	}
	require.NoError(t, mapping.Validate(mapping.ColumnCount))
}

func TestMapColumns_UnknownCategorySkipsBlock(t *testing.T) {
	categories := []string{"Context Match", "Perfect Match", "Repetitions"}
	line1, line2 := buildHeaders(t, false, categories)
	mapping := MapColumns(line1, line2)

	// "Perfect Match" is unknown: its 4 columns are consumed but unmapped.
	require.Len(t, mapping.Categories, 2)
	assert.Equal(t, 3, mapping.CategoryColumn(model.CategoryContextMatch, FieldSegments))
	assert.Equal(t, 11, mapping.CategoryColumn(model.CategoryRepetitions, FieldSegments))
}

func TestMapColumns_MissingFileColumnDefaultsToZero(t *testing.T) {
	line1 := ";;;Context Match;;;;No Match;;;;Total;;;"
	line2 := "Name;Tagging Errors;Chars/Word;Segments;Words;Placeables;Percent;Segments;Words;Placeables;Percent;Segments;Words;Placeables"
	mapping := MapColumns(line1, line2)
	assert.Equal(t, 0, mapping.FixedColumns["File"])
}

func TestColumnMapping_Validate(t *testing.T) {
	tests := []struct {
		setup   func(*ColumnMapping)
		name    string
		wantErr bool
	}{
		{
			name:    "valid mapping",
			setup:   func(_ *ColumnMapping) {},
			wantErr: false,
		},
		{
			name: "missing file column",
			setup: func(m *ColumnMapping) {
				delete(m.FixedColumns, "File")
			},
			wantErr: true,
		},
		{
			name: "no categories",
			setup: func(m *ColumnMapping) {
				m.Categories = map[model.MatchCategory]map[string]int{}
			},
			wantErr: true,
		},
		{
			name: "index out of bounds",
			setup: func(m *ColumnMapping) {
				m.Categories[model.CategoryNoMatch][FieldWords] = 999
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line1, line2 := buildHeaders(t, true, allCategoryHeaders)
			mapping := MapColumns(line1, line2)
			tt.setup(mapping)

			err := mapping.Validate(mapping.ColumnCount)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrInvalidMapping)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
