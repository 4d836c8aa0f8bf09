package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// CategoryStats holds the per-category counters parsed from one analysis row.
// Counts are clamped to zero and percent to [0,100] on construction. The
// TM/MT/NT breakdown is only meaningful for the 100% category; attaching it
// to any other category discards it.
type CategoryStats struct {
	TMWordCount *int          `json:"tm_words,omitempty"`
	MTWordCount *int          `json:"mt_words,omitempty"`
	NTWordCount *int          `json:"nt_words,omitempty"`
	Category    MatchCategory `json:"-"`
	Segments    int           `json:"segments"`
	Words       int           `json:"words"`
	Characters  int           `json:"characters"`
	Placeables  int           `json:"placeables"`
	Percent     float64       `json:"percent"`
}

// NewCategoryStats builds a normalized CategoryStats for a category.
func NewCategoryStats(category MatchCategory, segments, words, characters, placeables int, percent float64) CategoryStats {
	s := CategoryStats{
		Category:   category,
		Segments:   segments,
		Words:      words,
		Characters: characters,
		Placeables: placeables,
		Percent:    percent,
	}
	s.normalize()
	return s
}

func (s *CategoryStats) normalize() {
	s.Segments = max(0, s.Segments)
	s.Words = max(0, s.Words)
	s.Characters = max(0, s.Characters)
	s.Placeables = max(0, s.Placeables)
	if s.Percent < 0 {
		s.Percent = 0
	}
	if s.Percent > 100 {
		s.Percent = 100
	}

	if !s.Category.SupportsMTBreakdown() {
		s.TMWordCount = nil
		s.MTWordCount = nil
		s.NTWordCount = nil
		return
	}
	s.TMWordCount = clampOptional(s.TMWordCount)
	s.MTWordCount = clampOptional(s.MTWordCount)
	s.NTWordCount = clampOptional(s.NTWordCount)
}

func clampOptional(v *int) *int {
	if v == nil {
		return nil
	}
	n := max(0, *v)
	return &n
}

// SetBreakdown attaches an explicit TM/MT/NT word split. It is a no-op for
// categories without breakdown support.
func (s *CategoryStats) SetBreakdown(tm, mt, nt int) {
	if !s.Category.SupportsMTBreakdown() {
		return
	}
	s.TMWordCount = &tm
	s.MTWordCount = &mt
	s.NTWordCount = &nt
	s.normalize()
}

// HasBreakdown reports whether an explicit TM/MT breakdown is attached.
func (s CategoryStats) HasBreakdown() bool {
	return s.TMWordCount != nil || s.MTWordCount != nil || s.NTWordCount != nil
}

// TMWords returns the words billed at the TM rate. Explicit breakdowns win;
// otherwise exact matches are split by mtPercentage and every other category
// is treated as fully TM-sourced.
func (s CategoryStats) TMWords(mtPercentage int) int {
	if s.HasBreakdown() && s.TMWordCount != nil {
		return *s.TMWordCount
	}
	if s.Category.SupportsMTBreakdown() {
		return s.Words * (100 - clampPercentage(mtPercentage)) / 100
	}
	return s.Words
}

// MTWords returns the words billed at the MT rate.
func (s CategoryStats) MTWords(mtPercentage int) int {
	if s.HasBreakdown() && s.MTWordCount != nil {
		return *s.MTWordCount
	}
	if s.Category.SupportsMTBreakdown() {
		return s.Words * clampPercentage(mtPercentage) / 100
	}
	return 0
}

func clampPercentage(p int) int {
	return min(100, max(0, p))
}

// FileAnalysis is the parsed analysis for one source file. The category map
// is always dense: every standard category is present, zero-valued when the
// report carried nothing for it.
type FileAnalysis struct {
	Categories     map[MatchCategory]CategoryStats `json:"categories"`
	Filename       string                          `json:"filename"`
	SourceLanguage string                          `json:"source_language"`
	TargetLanguage string                          `json:"target_language"`
	CATTool        string                          `json:"cat_tool,omitempty"`
	FilePath       string                          `json:"file_path,omitempty"`
	AnalysisDate   string                          `json:"analysis_date,omitempty"`
}

// NewFileAnalysis creates a FileAnalysis with all standard categories
// zero-initialized.
func NewFileAnalysis(filename, sourceLanguage, targetLanguage string) *FileAnalysis {
	fa := &FileAnalysis{
		Filename:       filename,
		SourceLanguage: sourceLanguage,
		TargetLanguage: targetLanguage,
		Categories:     make(map[MatchCategory]CategoryStats, len(StandardCategories())),
	}
	for _, c := range StandardCategories() {
		fa.Categories[c] = NewCategoryStats(c, 0, 0, 0, 0, 0)
	}
	return fa
}

// Category returns the stats for a category, zero-valued if absent.
func (f *FileAnalysis) Category(c MatchCategory) CategoryStats {
	if s, ok := f.Categories[c]; ok {
		return s
	}
	return NewCategoryStats(c, 0, 0, 0, 0, 0)
}

// SetCategory stores stats under a category, re-stamping the key onto the
// value so the map key and the embedded category never diverge.
func (f *FileAnalysis) SetCategory(c MatchCategory, stats CategoryStats) {
	stats.Category = c
	stats.normalize()
	f.Categories[c] = stats
}

// TotalWords sums words across all standard categories.
func (f *FileAnalysis) TotalWords() int {
	total := 0
	for _, c := range StandardCategories() {
		total += f.Category(c).Words
	}
	return total
}

// TotalSegments sums segments across all standard categories.
func (f *FileAnalysis) TotalSegments() int {
	total := 0
	for _, c := range StandardCategories() {
		total += f.Category(c).Segments
	}
	return total
}

// LanguagePairCode returns the pair as "source>target".
func (f *FileAnalysis) LanguagePairCode() string {
	return fmt.Sprintf("%s>%s", f.SourceLanguage, f.TargetLanguage)
}

// Valid reports whether the analysis is usable for pricing: a filename, both
// language codes, and at least one counted word.
func (f *FileAnalysis) Valid() bool {
	return f.Filename != "" &&
		f.SourceLanguage != "" &&
		f.TargetLanguage != "" &&
		f.TotalWords() > 0
}

// fileAnalysisJSON is the stable wire shape for persisted snapshots.
type fileAnalysisJSON struct {
	Categories     map[string]CategoryStats `json:"categories"`
	Filename       string                   `json:"filename"`
	SourceLanguage string                   `json:"source_language"`
	TargetLanguage string                   `json:"target_language"`
	CATTool        string                   `json:"cat_tool,omitempty"`
	FilePath       string                   `json:"file_path,omitempty"`
	AnalysisDate   string                   `json:"analysis_date,omitempty"`
}

// MarshalJSON serializes with category display names as keys.
func (f *FileAnalysis) MarshalJSON() ([]byte, error) {
	out := fileAnalysisJSON{
		Filename:       f.Filename,
		SourceLanguage: f.SourceLanguage,
		TargetLanguage: f.TargetLanguage,
		CATTool:        f.CATTool,
		FilePath:       f.FilePath,
		AnalysisDate:   f.AnalysisDate,
		Categories:     make(map[string]CategoryStats, len(f.Categories)),
	}
	for c, s := range f.Categories {
		out.Categories[string(c)] = s
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a snapshot, keeping the category map dense and
// dropping unknown category names.
func (f *FileAnalysis) UnmarshalJSON(data []byte) error {
	var in fileAnalysisJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("failed to decode file analysis: %w", err)
	}

	restored := NewFileAnalysis(in.Filename, in.SourceLanguage, in.TargetLanguage)
	restored.CATTool = in.CATTool
	restored.FilePath = in.FilePath
	restored.AnalysisDate = in.AnalysisDate
	for name, stats := range in.Categories {
		if c, ok := CategoryFromName(name); ok {
			restored.SetCategory(c, stats)
		}
	}

	*f = *restored
	return nil
}

// ProjectAnalysis is an ordered collection of file analyses under one
// project name.
type ProjectAnalysis struct {
	ProjectName string          `json:"project_name"`
	Files       []*FileAnalysis `json:"files"`
}

// NewProjectAnalysis creates an empty project analysis.
func NewProjectAnalysis(name string) *ProjectAnalysis {
	return &ProjectAnalysis{ProjectName: name}
}

// AddFile appends a file analysis to the project.
func (p *ProjectAnalysis) AddFile(fa *FileAnalysis) {
	p.Files = append(p.Files, fa)
}

// FileCount returns the number of files in the project.
func (p *ProjectAnalysis) FileCount() int {
	return len(p.Files)
}

// TotalWords sums words across every file.
func (p *ProjectAnalysis) TotalWords() int {
	total := 0
	for _, f := range p.Files {
		total += f.TotalWords()
	}
	return total
}

// TotalSegments sums segments across every file.
func (p *ProjectAnalysis) TotalSegments() int {
	total := 0
	for _, f := range p.Files {
		total += f.TotalSegments()
	}
	return total
}

// AggregateCategories sums per-category stats across all files and
// recomputes percent as each category's share of project words. A TM/MT
// breakdown is carried into the aggregate only when at least one file had
// one; otherwise downstream pricing falls back to the percentage split.
func (p *ProjectAnalysis) AggregateCategories() map[MatchCategory]CategoryStats {
	projectWords := p.TotalWords()
	aggregated := make(map[MatchCategory]CategoryStats, len(StandardCategories()))

	for _, category := range StandardCategories() {
		var segments, words, characters, placeables int
		var tmWords, mtWords, ntWords int
		hasBreakdown := false

		for _, file := range p.Files {
			stats := file.Category(category)
			segments += stats.Segments
			words += stats.Words
			characters += stats.Characters
			placeables += stats.Placeables

			if stats.HasBreakdown() {
				hasBreakdown = true
				tmWords += optionalValue(stats.TMWordCount)
				mtWords += optionalValue(stats.MTWordCount)
				ntWords += optionalValue(stats.NTWordCount)
			}
		}

		percent := 0.0
		if projectWords > 0 {
			percent = float64(words) / float64(projectWords) * 100
		}

		stats := NewCategoryStats(category, segments, words, characters, placeables, percent)
		if hasBreakdown {
			stats.SetBreakdown(tmWords, mtWords, ntWords)
		}
		aggregated[category] = stats
	}

	return aggregated
}

// Aggregate flattens the project into a single FileAnalysis carrying the
// aggregated category stats, named after the project. The language pair is
// taken from the first file.
func (p *ProjectAnalysis) Aggregate() *FileAnalysis {
	if len(p.Files) == 0 {
		return NewFileAnalysis("", "", "")
	}

	first := p.Files[0]
	combined := NewFileAnalysis(
		fmt.Sprintf("%s (%d files)", p.ProjectName, len(p.Files)),
		first.SourceLanguage,
		first.TargetLanguage,
	)
	combined.CATTool = first.CATTool
	combined.AnalysisDate = time.Now().Format("2006-01-02")

	for category, stats := range p.AggregateCategories() {
		combined.SetCategory(category, stats)
	}
	return combined
}

func optionalValue(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
