package model

import (
	"fmt"
	"strings"
	"time"
)

// DefaultMTPercentage is the share of 100%-match words assumed to be
// machine-translated when a report carries no explicit breakdown.
const DefaultMTPercentage = 70

// Project groups imported analyses under a translator, an optional client,
// and a language pair, carrying its own MT-percentage knob.
type Project struct {
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ClientID       *int64
	Name           string
	SourceLanguage string
	TargetLanguage string
	Analysis       *ProjectAnalysis
	ID             int64
	TranslatorID   int64
	MTPercentage   int
}

// NewProject creates a project with defaults applied.
func NewProject(name string, translatorID int64) *Project {
	return &Project{
		Name:         name,
		TranslatorID: translatorID,
		MTPercentage: DefaultMTPercentage,
		Analysis:     NewProjectAnalysis(name),
	}
}

// Normalize clamps the MT percentage into [0,100] and guarantees an analysis
// container exists.
func (p *Project) Normalize() {
	p.MTPercentage = min(100, max(0, p.MTPercentage))
	if p.Analysis == nil {
		p.Analysis = NewProjectAnalysis(p.Name)
	}
}

// Validate checks required fields.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("project name is required")
	}
	if p.TranslatorID <= 0 {
		return fmt.Errorf("translator id is required")
	}
	return nil
}

// LanguagePairCode returns the project's pair as "source>target".
func (p *Project) LanguagePairCode() string {
	return fmt.Sprintf("%s>%s", p.SourceLanguage, p.TargetLanguage)
}

// HasAnalysis reports whether at least one file has been imported.
func (p *Project) HasAnalysis() bool {
	return p.Analysis != nil && p.Analysis.FileCount() > 0
}

// TotalWords returns the project word count across all imported files.
func (p *Project) TotalWords() int {
	if !p.HasAnalysis() {
		return 0
	}
	return p.Analysis.TotalWords()
}
