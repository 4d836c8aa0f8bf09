// Package storage provides the data persistence layer for catcost.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mlindqvist/catcost/internal/model"
)

// Validation errors.
var (
	ErrNilContext        = errors.New("context cannot be nil")
	ErrEmptyString       = errors.New("string parameter cannot be empty")
	ErrNilParameter      = errors.New("parameter cannot be nil")
	ErrInvalidTranslator = errors.New("invalid translator")
	ErrInvalidClient     = errors.New("invalid client")
	ErrInvalidRate       = errors.New("invalid rate")
	ErrInvalidProject    = errors.New("invalid project")
	ErrInvalidAnalysis   = errors.New("invalid analysis")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateTranslator(translator *model.Translator) error {
	if translator == nil {
		return fmt.Errorf("%w: translator", ErrNilParameter)
	}
	if err := translator.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTranslator, err)
	}
	return nil
}

func validateClient(client *model.Client) error {
	if client == nil {
		return fmt.Errorf("%w: client", ErrNilParameter)
	}
	if err := client.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidClient, err)
	}
	return nil
}

func validateRate(rate *model.Rate) error {
	if rate == nil {
		return fmt.Errorf("%w: rate", ErrNilParameter)
	}
	if err := rate.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRate, err)
	}
	return nil
}

func validateProject(project *model.Project) error {
	if project == nil {
		return fmt.Errorf("%w: project", ErrNilParameter)
	}
	if err := project.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProject, err)
	}
	return nil
}

func validateAnalysis(analysis *model.FileAnalysis) error {
	if analysis == nil {
		return fmt.Errorf("%w: analysis", ErrNilParameter)
	}
	if !analysis.Valid() {
		return fmt.Errorf("%w: needs filename, language pair and at least one word", ErrInvalidAnalysis)
	}
	return nil
}
