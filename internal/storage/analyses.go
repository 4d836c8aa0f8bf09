package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mlindqvist/catcost/internal/model"
)

// SaveAnalysis persists one file analysis as a JSON snapshot under a project.
// Re-importing the same filename replaces the previous snapshot.
func (s *SQLiteStorage) SaveAnalysis(ctx context.Context, projectID int64, analysis *model.FileAnalysis) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAnalysis(analysis); err != nil {
		return err
	}
	return s.saveAnalysisTx(ctx, s.db, projectID, analysis)
}

func (s *SQLiteStorage) saveAnalysisTx(ctx context.Context, q querier, projectID int64, analysis *model.FileAnalysis) error {
	blob, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to serialize analysis: %w", err)
	}

	if _, err := q.ExecContext(ctx,
		`DELETE FROM project_analyses WHERE project_id = ? AND filename = ?`,
		projectID, analysis.Filename); err != nil {
		return fmt.Errorf("failed to replace analysis: %w", err)
	}

	if _, err := q.ExecContext(ctx,
		`INSERT INTO project_analyses (project_id, filename, analysis) VALUES (?, ?, ?)`,
		projectID, analysis.Filename, string(blob)); err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}

	slog.Debug("saved analysis snapshot",
		"project", projectID,
		"file", analysis.Filename,
		"words", analysis.TotalWords())
	return nil
}

// GetAnalyses returns every stored snapshot for a project in import order.
func (s *SQLiteStorage) GetAnalyses(ctx context.Context, projectID int64) ([]model.FileAnalysis, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getAnalysesTx(ctx, s.db, projectID)
}

func (s *SQLiteStorage) getAnalysesTx(ctx context.Context, q querier, projectID int64) ([]model.FileAnalysis, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT analysis FROM project_analyses WHERE project_id = ? ORDER BY id`,
		projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	var analyses []model.FileAnalysis
	for rows.Next() {
		var blob string
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}

		var fa model.FileAnalysis
		if err := json.Unmarshal([]byte(blob), &fa); err != nil {
			return nil, fmt.Errorf("corrupt analysis snapshot for project %d: %w", projectID, err)
		}
		analyses = append(analyses, fa)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analyses: %w", err)
	}
	return analyses, nil
}

// DeleteAnalyses removes every snapshot for a project.
func (s *SQLiteStorage) DeleteAnalyses(ctx context.Context, projectID int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return s.deleteAnalysesTx(ctx, s.db, projectID)
}

func (s *SQLiteStorage) deleteAnalysesTx(ctx context.Context, q querier, projectID int64) error {
	if _, err := q.ExecContext(ctx,
		`DELETE FROM project_analyses WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("failed to delete analyses: %w", err)
	}
	return nil
}
