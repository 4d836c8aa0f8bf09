package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mlindqvist/catcost/internal/common"
	"github.com/mlindqvist/catcost/internal/model"
)

const projectColumns = `id, name, translator_id, client_id, source_language, target_language,
	mt_percentage, created_at, updated_at`

// CreateProject inserts a new project and returns it with its ID set.
func (s *SQLiteStorage) CreateProject(ctx context.Context, project *model.Project) (*model.Project, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateProject(project); err != nil {
		return nil, err
	}
	return s.createProjectTx(ctx, s.db, project)
}

func (s *SQLiteStorage) createProjectTx(ctx context.Context, q querier, project *model.Project) (*model.Project, error) {
	project.Normalize()

	query := `
		INSERT INTO projects (name, translator_id, client_id, source_language, target_language, mt_percentage)
		VALUES (?, ?, ?, ?, ?, ?)`
	result, err := q.ExecContext(ctx, query,
		project.Name, project.TranslatorID, project.ClientID,
		project.SourceLanguage, project.TargetLanguage, project.MTPercentage)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, fmt.Errorf("%w: project %q", common.ErrDuplicateEntry, project.Name)
		}
		return nil, fmt.Errorf("failed to insert project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get project id: %w", err)
	}

	saved := *project
	saved.ID = id
	slog.Debug("created project", "id", id, "name", saved.Name)
	return &saved, nil
}

// GetProject returns one project by ID, without its analysis snapshots.
func (s *SQLiteStorage) GetProject(ctx context.Context, id int64) (*model.Project, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getProjectTx(ctx, s.db, id)
}

func (s *SQLiteStorage) getProjectTx(ctx context.Context, q querier, id int64) (*model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	return scanProject(q.QueryRowContext(ctx, query, id))
}

// GetProjectByName returns one project by exact name.
func (s *SQLiteStorage) GetProjectByName(ctx context.Context, name string) (*model.Project, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	return s.getProjectByNameTx(ctx, s.db, name)
}

func (s *SQLiteStorage) getProjectByNameTx(ctx context.Context, q querier, name string) (*model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE name = ?`
	return scanProject(q.QueryRowContext(ctx, query, strings.TrimSpace(name)))
}

func scanProject(row *sql.Row) (*model.Project, error) {
	var p model.Project
	var clientID sql.NullInt64
	var source, target sql.NullString

	err := row.Scan(&p.ID, &p.Name, &p.TranslatorID, &clientID, &source, &target,
		&p.MTPercentage, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: project", common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}

	if clientID.Valid {
		v := clientID.Int64
		p.ClientID = &v
	}
	p.SourceLanguage = source.String
	p.TargetLanguage = target.String
	return &p, nil
}

// ListProjects returns projects newest first, optionally for one translator.
func (s *SQLiteStorage) ListProjects(ctx context.Context, translatorID *int64) ([]model.Project, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.listProjectsTx(ctx, s.db, translatorID)
}

func (s *SQLiteStorage) listProjectsTx(ctx context.Context, q querier, translatorID *int64) ([]model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC, id DESC`
	args := []any{}
	if translatorID != nil {
		query = `SELECT ` + projectColumns + ` FROM projects WHERE translator_id = ? ORDER BY created_at DESC, id DESC`
		args = append(args, *translatorID)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		var p model.Project
		var clientID sql.NullInt64
		var source, target sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &p.TranslatorID, &clientID, &source, &target,
			&p.MTPercentage, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		if clientID.Valid {
			v := clientID.Int64
			p.ClientID = &v
		}
		p.SourceLanguage = source.String
		p.TargetLanguage = target.String
		projects = append(projects, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}
	return projects, nil
}

// UpdateProject updates the mutable fields of an existing project.
func (s *SQLiteStorage) UpdateProject(ctx context.Context, project *model.Project) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateProject(project); err != nil {
		return err
	}
	return s.updateProjectTx(ctx, s.db, project)
}

func (s *SQLiteStorage) updateProjectTx(ctx context.Context, q querier, project *model.Project) error {
	project.Normalize()

	query := `
		UPDATE projects
		SET name = ?, client_id = ?, source_language = ?, target_language = ?,
			mt_percentage = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`
	result, err := q.ExecContext(ctx, query,
		project.Name, project.ClientID, project.SourceLanguage, project.TargetLanguage,
		project.MTPercentage, project.ID)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: project %d", common.ErrNotFound, project.ID)
	}
	return nil
}

// DeleteProject removes a project and, through cascading, its snapshots.
func (s *SQLiteStorage) DeleteProject(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return s.deleteProjectTx(ctx, s.db, id)
}

func (s *SQLiteStorage) deleteProjectTx(ctx context.Context, q querier, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: project %d", common.ErrNotFound, id)
	}

	slog.Info("deleted project", "id", id)
	return nil
}
