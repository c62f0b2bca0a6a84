package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/planops/internal/db"
	"github.com/alexanderramin/planops/internal/domain"
)

// SQLiteCatalogRepo implements CatalogRepo. Sections and rules are JSON columns.
type SQLiteCatalogRepo struct {
	db db.DBTX
}

func NewSQLiteCatalogRepo(conn db.DBTX) *SQLiteCatalogRepo {
	return &SQLiteCatalogRepo{db: conn}
}

func (r *SQLiteCatalogRepo) Get(ctx context.Context, id string) (*domain.RuleCatalog, error) {
	query := `SELECT id, sections, tasks, updated_by, updated_at FROM rule_catalogs WHERE id = ?`
	c, err := scanCatalog(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("rule catalog %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return c, nil
}

func (r *SQLiteCatalogRepo) List(ctx context.Context) ([]*domain.RuleCatalog, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, sections, tasks, updated_by, updated_at FROM rule_catalogs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing rule catalogs: %w", err)
	}
	defer rows.Close()

	var out []*domain.RuleCatalog
	for rows.Next() {
		c, err := scanCatalog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rule catalogs: %w", err)
	}
	return out, nil
}

// Save inserts or replaces the catalog with the given id.
func (r *SQLiteCatalogRepo) Save(ctx context.Context, c *domain.RuleCatalog) error {
	sections, err := encodeDocument(c.Sections)
	if err != nil {
		return fmt.Errorf("encoding sections for catalog %s: %w", c.ID, err)
	}
	tasks, err := encodeDocument(c.Tasks)
	if err != nil {
		return fmt.Errorf("encoding rules for catalog %s: %w", c.ID, err)
	}
	query := `INSERT INTO rule_catalogs (id, sections, tasks, updated_by, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			sections = excluded.sections,
			tasks = excluded.tasks,
			updated_by = excluded.updated_by,
			updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, c.ID, sections, tasks, c.UpdatedBy, formatTimestamp(c.UpdatedAt)); err != nil {
		return fmt.Errorf("saving rule catalog: %w", err)
	}
	return nil
}

func (r *SQLiteCatalogRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rule_catalogs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting rule catalog: %w", err)
	}
	ok, err := affectedOne(res)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("rule catalog %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanCatalog(row rowScanner) (*domain.RuleCatalog, error) {
	var c domain.RuleCatalog
	var sections, tasks, updatedAt string
	if err := row.Scan(&c.ID, &sections, &tasks, &c.UpdatedBy, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning rule catalog: %w", err)
	}
	if err := decodeDocument(sections, &c.Sections); err != nil {
		return nil, fmt.Errorf("decoding sections for catalog %s: %w", c.ID, err)
	}
	if err := decodeDocument(tasks, &c.Tasks); err != nil {
		return nil, fmt.Errorf("decoding rules for catalog %s: %w", c.ID, err)
	}
	var err error
	if c.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
