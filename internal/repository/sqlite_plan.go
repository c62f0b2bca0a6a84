package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/planops/internal/db"
	"github.com/alexanderramin/planops/internal/domain"
)

// SQLitePlanRepo implements PlanRepo. Sections are stored as a JSON document;
// the version column guards against lost updates.
type SQLitePlanRepo struct {
	db db.DBTX
}

func NewSQLitePlanRepo(conn db.DBTX) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: conn}
}

// Create inserts a new plan at version 1. A plan already stored for the
// customer yields ErrConflict.
func (r *SQLitePlanRepo) Create(ctx context.Context, p *domain.Plan) error {
	doc, err := encodeDocument(p.Sections)
	if err != nil {
		return fmt.Errorf("encoding plan for %s: %w", p.CustomerID, err)
	}
	query := `INSERT INTO plans (customer_id, sections, version, created_at, updated_at)
		VALUES (?, ?, 1, ?, ?)
		ON CONFLICT(customer_id) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query,
		p.CustomerID,
		doc,
		formatTimestamp(p.CreatedAt),
		formatTimestamp(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}
	ok, err := affectedOne(res)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("plan for %s already exists: %w", p.CustomerID, ErrConflict)
	}
	p.Version = 1
	return nil
}

func (r *SQLitePlanRepo) Get(ctx context.Context, customerID string) (*domain.Plan, error) {
	query := `SELECT customer_id, sections, version, created_at, updated_at FROM plans WHERE customer_id = ?`
	var p domain.Plan
	var doc, createdAt, updatedAt string
	err := r.db.QueryRowContext(ctx, query, customerID).Scan(&p.CustomerID, &doc, &p.Version, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("plan for %s: %w", customerID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning plan: %w", err)
	}
	if err := decodeDocument(doc, &p.Sections); err != nil {
		return nil, fmt.Errorf("decoding plan for %s: %w", customerID, err)
	}
	for _, s := range p.Sections {
		if s.Tasks == nil {
			s.Tasks = []*domain.PlanTask{}
		}
	}
	if p.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Save writes the whole plan back if the stored version still matches
// p.Version, then increments p.Version. A stale plan yields ErrConflict.
func (r *SQLitePlanRepo) Save(ctx context.Context, p *domain.Plan) error {
	doc, err := encodeDocument(p.Sections)
	if err != nil {
		return fmt.Errorf("encoding plan for %s: %w", p.CustomerID, err)
	}
	query := `UPDATE plans SET sections = ?, version = version + 1, updated_at = ?
		WHERE customer_id = ? AND version = ?`
	res, err := r.db.ExecContext(ctx, query, doc, formatTimestamp(p.UpdatedAt), p.CustomerID, p.Version)
	if err != nil {
		return fmt.Errorf("saving plan: %w", err)
	}
	ok, err := affectedOne(res)
	if err != nil {
		return err
	}
	if ok {
		p.Version++
		return nil
	}

	var stored int
	err = r.db.QueryRowContext(ctx, `SELECT version FROM plans WHERE customer_id = ?`, p.CustomerID).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("plan for %s: %w", p.CustomerID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("checking plan version: %w", err)
	}
	return fmt.Errorf("plan for %s changed since it was read (have version %d, stored %d): %w",
		p.CustomerID, p.Version, stored, ErrConflict)
}

func (r *SQLitePlanRepo) Delete(ctx context.Context, customerID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE customer_id = ?`, customerID); err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) ListCustomerIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT customer_id FROM plans ORDER BY customer_id`)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning plan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plans: %w", err)
	}
	return ids, nil
}
