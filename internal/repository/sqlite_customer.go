package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/planops/internal/db"
	"github.com/alexanderramin/planops/internal/domain"
)

// SQLiteCustomerRepo implements CustomerRepo using a SQLite database.
type SQLiteCustomerRepo struct {
	db db.DBTX
}

func NewSQLiteCustomerRepo(conn db.DBTX) *SQLiteCustomerRepo {
	return &SQLiteCustomerRepo{db: conn}
}

const customerColumns = `id, store_name, email, package_type, customer_type, date_joined, is_active, created_at, updated_at`

func (r *SQLiteCustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	query := `INSERT INTO customers (` + customerColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.StoreName,
		c.Email,
		string(c.PackageType),
		string(c.CustomerType),
		c.DateJoined.UTC().Format(domain.DateLayout),
		boolToInt(c.IsActive),
		formatTimestamp(c.CreatedAt),
		formatTimestamp(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting customer: %w", err)
	}
	return nil
}

func (r *SQLiteCustomerRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = ?`
	c, err := scanCustomer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("customer %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return c, nil
}

func (r *SQLiteCustomerRepo) List(ctx context.Context, f CustomerFilter) ([]*domain.Customer, error) {
	var where []string
	var args []any
	if f.ActiveOnly {
		where = append(where, "is_active = 1")
	}
	if f.CustomerType != "" {
		where = append(where, "customer_type = ?")
		args = append(args, string(f.CustomerType))
	}
	if len(f.PackageTypes) > 0 {
		where = append(where, "package_type IN ("+placeholders(len(f.PackageTypes))+")")
		for _, p := range f.PackageTypes {
			args = append(args, string(p))
		}
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		where = append(where, "(store_name LIKE ? OR email LIKE ?)")
		like := "%" + s + "%"
		args = append(args, like, like)
	}

	query := `SELECT ` + customerColumns + ` FROM customers`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY store_name COLLATE NOCASE, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	defer rows.Close()

	var customers []*domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating customers: %w", err)
	}
	return customers, nil
}

func (r *SQLiteCustomerRepo) Update(ctx context.Context, c *domain.Customer) error {
	query := `UPDATE customers SET store_name = ?, email = ?, package_type = ?, customer_type = ?,
		date_joined = ?, is_active = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		c.StoreName,
		c.Email,
		string(c.PackageType),
		string(c.CustomerType),
		c.DateJoined.UTC().Format(domain.DateLayout),
		boolToInt(c.IsActive),
		formatTimestamp(c.UpdatedAt),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating customer: %w", err)
	}
	ok, err := affectedOne(res)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("customer %s: %w", c.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteCustomerRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting customer: %w", err)
	}
	ok, err := affectedOne(res)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("customer %s: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	var c domain.Customer
	var pkg, ctype, joined, createdAt, updatedAt string
	var active int

	err := row.Scan(&c.ID, &c.StoreName, &c.Email, &pkg, &ctype, &joined, &active, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning customer: %w", err)
	}

	c.PackageType = domain.PackageType(pkg)
	c.CustomerType = domain.CustomerType(ctype)
	c.IsActive = intToBool(active)
	if c.DateJoined, err = time.Parse(domain.DateLayout, joined); err != nil {
		return nil, fmt.Errorf("parsing date_joined for customer %s: %w", c.ID, err)
	}
	if c.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
