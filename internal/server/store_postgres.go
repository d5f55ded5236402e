package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/k1networth/civicdesk/internal/request"
)

// PostgresStore backs the requests API with a service_requests table:
//
//	CREATE TABLE service_requests (
//	    id           TEXT PRIMARY KEY,
//	    name         TEXT NOT NULL,
//	    email        TEXT NOT NULL,
//	    phone        TEXT NOT NULL DEFAULT '',
//	    service_type TEXT NOT NULL,
//	    status       TEXT NOT NULL DEFAULT 'pending',
//	    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) List(ctx context.Context, q string) ([]request.ServiceRequest, error) {
	const base = `
SELECT id, name, email, phone, service_type, status
FROM service_requests
`
	var (
		rows *sql.Rows
		err  error
	)
	if q == "" {
		rows, err = s.db.QueryContext(ctx, base+`ORDER BY created_at;`)
	} else {
		pattern := "%" + q + "%"
		rows, err = s.db.QueryContext(ctx, base+`
WHERE name ILIKE $1 OR email ILIKE $1 OR service_type ILIKE $1 OR status ILIKE $1
ORDER BY created_at;`, pattern)
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]request.ServiceRequest, 0)
	for rows.Next() {
		var r request.ServiceRequest
		if err := rows.Scan(&r.ID, &r.Name, &r.Email, &r.Phone, &r.ServiceType, &r.Status); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) Create(ctx context.Context, r request.ServiceRequest) (request.ServiceRequest, error) {
	if r.ID == "" {
		r.ID = newID()
	}

	const q = `
INSERT INTO service_requests (id, name, email, phone, service_type, status)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, name, email, phone, service_type, status;
`
	var out request.ServiceRequest
	err := s.db.QueryRowContext(ctx, q,
		r.ID, r.Name, r.Email, r.Phone, r.ServiceType, r.Status,
	).Scan(&out.ID, &out.Name, &out.Email, &out.Phone, &out.ServiceType, &out.Status)
	if err != nil {
		return request.ServiceRequest{}, fmt.Errorf("insert request: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Update(ctx context.Context, id string, r request.ServiceRequest) (request.ServiceRequest, error) {
	const q = `
UPDATE service_requests
SET name = $2, email = $3, phone = $4, service_type = $5, status = $6
WHERE id = $1
RETURNING id, name, email, phone, service_type, status;
`
	var out request.ServiceRequest
	err := s.db.QueryRowContext(ctx, q,
		id, r.Name, r.Email, r.Phone, r.ServiceType, r.Status,
	).Scan(&out.ID, &out.Name, &out.Email, &out.Phone, &out.ServiceType, &out.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return request.ServiceRequest{}, ErrNotFound
		}
		return request.ServiceRequest{}, fmt.Errorf("update request: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM service_requests WHERE id = $1;`

	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
