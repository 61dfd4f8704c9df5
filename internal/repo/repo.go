package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"Yplus/internal/calc/yplus"
)

var ErrNotFound = errors.New("not found")

// Calculation is one saved wall-distance calculation.
type Calculation struct {
	ID        int          `json:"id"`
	UserID    int          `json:"user_id"`
	Label     string       `json:"label"`
	Input     yplus.Input  `json:"input"`
	Result    yplus.Result `json:"result"`
	CreatedAt time.Time    `json:"created_at"`
}

type Repository interface {
	CreateUser(ctx context.Context, login, email, password string) (int, error)
	GetBylogin(ctx context.Context, login string) (int, string, error)
	SaveCalculation(ctx context.Context, c Calculation) (int, error)
	ListCalculations(ctx context.Context, userID, limit int) ([]Calculation, error)
	GetCalculation(ctx context.Context, userID, id int) (Calculation, error)
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id SERIAL PRIMARY KEY,
	login TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS calculations (
	id SERIAL PRIMARY KEY,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	label TEXT NOT NULL DEFAULT '',
	input JSONB NOT NULL,
	result JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS calculations_user_created ON calculations (user_id, created_at DESC);
`

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserDB(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// Migrate creates the tables if they do not exist.
func (r *PostgresUserRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

func (r *PostgresUserRepository) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	var id int
	query := "INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, login, email, password).Scan(&id)
	return id, err
}

func (r *PostgresUserRepository) GetBylogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string

	query := "SELECT id, password FROM users WHERE login=$1"

	err := r.db.QueryRowContext(ctx, query, login).Scan(&id, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, "", ErrNotFound
		}
		return 0, "", err
	}
	return id, hash, nil
}

func (r *PostgresUserRepository) SaveCalculation(ctx context.Context, c Calculation) (int, error) {
	in, err := json.Marshal(c.Input)
	if err != nil {
		return 0, fmt.Errorf("encode input: %w", err)
	}
	res, err := json.Marshal(c.Result)
	if err != nil {
		return 0, fmt.Errorf("encode result: %w", err)
	}
	var id int
	query := "INSERT INTO calculations (user_id, label, input, result) VALUES ($1, $2, $3, $4) RETURNING id"
	err = r.db.QueryRowContext(ctx, query, c.UserID, c.Label, string(in), string(res)).Scan(&id)
	return id, err
}

func (r *PostgresUserRepository) ListCalculations(ctx context.Context, userID, limit int) ([]Calculation, error) {
	query := `SELECT id, user_id, label, input, result, created_at FROM calculations
		WHERE user_id=$1 ORDER BY created_at DESC, id DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Calculation
	for rows.Next() {
		c, err := scanCalculation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresUserRepository) GetCalculation(ctx context.Context, userID, id int) (Calculation, error) {
	query := `SELECT id, user_id, label, input, result, created_at FROM calculations
		WHERE user_id=$1 AND id=$2`
	c, err := scanCalculation(r.db.QueryRowContext(ctx, query, userID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Calculation{}, ErrNotFound
	}
	return c, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCalculation(s scanner) (Calculation, error) {
	var (
		c       Calculation
		in, res []byte
	)
	if err := s.Scan(&c.ID, &c.UserID, &c.Label, &in, &res, &c.CreatedAt); err != nil {
		return Calculation{}, err
	}
	if err := json.Unmarshal(in, &c.Input); err != nil {
		return Calculation{}, fmt.Errorf("decode input of calculation %d: %w", c.ID, err)
	}
	if err := json.Unmarshal(res, &c.Result); err != nil {
		return Calculation{}, fmt.Errorf("decode result of calculation %d: %w", c.ID, err)
	}
	return c, nil
}
