package postgres

import (
	"context"
	"database/sql"
	"errors"

	"tripdesk-backend/internal/domain"
	"tripdesk-backend/internal/repository"
)

type staffRepository struct {
	db *sql.DB
}

func NewStaffRepository(db *sql.DB) repository.StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) Create(ctx context.Context, user *domain.StaffUser) error {
	query := `INSERT INTO staff_users (email, name, password_hash, role, active, created_on)
	          VALUES ($1, $2, $3, $4, $5, NOW()) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		user.Email, user.Name, user.PasswordHash, user.Role, user.Active).Scan(&user.ID)
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*domain.StaffUser, error) {
	query := `SELECT id, email, name, password_hash, role, active, created_on
	          FROM staff_users WHERE email = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *staffRepository) GetByID(ctx context.Context, id int32) (*domain.StaffUser, error) {
	query := `SELECT id, email, name, password_hash, role, active, created_on
	          FROM staff_users WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *staffRepository) scanOne(row *sql.Row) (*domain.StaffUser, error) {
	var u domain.StaffUser
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.Active, &u.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *staffRepository) List(ctx context.Context) ([]domain.StaffUser, error) {
	query := `SELECT id, email, name, password_hash, role, active, created_on
	          FROM staff_users ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.StaffUser
	for rows.Next() {
		var u domain.StaffUser
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.Active, &u.CreatedOn); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *staffRepository) Update(ctx context.Context, user *domain.StaffUser) error {
	query := `UPDATE staff_users SET email = $2, name = $3, password_hash = $4, role = $5, active = $6
	          WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Name, user.PasswordHash, user.Role, user.Active)
	return err
}
