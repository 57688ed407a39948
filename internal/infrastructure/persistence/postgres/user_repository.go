package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"internhub/internal/database"
	"internhub/internal/domain/internship"
	"internhub/internal/domain/user"
)

type UserRepository struct {
	db database.DB
}

func NewUserRepository(db database.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, u user.User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, role) VALUES ($1, $2, $3, $4)`,
		u.ID, u.Email, u.PasswordHash, string(u.Role),
	)
	return err
}

func (r *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, role, created_at, updated_at FROM users WHERE id = $1`,
		id,
	)
	return scanUser(row)
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, role, created_at, updated_at FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)),
	)
	return scanUser(row)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *UserRepository) GetProfile(ctx context.Context, userID uuid.UUID) (user.Profile, error) {
	var p user.Profile
	var mode string
	row := r.db.QueryRow(ctx,
		`SELECT user_id, full_name, skills, preferred_sectors, preferred_location, preferred_work_mode,
		        created_at, updated_at
		 FROM user_profiles WHERE user_id = $1`,
		userID,
	)
	if err := row.Scan(
		&p.UserID, &p.FullName, &p.Skills, &p.PreferredSectors, &p.PreferredLocation, &mode,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		if isNoRows(err) {
			return user.Profile{}, user.ErrNotFound
		}
		return user.Profile{}, err
	}
	p.PreferredWorkMode = internship.ParseWorkMode(mode)
	return p, nil
}

func (r *UserRepository) UpsertProfile(ctx context.Context, p user.Profile) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_profiles (user_id, full_name, skills, preferred_sectors, preferred_location, preferred_work_mode)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			skills = EXCLUDED.skills,
			preferred_sectors = EXCLUDED.preferred_sectors,
			preferred_location = EXCLUDED.preferred_location,
			preferred_work_mode = EXCLUDED.preferred_work_mode,
			updated_at = now()`,
		p.UserID, p.FullName, nonNil(p.Skills), nonNil(p.PreferredSectors), p.PreferredLocation, string(p.PreferredWorkMode),
	)
	return err
}

func scanUser(row database.Row) (user.User, error) {
	var u user.User
	var role string
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	u.Role = user.Role(role)
	return u, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
