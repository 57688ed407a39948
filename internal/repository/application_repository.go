package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"internhub/internal/database"
	"internhub/internal/domain/application"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

type ApplicationRepository interface {
	Create(ctx context.Context, a application.Application) error
	GetByID(ctx context.Context, id uuid.UUID) (application.Application, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]ApplicationView, error)
	ListByInternship(ctx context.Context, internshipID uuid.UUID) ([]ApplicantView, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status application.Status) error
}

// ApplicationView is an application joined with the listing it targets.
type ApplicationView struct {
	application.Application
	InternshipTitle string
	Company         string
}

// ApplicantView is an application joined with the applying student.
type ApplicantView struct {
	application.Application
	Email    string
	FullName *string
	Skills   []string
}

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

func (r *PostgresApplicationRepository) Create(ctx context.Context, a application.Application) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO applications (id, user_id, internship_id, status, note)
		 VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.UserID, a.InternshipID, string(a.Status), a.Note,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case uniqueViolation:
				return application.ErrAlreadyApplied
			case foreignKeyViolation:
				// Listings served from the fallback file have no row to reference.
				return application.ErrUnknownListing
			}
		}
		return err
	}
	return nil
}

func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (application.Application, error) {
	var a application.Application
	var status string
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, internship_id, status, note, created_at, updated_at
		 FROM applications WHERE id = $1`,
		id,
	)
	if err := row.Scan(&a.ID, &a.UserID, &a.InternshipID, &status, &a.Note, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return application.Application{}, application.ErrNotFound
		}
		return application.Application{}, err
	}
	a.Status = application.Status(status)
	return a, nil
}

func (r *PostgresApplicationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]ApplicationView, error) {
	rows, err := r.db.Query(ctx,
		`SELECT a.id, a.user_id, a.internship_id, a.status, a.note, a.created_at, a.updated_at,
		        i.title, i.company
		 FROM applications a
		 JOIN internships i ON i.id = a.internship_id
		 WHERE a.user_id = $1
		 ORDER BY a.created_at DESC, a.id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ApplicationView, 0)
	for rows.Next() {
		var v ApplicationView
		var status string
		if err := rows.Scan(
			&v.ID, &v.UserID, &v.InternshipID, &status, &v.Note, &v.CreatedAt, &v.UpdatedAt,
			&v.InternshipTitle, &v.Company,
		); err != nil {
			return nil, err
		}
		v.Status = application.Status(status)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresApplicationRepository) ListByInternship(ctx context.Context, internshipID uuid.UUID) ([]ApplicantView, error) {
	rows, err := r.db.Query(ctx,
		`SELECT a.id, a.user_id, a.internship_id, a.status, a.note, a.created_at, a.updated_at,
		        u.email, p.full_name, COALESCE(p.skills, '{}')
		 FROM applications a
		 JOIN users u ON u.id = a.user_id
		 LEFT JOIN user_profiles p ON p.user_id = a.user_id
		 WHERE a.internship_id = $1
		 ORDER BY a.created_at, a.id`,
		internshipID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ApplicantView, 0)
	for rows.Next() {
		var v ApplicantView
		var status string
		if err := rows.Scan(
			&v.ID, &v.UserID, &v.InternshipID, &status, &v.Note, &v.CreatedAt, &v.UpdatedAt,
			&v.Email, &v.FullName, &v.Skills,
		); err != nil {
			return nil, err
		}
		v.Status = application.Status(status)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresApplicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status application.Status) error {
	n, err := r.db.Exec(ctx,
		`UPDATE applications SET status = $2, updated_at = $3 WHERE id = $1`,
		id, string(status), time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return application.ErrNotFound
	}
	return nil
}
