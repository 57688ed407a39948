package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"internhub/internal/database"
	"internhub/internal/domain/internship"
)

var ErrInternshipNotFound = errors.New("internship not found")

// Fingerprint is a cheap summary of the active listing set used to detect
// whether a reload changed anything.
type Fingerprint struct {
	Count        int
	LatestUpdate time.Time
}

type InternshipRepository interface {
	ListActive(ctx context.Context) ([]internship.Internship, error)
	GetByID(ctx context.Context, id uuid.UUID) (internship.Internship, error)
	ListByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]internship.Internship, error)
	Create(ctx context.Context, it internship.Internship) error
	UpsertBySourceKey(ctx context.Context, items []internship.Internship) (int, error)
	Fingerprint(ctx context.Context) (Fingerprint, error)
}

type PostgresInternshipRepository struct {
	db database.DB
}

func NewPostgresInternshipRepository(db database.DB) *PostgresInternshipRepository {
	return &PostgresInternshipRepository{db: db}
}

const internshipColumns = `id, COALESCE(source_key, ''), title, role, company, city, state, location_raw,
	stipend, duration, sector_tags, skills, work_mode, description, apply_url,
	posted_at, deadline, recruiter_id, is_active, created_at, updated_at`

func (r *PostgresInternshipRepository) ListActive(ctx context.Context) ([]internship.Internship, error) {
	return r.list(ctx,
		`SELECT `+internshipColumns+`
		 FROM internships
		 WHERE is_active = TRUE
		 ORDER BY COALESCE(posted_at, created_at) DESC, id`,
	)
}

func (r *PostgresInternshipRepository) ListByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]internship.Internship, error) {
	return r.list(ctx,
		`SELECT `+internshipColumns+`
		 FROM internships
		 WHERE recruiter_id = $1
		 ORDER BY created_at DESC, id`,
		recruiterID,
	)
}

func (r *PostgresInternshipRepository) GetByID(ctx context.Context, id uuid.UUID) (internship.Internship, error) {
	row := r.db.QueryRow(ctx, `SELECT `+internshipColumns+` FROM internships WHERE id = $1`, id)
	it, err := scanInternship(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return internship.Internship{}, ErrInternshipNotFound
		}
		return internship.Internship{}, err
	}
	return it, nil
}

func (r *PostgresInternshipRepository) Create(ctx context.Context, it internship.Internship) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO internships (
			id, source_key, title, role, company, city, state, location_raw, stipend, duration,
			sector_tags, skills, work_mode, description, apply_url, posted_at, deadline,
			recruiter_id, is_active
		) VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		insertArgs(it)...,
	)
	return err
}

// UpsertBySourceKey inserts new listings and refreshes existing ones matched
// by source key. Listings without a key are skipped.
func (r *PostgresInternshipRepository) UpsertBySourceKey(ctx context.Context, items []internship.Internship) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	n := 0
	for _, it := range items {
		if strings.TrimSpace(it.SourceKey) == "" {
			continue
		}
		if it.ID == uuid.Nil {
			it.ID = uuid.New()
		}
		affected, err := tx.Exec(ctx,
			`INSERT INTO internships (
				id, source_key, title, role, company, city, state, location_raw, stipend, duration,
				sector_tags, skills, work_mode, description, apply_url, posted_at, deadline,
				recruiter_id, is_active
			) VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
			ON CONFLICT (source_key) DO UPDATE SET
				title = EXCLUDED.title,
				role = EXCLUDED.role,
				company = EXCLUDED.company,
				city = EXCLUDED.city,
				state = EXCLUDED.state,
				location_raw = EXCLUDED.location_raw,
				stipend = EXCLUDED.stipend,
				duration = EXCLUDED.duration,
				sector_tags = EXCLUDED.sector_tags,
				skills = EXCLUDED.skills,
				work_mode = EXCLUDED.work_mode,
				description = EXCLUDED.description,
				apply_url = EXCLUDED.apply_url,
				posted_at = EXCLUDED.posted_at,
				deadline = EXCLUDED.deadline,
				is_active = EXCLUDED.is_active,
				updated_at = now()`,
			insertArgs(it)...,
		)
		if err != nil {
			return 0, err
		}
		n += int(affected)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresInternshipRepository) Fingerprint(ctx context.Context) (Fingerprint, error) {
	var fp Fingerprint
	var latest *time.Time
	row := r.db.QueryRow(ctx, `SELECT COUNT(*), MAX(updated_at) FROM internships WHERE is_active = TRUE`)
	if err := row.Scan(&fp.Count, &latest); err != nil {
		return Fingerprint{}, err
	}
	if latest != nil {
		fp.LatestUpdate = latest.UTC()
	}
	return fp, nil
}

func (r *PostgresInternshipRepository) list(ctx context.Context, query string, args ...any) ([]internship.Internship, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]internship.Internship, 0)
	for rows.Next() {
		it, err := scanInternship(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanInternship(row database.Row) (internship.Internship, error) {
	var it internship.Internship
	var workMode string
	if err := row.Scan(
		&it.ID,
		&it.SourceKey,
		&it.Title,
		&it.Role,
		&it.Company,
		&it.Location.City,
		&it.Location.State,
		&it.Location.Raw,
		&it.Stipend,
		&it.Duration,
		&it.SectorTags,
		&it.Skills,
		&workMode,
		&it.Description,
		&it.ApplyURL,
		&it.PostedAt,
		&it.Deadline,
		&it.RecruiterID,
		&it.IsActive,
		&it.CreatedAt,
		&it.UpdatedAt,
	); err != nil {
		return internship.Internship{}, err
	}
	it.WorkMode = internship.ParseWorkMode(workMode)
	return it, nil
}

func insertArgs(it internship.Internship) []any {
	sectors := it.SectorTags
	if sectors == nil {
		sectors = []string{}
	}
	skills := it.Skills
	if skills == nil {
		skills = []string{}
	}
	return []any{
		it.ID,
		strings.TrimSpace(it.SourceKey),
		it.Title,
		it.Role,
		it.Company,
		it.Location.City,
		it.Location.State,
		it.Location.Raw,
		it.Stipend,
		it.Duration,
		sectors,
		skills,
		string(it.WorkMode),
		it.Description,
		it.ApplyURL,
		it.PostedAt,
		it.Deadline,
		it.RecruiterID,
		it.IsActive,
	}
}
