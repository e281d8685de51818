package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"greenpledge/internal/model"
)

var ErrPledgeNotFound = errors.New("pledge not found")

type Repository interface {
	// UpsertByEmail creates a pledge record or, when the email is already
	// known, updates the existing one. Returns the record id and whether a
	// new record was created.
	UpsertByEmail(ctx context.Context, p *model.Pledge) (int64, bool, error)
	GetAll(ctx context.Context) ([]model.Pledge, error)
	GetPledged(ctx context.Context) ([]model.Pledge, error)
	GetByEmail(ctx context.Context, email string) (*model.Pledge, error)
	MigrateUp(migrationsDir string) error
	MigrateDown(migrationsDir string) error
}

type repository struct {
	db  *dbpg.DB
	log *zerolog.Logger
}

func NewRepository(db *dbpg.DB, log *zerolog.Logger) (Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if err := db.Master.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return &repository{db: db, log: log}, nil
}

func (r *repository) MigrateUp(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations applied successfully from %s", migrationsDir)
	return nil
}

func (r *repository) MigrateDown(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.down.sql"))
	if err != nil {
		return fmt.Errorf("failed to read rollback files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read rollback file %s: %w", file, err)
		}

		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to rollback migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations rolled back successfully from %s", migrationsDir)
	return nil
}

func (r *repository) UpsertByEmail(ctx context.Context, p *model.Pledge) (int64, bool, error) {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if rec := recover(); rec != nil {
			_ = tx.Rollback()
			panic(rec)
		}
	}()

	var id int64
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM pledges WHERE email = $1 FOR UPDATE
	`, p.Email).Scan(&id)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		// ON CONFLICT covers the race where another submit with the same
		// email lands between the select and the insert. The conflict branch
		// applies the same merge rules as a plain update, and xmax tells a
		// fresh insert apart from a conflict-resolved one so created stays
		// truthful even when this submit lost the race.
		var created bool
		err = tx.QueryRowContext(ctx, `
			INSERT INTO pledges (name, email, phone, company, country, pledge,
			                     interested, looking_for, photo_url, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
			ON CONFLICT (email) DO UPDATE SET
				name        = COALESCE(NULLIF(EXCLUDED.name, ''), pledges.name),
				phone       = COALESCE(NULLIF(EXCLUDED.phone, ''), pledges.phone),
				company     = COALESCE(NULLIF(EXCLUDED.company, ''), pledges.company),
				country     = COALESCE(NULLIF(EXCLUDED.country, ''), pledges.country),
				pledge      = EXCLUDED.pledge,
				interested  = COALESCE(NULLIF(EXCLUDED.interested, ''), pledges.interested),
				looking_for = COALESCE(NULLIF(EXCLUDED.looking_for, ''), pledges.looking_for),
				photo_url   = COALESCE(NULLIF(EXCLUDED.photo_url, ''), pledges.photo_url),
				updated_at  = NOW()
			RETURNING id, (xmax = 0)
		`, p.Name, p.Email, p.Phone, p.Company, p.Country, p.Pledge,
			p.Interested.Joined(), p.LookingFor.Joined(), p.PhotoURL).Scan(&id, &created)
		if err != nil {
			_ = tx.Rollback()
			return 0, false, fmt.Errorf("failed to create pledge: %w", err)
		}

		if err := tx.Commit(); err != nil {
			return 0, false, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return id, created, nil

	case err != nil:
		_ = tx.Rollback()
		return 0, false, fmt.Errorf("failed to look up pledge by email: %w", err)
	}

	// Empty incoming fields keep their stored value; the pledge flag is
	// always taken from the latest submission.
	_, err = tx.ExecContext(ctx, `
		UPDATE pledges SET
			name        = COALESCE(NULLIF($2, ''), name),
			phone       = COALESCE(NULLIF($3, ''), phone),
			company     = COALESCE(NULLIF($4, ''), company),
			country     = COALESCE(NULLIF($5, ''), country),
			pledge      = $6,
			interested  = COALESCE(NULLIF($7, ''), interested),
			looking_for = COALESCE(NULLIF($8, ''), looking_for),
			photo_url   = COALESCE(NULLIF($9, ''), photo_url),
			updated_at  = NOW()
		WHERE id = $1
	`, id, p.Name, p.Phone, p.Company, p.Country, p.Pledge,
		p.Interested.Joined(), p.LookingFor.Joined(), p.PhotoURL)
	if err != nil {
		_ = tx.Rollback()
		return 0, false, fmt.Errorf("failed to update pledge: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, false, nil
}

const pledgeColumns = `
	id, name, email, phone, company, country, pledge,
	interested, looking_for, photo_url, created_at, updated_at
`

func (r *repository) GetAll(ctx context.Context) ([]model.Pledge, error) {
	query := `SELECT ` + pledgeColumns + ` FROM pledges ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get pledges: %w", err)
	}
	defer rows.Close()

	return scanPledges(rows)
}

func (r *repository) GetPledged(ctx context.Context) ([]model.Pledge, error) {
	query := `SELECT ` + pledgeColumns + ` FROM pledges WHERE pledge = TRUE ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get pledged records: %w", err)
	}
	defer rows.Close()

	return scanPledges(rows)
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*model.Pledge, error) {
	query := `SELECT ` + pledgeColumns + ` FROM pledges WHERE email = $1`

	row := r.db.QueryRowContext(ctx, query, email)
	p, err := scanPledge(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPledgeNotFound
		}
		return nil, fmt.Errorf("failed to get pledge by email: %w", err)
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPledge(row rowScanner) (*model.Pledge, error) {
	var (
		p                      model.Pledge
		interested, lookingFor string
	)
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&p.Phone,
		&p.Company,
		&p.Country,
		&p.Pledge,
		&interested,
		&lookingFor,
		&p.PhotoURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.Interested = model.SplitJoined(interested)
	p.LookingFor = model.SplitJoined(lookingFor)
	return &p, nil
}

func scanPledges(rows *sql.Rows) ([]model.Pledge, error) {
	var pledges []model.Pledge
	for rows.Next() {
		p, err := scanPledge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pledge: %w", err)
		}
		pledges = append(pledges, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pledges: %w", err)
	}
	return pledges, nil
}
