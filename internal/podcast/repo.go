package podcast

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tenmin/investcast/pkg"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrPodcastNotFound = errors.New("podcast not found")
	ErrPodcastExists   = errors.New("podcast already exists")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, podcast *Podcast) (*Podcast, error) {
	if podcast.Title == "" || podcast.AudioURL == "" {
		return nil, errors.New("podcast title or audio url empty")
	}

	if podcast.ID == uuid.Nil {
		podcast.ID = uuid.New()
	}
	now := time.Now()
	podcast.CreatedAt = now
	podcast.UpdatedAt = now

	_, err := r.db.Exec(
		ctx,
		`INSERT INTO podcast
			(id, title, summary, audio_url, duration, file_size, file_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`,
		podcast.ID, podcast.Title, podcast.Summary, podcast.AudioURL,
		podcast.Duration, podcast.FileSize, podcast.FileName,
		podcast.CreatedAt, podcast.UpdatedAt,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrPodcastExists
		}
		return nil, fmt.Errorf("insert podcast: %w", err)
	}

	return podcast, nil
}

func (r *Repo) Get(ctx context.Context, id uuid.UUID) (*Podcast, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT
			id, title, summary, audio_url, duration, file_size, file_name, created_at, updated_at
		FROM podcast WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, ErrPodcastNotFound
	}

	return scanPodcast(rows.Scan)
}

func (r *Repo) Update(ctx context.Context, podcast *Podcast) error {
	if podcast.Title == "" || podcast.AudioURL == "" {
		return errors.New("podcast title or audio url empty")
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE podcast SET
			title = $1, summary = $2, audio_url = $3, duration = $4,
			file_size = $5, file_name = $6, updated_at = $7
		WHERE id = $8;`,
		podcast.Title, podcast.Summary, podcast.AudioURL, podcast.Duration,
		podcast.FileSize, podcast.FileName, time.Now(), podcast.ID,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrPodcastNotFound
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM podcast WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPodcastNotFound
	}
	return nil
}

func (r *Repo) List(ctx context.Context) ([]Podcast, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT
			id, title, summary, audio_url, duration, file_size, file_name, created_at, updated_at
		FROM podcast
		ORDER BY created_at DESC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	var podcasts []Podcast
	for rows.Next() {
		p, err := scanPodcast(rows.Scan)
		if err != nil {
			return nil, err
		}
		podcasts = append(podcasts, *p)
	}

	return podcasts, nil
}

func scanPodcast(scan func(dest ...any) error) (*Podcast, error) {
	var p Podcast
	if err := scan(
		&p.ID, &p.Title, &p.Summary, &p.AudioURL, &p.Duration,
		&p.FileSize, &p.FileName, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}
	return &p, nil
}
