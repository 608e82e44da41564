package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/SergeiKhy/shortly/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrLinkNotFound = errors.New("link not found")
	ErrCodeExists   = errors.New("short code already exists")
)

type LinkRepository interface {
	Create(ctx context.Context, link *models.Link) error
	GetByShortCode(ctx context.Context, code string) (*models.Link, error)
	List(ctx context.Context) ([]models.LinkSummary, error)
	Delete(ctx context.Context, code string) error
	IncrementClicks(ctx context.Context, code string) error
}

type linkRepository struct {
	db *PostgresDB
}

func NewLinkRepository(db *PostgresDB) LinkRepository {
	return &linkRepository{db: db}
}

func (r *linkRepository) Create(ctx context.Context, link *models.Link) error {
	query := `
		INSERT INTO links (short_code, original_url, total_clicks, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.Pool.QueryRow(
		ctx,
		query,
		link.ShortCode,
		link.OriginalURL,
		link.TotalClicks,
		link.CreatedAt,
	).Scan(&link.ID, &link.CreatedAt)

	if err != nil {
		// Уникальный индекс в БД - единственный источник истины для занятости кода
		if isUniqueViolation(err) {
			return ErrCodeExists
		}
		return fmt.Errorf("failed to create link: %w", err)
	}

	return nil
}

func (r *linkRepository) GetByShortCode(ctx context.Context, code string) (*models.Link, error) {
	query := `
		SELECT id, short_code, original_url, total_clicks, created_at
		FROM links
		WHERE short_code = $1
	`

	link := &models.Link{}
	err := r.db.Pool.QueryRow(ctx, query, code).Scan(
		&link.ID,
		&link.ShortCode,
		&link.OriginalURL,
		&link.TotalClicks,
		&link.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	return link, nil
}

func (r *linkRepository) List(ctx context.Context) ([]models.LinkSummary, error) {
	// LEFT JOIN, чтобы ссылки без кликов тоже попадали в список с нулевым счётчиком
	query := `
		SELECT
			l.id,
			l.short_code,
			l.original_url,
			l.total_clicks,
			l.created_at,
			COUNT(c.id) AS analytics_count
		FROM links l
		LEFT JOIN clicks c ON l.short_code = c.short_code
		GROUP BY l.id
		ORDER BY l.created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	var links []models.LinkSummary
	for rows.Next() {
		var summary models.LinkSummary
		if err := rows.Scan(
			&summary.ID,
			&summary.ShortCode,
			&summary.OriginalURL,
			&summary.TotalClicks,
			&summary.CreatedAt,
			&summary.AnalyticsCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan link summary: %w", err)
		}
		links = append(links, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating links: %w", err)
	}

	return links, nil
}

func (r *linkRepository) Delete(ctx context.Context, code string) error {
	// Клики и ссылка удаляются в одной транзакции: сначала события, потом ссылка,
	// чтобы при сбое между шагами не оставалось осиротевших кликов
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM clicks WHERE short_code = $1`, code); err != nil {
		return fmt.Errorf("failed to delete clicks: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM links WHERE short_code = $1`, code)
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrLinkNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit delete transaction: %w", err)
	}

	return nil
}

func (r *linkRepository) IncrementClicks(ctx context.Context, code string) error {
	// Атомарный относительный инкремент, без read-modify-write на стороне приложения
	query := `UPDATE links SET total_clicks = total_clicks + 1 WHERE short_code = $1`

	result, err := r.db.Pool.Exec(ctx, query, code)
	if err != nil {
		return fmt.Errorf("failed to increment clicks: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrLinkNotFound
	}

	return nil
}

// isUniqueViolation проверяет ошибку нарушения уникального ограничения (код 23505)
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
