package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/SergeiKhy/shortly/internal/models"
)

// dailyStatsLimit максимум различных дат в дневной статистике
const dailyStatsLimit = 30

type ClickRepository interface {
	RecordClick(ctx context.Context, click *models.Click) error
	GetHistory(ctx context.Context, shortCode string) ([]models.Click, error)
	GetDailyStats(ctx context.Context, shortCode string) ([]models.DailyClickStats, error)
}

type clickRepository struct {
	db *PostgresDB
}

func NewClickRepository(db *PostgresDB) ClickRepository {
	return &clickRepository{db: db}
}

func (r *clickRepository) RecordClick(ctx context.Context, click *models.Click) error {
	query := `
		INSERT INTO clicks (short_code, ip_address, user_agent, referer, country, city, clicked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		click.ShortCode,
		click.IPAddress,
		click.UserAgent,
		click.Referer,
		click.Country,
		click.City,
		click.ClickedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to record click: %w", err)
	}

	return nil
}

func (r *clickRepository) GetHistory(ctx context.Context, shortCode string) ([]models.Click, error) {
	query := `
		SELECT id, short_code, ip_address, user_agent, referer, country, city, clicked_at
		FROM clicks
		WHERE short_code = $1
		ORDER BY clicked_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, shortCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get click history: %w", err)
	}
	defer rows.Close()

	var history []models.Click
	for rows.Next() {
		var click models.Click
		if err := rows.Scan(
			&click.ID,
			&click.ShortCode,
			&click.IPAddress,
			&click.UserAgent,
			&click.Referer,
			&click.Country,
			&click.City,
			&click.ClickedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan click: %w", err)
		}
		history = append(history, click)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating click history: %w", err)
	}

	return history, nil
}

func (r *clickRepository) GetDailyStats(ctx context.Context, shortCode string) ([]models.DailyClickStats, error) {
	// Группировка по календарной дате; дни без кликов не попадают в выборку
	query := `
		SELECT
			DATE(clicked_at) AS date,
			COUNT(*) AS clicks
		FROM clicks
		WHERE short_code = $1
		GROUP BY DATE(clicked_at)
		ORDER BY date DESC
		LIMIT $2
	`

	rows, err := r.db.Pool.Query(ctx, query, shortCode, dailyStatsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily stats: %w", err)
	}
	defer rows.Close()

	var stats []models.DailyClickStats
	for rows.Next() {
		var (
			day       time.Time
			dailyStat models.DailyClickStats
		)
		if err := rows.Scan(&day, &dailyStat.Clicks); err != nil {
			return nil, fmt.Errorf("failed to scan daily stat: %w", err)
		}
		dailyStat.Date = day.Format("2006-01-02")
		stats = append(stats, dailyStat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily stats: %w", err)
	}

	return stats, nil
}
