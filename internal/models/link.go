package models

import (
	"time"
)

type Link struct {
	ID          int64     `json:"id"`
	ShortCode   string    `json:"short_code"`
	OriginalURL string    `json:"original_url"`
	TotalClicks int64     `json:"total_clicks"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateLinkInput struct {
	OriginalURL string  `json:"original_url" binding:"required"`
	CustomCode  *string `json:"custom_code,omitempty"`
}

// LinkSummary строка списка: ссылка плюс количество записанных событий аналитики
type LinkSummary struct {
	Link
	AnalyticsCount int64 `json:"analytics_count"`
}
