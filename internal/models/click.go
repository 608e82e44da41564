package models

import (
	"time"
)

type Click struct {
	ID        int64     `json:"id"`
	ShortCode string    `json:"short_code"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	Referer   string    `json:"referer"`
	Country   string    `json:"country,omitempty"`
	City      string    `json:"city,omitempty"`
	ClickedAt time.Time `json:"clicked_at"`
}

type ClickEvent struct {
	ShortCode string
	IPAddress string
	UserAgent string
	Referer   string
}

type DailyClickStats struct {
	Date   string `json:"date"`
	Clicks int64  `json:"clicks"`
}

// LinkAnalytics полный отчёт по коду: ссылка, история кликов и дневная статистика
type LinkAnalytics struct {
	Link       *Link             `json:"link"`
	History    []Click           `json:"history"`
	DailyStats []DailyClickStats `json:"daily_stats"`
}
