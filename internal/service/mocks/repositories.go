package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/SergeiKhy/shortly/internal/models"
	"github.com/SergeiKhy/shortly/internal/repository"
)

// MockLinkRepository implements repository.LinkRepository for testing
type MockLinkRepository struct {
	mu     sync.RWMutex
	links  map[string]*models.Link
	nextID int64
}

func NewMockLinkRepository() *MockLinkRepository {
	return &MockLinkRepository{
		links:  make(map[string]*models.Link),
		nextID: 1,
	}
}

func (m *MockLinkRepository) Create(ctx context.Context, link *models.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.links[link.ShortCode]; exists {
		return repository.ErrCodeExists
	}

	link.ID = m.nextID
	m.nextID++
	m.links[link.ShortCode] = link
	return nil
}

func (m *MockLinkRepository) GetByShortCode(ctx context.Context, code string) (*models.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, exists := m.links[code]
	if !exists {
		return nil, repository.ErrLinkNotFound
	}
	return link, nil
}

func (m *MockLinkRepository) List(ctx context.Context) ([]models.LinkSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summaries := make([]models.LinkSummary, 0, len(m.links))
	for _, link := range m.links {
		summaries = append(summaries, models.LinkSummary{Link: *link})
	}

	// Newest first, same ordering as the SQL implementation
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].ID > summaries[j].ID
		}
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})

	return summaries, nil
}

func (m *MockLinkRepository) Delete(ctx context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.links[code]; !exists {
		return repository.ErrLinkNotFound
	}
	delete(m.links, code)
	return nil
}

func (m *MockLinkRepository) IncrementClicks(ctx context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	link, exists := m.links[code]
	if !exists {
		return repository.ErrLinkNotFound
	}
	link.TotalClicks++
	return nil
}

func (m *MockLinkRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links = make(map[string]*models.Link)
	m.nextID = 1
}

// MockClickRepository implements repository.ClickRepository for testing
type MockClickRepository struct {
	mu     sync.RWMutex
	clicks map[string][]models.Click // short_code -> clicks
	nextID int64
}

func NewMockClickRepository() *MockClickRepository {
	return &MockClickRepository{
		clicks: make(map[string][]models.Click),
		nextID: 1,
	}
}

func (m *MockClickRepository) RecordClick(ctx context.Context, click *models.Click) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	click.ID = m.nextID
	m.nextID++
	m.clicks[click.ShortCode] = append(m.clicks[click.ShortCode], *click)
	return nil
}

func (m *MockClickRepository) GetHistory(ctx context.Context, shortCode string) ([]models.Click, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := make([]models.Click, len(m.clicks[shortCode]))
	copy(history, m.clicks[shortCode])

	// Newest first, same ordering as the SQL implementation
	sort.Slice(history, func(i, j int) bool {
		if history[i].ClickedAt.Equal(history[j].ClickedAt) {
			return history[i].ID > history[j].ID
		}
		return history[i].ClickedAt.After(history[j].ClickedAt)
	})

	return history, nil
}

func (m *MockClickRepository) GetDailyStats(ctx context.Context, shortCode string) ([]models.DailyClickStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[string]int64)
	for _, click := range m.clicks[shortCode] {
		counts[click.ClickedAt.Format("2006-01-02")]++
	}

	stats := make([]models.DailyClickStats, 0, len(counts))
	for date, clicks := range counts {
		stats = append(stats, models.DailyClickStats{Date: date, Clicks: clicks})
	}

	// Newest first, at most 30 distinct dates
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Date > stats[j].Date
	})
	if len(stats) > 30 {
		stats = stats[:30]
	}

	return stats, nil
}

func (m *MockClickRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clicks = make(map[string][]models.Click)
	m.nextID = 1
}
