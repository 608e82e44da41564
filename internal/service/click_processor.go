package service

import (
	"context"
	"sync"
	"time"

	"github.com/SergeiKhy/shortly/internal/models"
	"github.com/SergeiKhy/shortly/internal/repository"
	"go.uber.org/zap"
)

// Константы worker pool
const (
	defaultWorkerCount   = 3        // Количество воркеров
	defaultChannelBuffer = 1000     // Размер буфера канала
	directReferer        = "Direct" // Referer для прямых переходов
)

// ClickProcessor интерфейс асинхронного трекинга кликов
type ClickProcessor interface {
	Start()
	Stop()
	Track(ctx context.Context, event *models.ClickEvent) error
	History(ctx context.Context, shortCode string) ([]models.Click, error)
	DailyStats(ctx context.Context, shortCode string) ([]models.DailyClickStats, error)
}

// clickProcessor реализация процессора кликов с использованием Worker Pool
type clickProcessor struct {
	clickRepo    repository.ClickRepository
	linkRepo     repository.LinkRepository
	logger       *zap.Logger
	clickChannel chan *models.ClickEvent // Канал для событий кликов
	workerCount  int                     // Количество воркеров
	wg           sync.WaitGroup          // WaitGroup для ожидания завершения воркеров
}

// NewClickProcessor создаёт новый экземпляр процессора кликов
func NewClickProcessor(
	clickRepo repository.ClickRepository,
	linkRepo repository.LinkRepository,
	logger *zap.Logger,
) ClickProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &clickProcessor{
		clickRepo:    clickRepo,
		linkRepo:     linkRepo,
		logger:       logger,
		clickChannel: make(chan *models.ClickEvent, defaultChannelBuffer),
		workerCount:  defaultWorkerCount,
	}
}

// Start запускает worker pool
func (p *clickProcessor) Start() {
	p.logger.Info("Запуск воркеров процессора кликов", zap.Int("count", p.workerCount))

	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop корректно останавливает worker pool, дообработав буфер канала.
// Вызывать только после остановки HTTP-сервера: Track по закрытому каналу запрещён
func (p *clickProcessor) Stop() {
	p.logger.Info("Остановка процессора кликов...")
	close(p.clickChannel)
	p.wg.Wait()
	p.logger.Info("Процессор кликов остановлен")
}

// worker обрабатывает события кликов из канала
func (p *clickProcessor) worker(id int) {
	defer p.wg.Done()

	p.logger.Debug("Воркер кликов запущен", zap.Int("id", id))

	for event := range p.clickChannel {
		p.processClick(event)
	}

	p.logger.Debug("Воркер кликов остановлен", zap.Int("id", id))
}

// processClick записывает одно событие клика и инкрементирует счётчик ссылки.
// Ошибки записи логируются и отбрасываются: редирект уже отдан пользователю,
// повторных попыток нет - неудачная запись означает потерянное событие
func (p *clickProcessor) processClick(event *models.ClickEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	referer := event.Referer
	if referer == "" {
		referer = directReferer
	}

	click := &models.Click{
		ShortCode: event.ShortCode,
		IPAddress: event.IPAddress,
		UserAgent: event.UserAgent,
		Referer:   referer,
		ClickedAt: time.Now(),
	}

	if err := p.clickRepo.RecordClick(ctx, click); err != nil {
		p.logger.Error("Не удалось записать клик",
			zap.String("short_code", event.ShortCode),
			zap.Error(err),
		)
		return
	}

	if err := p.linkRepo.IncrementClicks(ctx, event.ShortCode); err != nil {
		p.logger.Error("Не удалось инкрементировать счётчик кликов",
			zap.String("short_code", event.ShortCode),
			zap.Error(err),
		)
	}
}

// Track отправляет событие клика в worker pool (неблокирующая операция)
func (p *clickProcessor) Track(ctx context.Context, event *models.ClickEvent) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.clickChannel <- event:
		return nil
	default:
		// Канал заполнен, логируем предупреждение, но не блокируем запрос
		p.logger.Warn("Буфер канала кликов заполнен, событие потеряно",
			zap.String("short_code", event.ShortCode),
		)
		return nil // Не прерываем запрос, просто теряем статистику
	}
}

// History возвращает полную историю кликов по коду (новые первыми)
func (p *clickProcessor) History(ctx context.Context, shortCode string) ([]models.Click, error) {
	return p.clickRepo.GetHistory(ctx, shortCode)
}

// DailyStats возвращает дневную статистику кликов (до 30 последних дат)
func (p *clickProcessor) DailyStats(ctx context.Context, shortCode string) ([]models.DailyClickStats, error) {
	return p.clickRepo.GetDailyStats(ctx, shortCode)
}
