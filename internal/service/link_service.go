package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"time"

	"github.com/SergeiKhy/shortly/internal/models"
	"github.com/SergeiKhy/shortly/internal/repository"
)

// Ошибки сервиса
var (
	ErrInvalidURL = errors.New("невалидный URL")
)

// Константы генерации короткого кода
const (
	codeLength = 7
	charset    = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_-"
)

// LinkService интерфейс сервиса ссылок
type LinkService interface {
	CreateLink(ctx context.Context, input *models.CreateLinkInput) (*models.Link, error)
	GetLink(ctx context.Context, code string) (*models.Link, error)
	ListLinks(ctx context.Context) ([]models.LinkSummary, error)
	DeleteLink(ctx context.Context, code string) error
}

// linkService реализация сервиса ссылок
type linkService struct {
	linkRepo repository.LinkRepository
}

// NewLinkService создаёт новый экземпляр сервиса
func NewLinkService(linkRepo repository.LinkRepository) LinkService {
	return &linkService{
		linkRepo: linkRepo,
	}
}

// CreateLink создаёт новую короткую ссылку
func (s *linkService) CreateLink(ctx context.Context, input *models.CreateLinkInput) (*models.Link, error) {
	// Валидация URL
	if err := s.validateURL(input.OriginalURL); err != nil {
		return nil, err
	}

	// Кастомный код используется как есть; иначе генерируем случайный.
	// Генерация делает ровно одну попытку: коллизия сгенерированного кода
	// проявится как repository.ErrCodeExists при вставке
	shortCode := input.CustomCode
	if shortCode == nil || *shortCode == "" {
		code, err := s.generateShortCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate code: %w", err)
		}
		shortCode = &code
	}

	// Создание ссылки
	link := &models.Link{
		ShortCode:   *shortCode,
		OriginalURL: input.OriginalURL,
		TotalClicks: 0,
		CreatedAt:   time.Now(),
	}

	if err := s.linkRepo.Create(ctx, link); err != nil {
		return nil, err
	}

	return link, nil
}

// GetLink получает ссылку по короткому коду
func (s *linkService) GetLink(ctx context.Context, code string) (*models.Link, error) {
	return s.linkRepo.GetByShortCode(ctx, code)
}

// ListLinks возвращает все ссылки (новые первыми) со счётчиками событий
func (s *linkService) ListLinks(ctx context.Context) ([]models.LinkSummary, error) {
	return s.linkRepo.List(ctx)
}

// DeleteLink удаляет ссылку и все её клики по короткому коду
func (s *linkService) DeleteLink(ctx context.Context, code string) error {
	return s.linkRepo.Delete(ctx, code)
}

// generateShortCode генерирует случайный URL-safe код длиной 7 символов
func (s *linkService) generateShortCode() (string, error) {
	result := make([]byte, codeLength)
	for i := 0; i < codeLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[num.Int64()]
	}
	return string(result), nil
}

// validateURL проверяет, что строка - абсолютный http/https URL
func (s *linkService) validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ErrInvalidURL
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidURL
	}
	return nil
}
