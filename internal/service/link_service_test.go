package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SergeiKhy/shortly/internal/models"
	"github.com/SergeiKhy/shortly/internal/repository"
	"github.com/SergeiKhy/shortly/internal/service"
	"github.com/SergeiKhy/shortly/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestService создаёт тестовое окружение с моковым репозиторием
func setupTestService() (service.LinkService, *mocks.MockLinkRepository) {
	linkRepo := mocks.NewMockLinkRepository()
	linkService := service.NewLinkService(linkRepo)
	return linkService, linkRepo
}

// TestLinkService_CreateLink_Success проверяет успешное создание ссылки
func TestLinkService_CreateLink_Success(t *testing.T) {
	linkService, _ := setupTestService()

	input := &models.CreateLinkInput{
		OriginalURL: "https://example.com/test",
	}

	ctx := context.Background()
	link, err := linkService.CreateLink(ctx, input)

	require.NoError(t, err)
	assert.NotEmpty(t, link.ShortCode)
	assert.Equal(t, input.OriginalURL, link.OriginalURL)
	assert.Equal(t, int64(0), link.TotalClicks)
	assert.False(t, link.CreatedAt.IsZero())
}

// TestLinkService_CreateLink_RoundTrip проверяет, что lookup возвращает исходный URL без изменений
func TestLinkService_CreateLink_RoundTrip(t *testing.T) {
	linkService, _ := setupTestService()

	urls := []string{
		"https://example.com/page",
		"http://example.com/path?query=value&other=1",
		"https://sub.example.com/path#fragment",
	}

	ctx := context.Background()
	for _, u := range urls {
		created, err := linkService.CreateLink(ctx, &models.CreateLinkInput{OriginalURL: u})
		require.NoError(t, err)

		got, err := linkService.GetLink(ctx, created.ShortCode)
		require.NoError(t, err)
		assert.Equal(t, u, got.OriginalURL)
	}
}

// TestLinkService_CreateLink_WithCustomCode проверяет, что кастомный код используется как есть
func TestLinkService_CreateLink_WithCustomCode(t *testing.T) {
	linkService, _ := setupTestService()

	// Кастомные коды не валидируются по формату - используются дословно
	customCodes := []string{"abc123", "my-custom", "ab", "a_very_long_custom_code"}

	ctx := context.Background()
	for _, code := range customCodes {
		customCode := code
		input := &models.CreateLinkInput{
			OriginalURL: "https://example.com/test",
			CustomCode:  &customCode,
		}

		link, err := linkService.CreateLink(ctx, input)

		require.NoError(t, err)
		assert.Equal(t, code, link.ShortCode)
	}
}

// TestLinkService_CreateLink_CodeExists проверяет конфликт по занятому коду
func TestLinkService_CreateLink_CodeExists(t *testing.T) {
	linkService, _ := setupTestService()

	customCode := "abc123"
	input := &models.CreateLinkInput{
		OriginalURL: "https://example.com/page",
		CustomCode:  &customCode,
	}

	ctx := context.Background()
	_, err := linkService.CreateLink(ctx, input)
	require.NoError(t, err)

	// Повторное создание с тем же кодом не перезаписывает ссылку
	second := &models.CreateLinkInput{
		OriginalURL: "https://example.com",
		CustomCode:  &customCode,
	}
	link, err := linkService.CreateLink(ctx, second)

	assert.ErrorIs(t, err, repository.ErrCodeExists)
	assert.Nil(t, link)

	existing, err := linkService.GetLink(ctx, customCode)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/page", existing.OriginalURL)
}

// TestLinkService_CreateLink_InvalidURL проверяет отклонение невалидного URL
func TestLinkService_CreateLink_InvalidURL(t *testing.T) {
	linkService, _ := setupTestService()

	invalidURLs := []string{
		"not-a-url",
		"ftp://example.com",
		"",
		"example.com",
		"http://",
		"https://",
		"/relative/path",
	}

	ctx := context.Background()
	for _, u := range invalidURLs {
		link, err := linkService.CreateLink(ctx, &models.CreateLinkInput{OriginalURL: u})

		assert.ErrorIs(t, err, service.ErrInvalidURL, "URL должен быть невалидным: %s", u)
		assert.Nil(t, link)
	}
}

// TestLinkService_GetLink_NotFound проверяет обработку несуществующей ссылки
func TestLinkService_GetLink_NotFound(t *testing.T) {
	linkService, _ := setupTestService()

	ctx := context.Background()
	link, err := linkService.GetLink(ctx, "nonexistent")

	assert.ErrorIs(t, err, repository.ErrLinkNotFound)
	assert.Nil(t, link)
}

// TestLinkService_ListLinks проверяет порядок списка (новые первыми)
func TestLinkService_ListLinks(t *testing.T) {
	linkService, linkRepo := setupTestService()

	ctx := context.Background()

	// Пустое хранилище - пустой список
	links, err := linkService.ListLinks(ctx)
	require.NoError(t, err)
	assert.Empty(t, links)

	// Создаём ссылки с разным временем создания
	for i := 0; i < 3; i++ {
		link := &models.Link{
			ShortCode:   fmt.Sprintf("code%d", i),
			OriginalURL: fmt.Sprintf("https://example.com/%d", i),
			CreatedAt:   time.Now().Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, linkRepo.Create(ctx, link))
	}

	links, err = linkService.ListLinks(ctx)
	require.NoError(t, err)
	require.Len(t, links, 3)
	assert.Equal(t, "code2", links[0].ShortCode)
	assert.Equal(t, "code1", links[1].ShortCode)
	assert.Equal(t, "code0", links[2].ShortCode)
}

// TestLinkService_DeleteLink_Success проверяет успешное удаление ссылки
func TestLinkService_DeleteLink_Success(t *testing.T) {
	linkService, linkRepo := setupTestService()

	input := &models.CreateLinkInput{
		OriginalURL: "https://example.com/test",
	}
	ctx := context.Background()
	createdLink, err := linkService.CreateLink(ctx, input)
	require.NoError(t, err)

	err = linkService.DeleteLink(ctx, createdLink.ShortCode)
	require.NoError(t, err)

	// Проверяем, что ссылка удалена
	_, err = linkRepo.GetByShortCode(ctx, createdLink.ShortCode)
	assert.ErrorIs(t, err, repository.ErrLinkNotFound)
}

// TestLinkService_DeleteLink_NotFound проверяет удаление несуществующей ссылки
func TestLinkService_DeleteLink_NotFound(t *testing.T) {
	linkService, _ := setupTestService()

	ctx := context.Background()
	err := linkService.DeleteLink(ctx, "nonexistent")

	assert.ErrorIs(t, err, repository.ErrLinkNotFound)
}

// TestLinkService_GenerateShortCode проверяет генерацию уникальных коротких кодов
func TestLinkService_GenerateShortCode(t *testing.T) {
	linkService, _ := setupTestService()

	// Генерируем множество кодов и проверяем их уникальность и длину
	codes := make(map[string]bool)
	for i := 0; i < 100; i++ {
		input := &models.CreateLinkInput{
			OriginalURL: fmt.Sprintf("https://example.com/test%d", i),
		}
		ctx := context.Background()
		link, err := linkService.CreateLink(ctx, input)
		require.NoError(t, err)
		assert.Len(t, link.ShortCode, 7, "Длина короткого кода должна быть 7 символов")
		assert.NotContains(t, codes, link.ShortCode, "Короткие коды должны быть уникальными")
		codes[link.ShortCode] = true
	}
}

// TestLinkService_ConcurrentAccess проверяет потокобезопасность при одновременном доступе
func TestLinkService_ConcurrentAccess(t *testing.T) {
	linkService, _ := setupTestService()

	ctx := context.Background()
	done := make(chan bool, 10)

	// Создаём ссылки параллельно в 10 горутинах
	for i := 0; i < 10; i++ {
		go func(id int) {
			input := &models.CreateLinkInput{
				OriginalURL: "https://example.com/test" + fmt.Sprintf("%d", id),
			}
			link, err := linkService.CreateLink(ctx, input)
			assert.NoError(t, err)
			assert.NotNil(t, link)
			done <- true
		}(i)
	}

	// Ждём завершения всех горутин
	for i := 0; i < 10; i++ {
		<-done
	}
}
