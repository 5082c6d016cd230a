package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Dosada05/pokedex-tracker/models"
	"github.com/Dosada05/pokedex-tracker/repositories"
	"github.com/Dosada05/pokedex-tracker/storage"
	"golang.org/x/sync/errgroup"
)

const (
	spriteUploadConcurrency = 8
	spriteFetchTimeout      = 15 * time.Second
)

type CatalogImportInput struct {
	VersionGroups []VersionGroupInput `json:"versionGroups"`
	Pokemon       []PokemonInput      `json:"pokemon"`
}

type VersionGroupInput struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Generation string `json:"generation"`
}

type PokemonInput struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	SpriteURL string `json:"spriteUrl"`
}

type CatalogImportResult struct {
	VersionGroups int `json:"versionGroups"`
	Pokemon       int `json:"pokemon"`
}

// CatalogService обслуживает локальный кэш справочника.
// Import — административное засеивание данными, которые приносит оператор;
// никакой фоновой синхронизации с PokeAPI нет.
type CatalogService interface {
	Import(ctx context.Context, input CatalogImportInput) (*CatalogImportResult, error)
	ListVersionGroups(ctx context.Context) ([]models.VersionGroup, error)
	ListPokemon(ctx context.Context) ([]models.Pokemon, error)
	GetPokemon(ctx context.Context, id int) (*models.Pokemon, error)
}

type catalogService struct {
	catalogRepo repositories.CatalogRepository
	uploader    storage.FileUploader // nil — спрайты не переносятся
	logger      *slog.Logger
}

func NewCatalogService(catalogRepo repositories.CatalogRepository, uploader storage.FileUploader, logger *slog.Logger) CatalogService {
	return &catalogService{
		catalogRepo: catalogRepo,
		uploader:    uploader,
		logger:      logger,
	}
}

func (s *catalogService) Import(ctx context.Context, input CatalogImportInput) (*CatalogImportResult, error) {
	for _, vg := range input.VersionGroups {
		if vg.ID <= 0 || vg.Name == "" {
			return nil, fmt.Errorf("%w: version group id and name", ErrIDRequired)
		}
	}
	for _, p := range input.Pokemon {
		if p.ID <= 0 || p.Name == "" {
			return nil, fmt.Errorf("%w: pokemon id and name", ErrIDRequired)
		}
	}

	for i := range input.VersionGroups {
		in := input.VersionGroups[i]
		vg := &models.VersionGroup{ID: in.ID, Name: in.Name, Generation: in.Generation}
		if err := s.catalogRepo.UpsertVersionGroup(ctx, vg); err != nil {
			return nil, fmt.Errorf("failed to upsert version group %d: %w", in.ID, err)
		}
	}

	// Спрайты переносятся в R2 параллельно, с ограничением числа
	// одновременных загрузок. Неудачный перенос не валит импорт:
	// строка сохраняется с исходным URL.
	sprites := make([]spriteRef, len(input.Pokemon))
	if s.uploader != nil {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(spriteUploadConcurrency)
		for i := range input.Pokemon {
			i := i
			g.Go(func() error {
				sprites[i] = s.rehostSprite(gctx, input.Pokemon[i])
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, p := range input.Pokemon {
			sprites[i] = spriteRef{url: p.SpriteURL}
		}
	}

	for i := range input.Pokemon {
		in := input.Pokemon[i]
		p := &models.Pokemon{
			ID:        in.ID,
			Name:      in.Name,
			SpriteURL: sprites[i].url,
			SpriteKey: sprites[i].key,
		}
		if err := s.catalogRepo.UpsertPokemon(ctx, p); err != nil {
			return nil, fmt.Errorf("failed to upsert pokemon %d: %w", in.ID, err)
		}
	}

	return &CatalogImportResult{
		VersionGroups: len(input.VersionGroups),
		Pokemon:       len(input.Pokemon),
	}, nil
}

func (s *catalogService) ListVersionGroups(ctx context.Context) ([]models.VersionGroup, error) {
	return s.catalogRepo.ListVersionGroups(ctx)
}

func (s *catalogService) ListPokemon(ctx context.Context) ([]models.Pokemon, error) {
	return s.catalogRepo.ListPokemon(ctx)
}

func (s *catalogService) GetPokemon(ctx context.Context, id int) (*models.Pokemon, error) {
	p, err := s.catalogRepo.GetPokemon(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPokemonNotFound) {
			return nil, ErrPokemonNotFound
		}
		return nil, err
	}
	return p, nil
}

type spriteRef struct {
	url string
	key *string
}

// rehostSprite скачивает спрайт и кладёт его в хранилище под
// детерминированным ключом. Любая ошибка — откат на исходный URL.
func (s *catalogService) rehostSprite(ctx context.Context, in PokemonInput) spriteRef {
	fallback := spriteRef{url: in.SpriteURL}
	if in.SpriteURL == "" {
		return fallback
	}

	fetchCtx, cancel := context.WithTimeout(ctx, spriteFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, in.SpriteURL, nil)
	if err != nil {
		s.logger.Warn("invalid sprite url", slog.Int("pokemon_id", in.ID), slog.Any("error", err))
		return fallback
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		s.logger.Warn("failed to fetch sprite", slog.Int("pokemon_id", in.ID), slog.Any("error", err))
		return fallback
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("sprite fetch returned non-OK status",
			slog.Int("pokemon_id", in.ID), slog.Int("status", resp.StatusCode))
		return fallback
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}

	key := fmt.Sprintf("sprites/pokemon/%d.png", in.ID)
	result, err := s.uploader.Upload(ctx, key, contentType, resp.Body)
	if err != nil {
		s.logger.Warn("failed to upload sprite", slog.Int("pokemon_id", in.ID), slog.Any("error", err))
		return fallback
	}

	return spriteRef{url: result.Location, key: &result.Key}
}
