package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/pokedex-tracker/models"
	"github.com/Dosada05/pokedex-tracker/repositories"
)

// TrackingService — учёт пойманных покемонов. Все операции работают
// только с записями переданного userID; чужие данные недостижимы.
type TrackingService interface {
	Catch(ctx context.Context, userID, pokemonID, versionGroupID int) (*models.CaughtPokemon, error)
	Uncatch(ctx context.Context, userID, pokemonID, versionGroupID int) error
	ListCaught(ctx context.Context, userID, versionGroupID int) ([]int, error)
	IsCaught(ctx context.Context, userID, pokemonID, versionGroupID int) (bool, error)
}

type trackingService struct {
	caughtRepo repositories.CaughtPokemonRepository
}

func NewTrackingService(caughtRepo repositories.CaughtPokemonRepository) TrackingService {
	return &trackingService{caughtRepo: caughtRepo}
}

// Catch создаёт запись о поимке. Повтор той же тройки — ErrAlreadyCaught:
// конфликт поднимается от unique constraint, без проверки перед вставкой,
// поэтому двойной клик с двух соединений даёт ровно одну запись.
func (s *trackingService) Catch(ctx context.Context, userID, pokemonID, versionGroupID int) (*models.CaughtPokemon, error) {
	if pokemonID <= 0 || versionGroupID <= 0 {
		return nil, ErrIDRequired
	}

	caught := &models.CaughtPokemon{
		UserID:         userID,
		PokemonID:      pokemonID,
		VersionGroupID: versionGroupID,
	}

	if err := s.caughtRepo.Create(ctx, caught); err != nil {
		if errors.Is(err, repositories.ErrCaughtConflict) {
			return nil, ErrAlreadyCaught
		}
		return nil, fmt.Errorf("failed to create caught record: %w", err)
	}
	return caught, nil
}

func (s *trackingService) Uncatch(ctx context.Context, userID, pokemonID, versionGroupID int) error {
	if pokemonID <= 0 || versionGroupID <= 0 {
		return ErrIDRequired
	}

	err := s.caughtRepo.Delete(ctx, userID, pokemonID, versionGroupID)
	if err != nil {
		if errors.Is(err, repositories.ErrCaughtNotFound) {
			return ErrNotCaught
		}
		return fmt.Errorf("failed to delete caught record: %w", err)
	}
	return nil
}

func (s *trackingService) ListCaught(ctx context.Context, userID, versionGroupID int) ([]int, error) {
	if versionGroupID <= 0 {
		return nil, ErrIDRequired
	}

	ids, err := s.caughtRepo.ListPokemonIDs(ctx, userID, versionGroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list caught pokemon: %w", err)
	}
	return ids, nil
}

func (s *trackingService) IsCaught(ctx context.Context, userID, pokemonID, versionGroupID int) (bool, error) {
	if pokemonID <= 0 || versionGroupID <= 0 {
		return false, ErrIDRequired
	}

	caught, err := s.caughtRepo.Exists(ctx, userID, pokemonID, versionGroupID)
	if err != nil {
		return false, fmt.Errorf("failed to check caught status: %w", err)
	}
	return caught, nil
}
