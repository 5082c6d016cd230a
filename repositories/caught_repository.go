package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/pokedex-tracker/models"
)

var (
	ErrCaughtNotFound = errors.New("caught pokemon record not found")
	ErrCaughtConflict = errors.New("pokemon is already caught in this version group")
)

type CaughtPokemonRepository interface {
	// Create вставляет запись о поимке. Дубликат тройки
	// (user_id, pokemon_id, version_group_id) возвращает ErrCaughtConflict —
	// уникальность гарантирует constraint, а не проверка перед вставкой.
	Create(ctx context.Context, caught *models.CaughtPokemon) error

	Delete(ctx context.Context, userID, pokemonID, versionGroupID int) error

	ListPokemonIDs(ctx context.Context, userID, versionGroupID int) ([]int, error)

	Exists(ctx context.Context, userID, pokemonID, versionGroupID int) (bool, error)
}

type postgresCaughtPokemonRepository struct {
	db *sql.DB
}

func NewPostgresCaughtPokemonRepository(db *sql.DB) CaughtPokemonRepository {
	return &postgresCaughtPokemonRepository{db: db}
}

func (r *postgresCaughtPokemonRepository) Create(ctx context.Context, caught *models.CaughtPokemon) error {
	query := `
		INSERT INTO caught_pokemon (user_id, pokemon_id, version_group_id, nickname)
		VALUES ($1, $2, $3, $4)
		RETURNING id, caught_at`

	err := r.db.QueryRowContext(ctx, query,
		caught.UserID,
		caught.PokemonID,
		caught.VersionGroupID,
		caught.Nickname,
	).Scan(&caught.ID, &caught.CaughtAt)

	if err != nil {
		return mapConstraintError(err, map[string]error{
			"caught_pokemon_unique_catch": ErrCaughtConflict,
		})
	}
	return nil
}

func (r *postgresCaughtPokemonRepository) Delete(ctx context.Context, userID, pokemonID, versionGroupID int) error {
	query := `
		DELETE FROM caught_pokemon
		WHERE user_id = $1 AND pokemon_id = $2 AND version_group_id = $3`

	result, err := r.db.ExecContext(ctx, query, userID, pokemonID, versionGroupID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCaughtNotFound)
}

func (r *postgresCaughtPokemonRepository) ListPokemonIDs(ctx context.Context, userID, versionGroupID int) ([]int, error) {
	query := `
		SELECT pokemon_id
		FROM caught_pokemon
		WHERE user_id = $1 AND version_group_id = $2
		ORDER BY pokemon_id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID, versionGroupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *postgresCaughtPokemonRepository) Exists(ctx context.Context, userID, pokemonID, versionGroupID int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM caught_pokemon
			WHERE user_id = $1 AND pokemon_id = $2 AND version_group_id = $3
		)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, pokemonID, versionGroupID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
