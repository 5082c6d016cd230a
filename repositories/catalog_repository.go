package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/pokedex-tracker/models"
)

var ErrPokemonNotFound = errors.New("pokemon not found in catalog")

// CatalogRepository — локальный кэш справочника PokeAPI.
// Засеивается администратором, end-user его не меняет.
type CatalogRepository interface {
	UpsertVersionGroup(ctx context.Context, vg *models.VersionGroup) error
	UpsertPokemon(ctx context.Context, p *models.Pokemon) error

	ListVersionGroups(ctx context.Context) ([]models.VersionGroup, error)
	ListPokemon(ctx context.Context) ([]models.Pokemon, error)
	GetPokemon(ctx context.Context, id int) (*models.Pokemon, error)
}

type postgresCatalogRepository struct {
	db *sql.DB
}

func NewPostgresCatalogRepository(db *sql.DB) CatalogRepository {
	return &postgresCatalogRepository{db: db}
}

func (r *postgresCatalogRepository) UpsertVersionGroup(ctx context.Context, vg *models.VersionGroup) error {
	query := `
		INSERT INTO version_groups (id, name, generation)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			generation = EXCLUDED.generation
		RETURNING created_at`

	return r.db.QueryRowContext(ctx, query, vg.ID, vg.Name, vg.Generation).Scan(&vg.CreatedAt)
}

func (r *postgresCatalogRepository) UpsertPokemon(ctx context.Context, p *models.Pokemon) error {
	query := `
		INSERT INTO pokemon (id, name, sprite_url, sprite_key)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			sprite_url = EXCLUDED.sprite_url,
			sprite_key = EXCLUDED.sprite_key,
			updated_at = now()
		RETURNING created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		p.ID,
		p.Name,
		p.SpriteURL,
		p.SpriteKey,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *postgresCatalogRepository) ListVersionGroups(ctx context.Context) ([]models.VersionGroup, error) {
	query := `
		SELECT id, name, generation, created_at
		FROM version_groups
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]models.VersionGroup, 0)
	for rows.Next() {
		var vg models.VersionGroup
		if err := rows.Scan(&vg.ID, &vg.Name, &vg.Generation, &vg.CreatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, vg)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *postgresCatalogRepository) ListPokemon(ctx context.Context) ([]models.Pokemon, error) {
	query := `
		SELECT id, name, sprite_url, sprite_key, created_at, updated_at
		FROM pokemon
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]models.Pokemon, 0)
	for rows.Next() {
		var p models.Pokemon
		if err := rows.Scan(&p.ID, &p.Name, &p.SpriteURL, &p.SpriteKey, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *postgresCatalogRepository) GetPokemon(ctx context.Context, id int) (*models.Pokemon, error) {
	query := `
		SELECT id, name, sprite_url, sprite_key, created_at, updated_at
		FROM pokemon
		WHERE id = $1`

	p := &models.Pokemon{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.SpriteURL,
		&p.SpriteKey,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPokemonNotFound
		}
		return nil, err
	}
	return p, nil
}
