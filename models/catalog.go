package models

import "time"

// VersionGroup и Pokemon — локальный кэш внешнего каталога (PokeAPI).
// Идентификаторы совпадают с идентификаторами каталога.

type VersionGroup struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Generation string    `json:"generation"`
	CreatedAt  time.Time `json:"created_at"`
}

type Pokemon struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	SpriteURL string    `json:"sprite_url"`
	SpriteKey *string   `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
