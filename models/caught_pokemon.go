package models

import "time"

// CaughtPokemon — факт поимки: (user_id, pokemon_id, version_group_id) уникальна.
// pokemon_id и version_group_id хранятся как простые идентификаторы каталога,
// без внешних ключей — пользовательские данные не зависят от состояния кэша.
type CaughtPokemon struct {
	ID             int       `json:"id"`
	UserID         int       `json:"user_id"`
	PokemonID      int       `json:"pokemon_id"`
	VersionGroupID int       `json:"version_group_id"`
	Nickname       *string   `json:"nickname,omitempty"`
	CaughtAt       time.Time `json:"caught_at"`
}
