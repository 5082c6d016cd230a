package models

import "time"

const (
	TeamMinPosition = 1
	TeamMaxPosition = 6
)

type Team struct {
	ID             int       `json:"id"`
	UserID         int       `json:"user_id"`
	VersionGroupID int       `json:"version_group_id"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"created_at"`

	Members []TeamMember `json:"members,omitempty"`
}

type TeamMember struct {
	ID        int     `json:"id"`
	TeamID    int     `json:"team_id"`
	PokemonID int     `json:"pokemon_id"`
	Position  int     `json:"position"`
	Nickname  *string `json:"nickname,omitempty"`
}
