package services

import "errors"

// Общие ошибки сервисного слоя, используемые в маппинге HTTP.
var (
	// Валидация входных данных
	ErrCredentialsRequired = errors.New("username and password are required")
	ErrIDRequired          = errors.New("pokemon id and game id are required")
	ErrTeamNameRequired    = errors.New("team name is required")
	ErrInvalidPosition     = errors.New("position must be between 1 and 6")

	// Аутентификация
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("token is invalid or expired")

	// Конфликты (источник истины — constraints в БД)
	ErrUsernameTaken    = errors.New("username already exists")
	ErrAlreadyCaught    = errors.New("pokemon already caught")
	ErrTeamSlotConflict = errors.New("team slot is already occupied")

	// Не найдено
	ErrNotCaught          = errors.New("pokemon not found in caught list")
	ErrTeamNotFound       = errors.New("team not found")
	ErrTeamMemberNotFound = errors.New("team member not found")
	ErrPokemonNotFound    = errors.New("pokemon not found in catalog")

	// Доступ
	ErrTeamForbidden = errors.New("team belongs to another user")
)
