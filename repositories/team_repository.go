package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/pokedex-tracker/models"
)

var (
	ErrTeamNotFound        = errors.New("team not found")
	ErrTeamMemberNotFound  = errors.New("team member not found")
	ErrTeamSlotConflict    = errors.New("team slot is already occupied")
	ErrTeamInvalidPosition = errors.New("team position must be between 1 and 6")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)

	// ListByUser возвращает команды пользователя; versionGroupID = 0
	// означает без фильтра по версии игры.
	ListByUser(ctx context.Context, userID, versionGroupID int) ([]models.Team, error)

	Delete(ctx context.Context, id int) error

	AddMember(ctx context.Context, member *models.TeamMember) error
	RemoveMember(ctx context.Context, teamID, position int) error
	ListMembers(ctx context.Context, teamID int) ([]models.TeamMember, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (user_id, version_group_id, name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		team.UserID,
		team.VersionGroupID,
		team.Name,
	).Scan(&team.ID, &team.CreatedAt)
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `
		SELECT id, user_id, version_group_id, name, created_at
		FROM teams
		WHERE id = $1`

	team := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&team.ID,
		&team.UserID,
		&team.VersionGroupID,
		&team.Name,
		&team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (r *postgresTeamRepository) ListByUser(ctx context.Context, userID, versionGroupID int) ([]models.Team, error) {
	query := `
		SELECT id, user_id, version_group_id, name, created_at
		FROM teams
		WHERE user_id = $1 AND ($2 = 0 OR version_group_id = $2)
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID, versionGroupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var team models.Team
		if err := rows.Scan(
			&team.ID,
			&team.UserID,
			&team.VersionGroupID,
			&team.Name,
			&team.CreatedAt,
		); err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

// Delete удаляет команду; участники уходят каскадом.
func (r *postgresTeamRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) AddMember(ctx context.Context, member *models.TeamMember) error {
	query := `
		INSERT INTO team_members (team_id, pokemon_id, position, nickname)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		member.TeamID,
		member.PokemonID,
		member.Position,
		member.Nickname,
	).Scan(&member.ID)

	if err != nil {
		return mapConstraintError(err, map[string]error{
			"team_members_unique_position": ErrTeamSlotConflict,
			"team_members_valid_position":  ErrTeamInvalidPosition,
			"team_members_team_id_fkey":    ErrTeamNotFound,
		})
	}
	return nil
}

func (r *postgresTeamRepository) RemoveMember(ctx context.Context, teamID, position int) error {
	query := `DELETE FROM team_members WHERE team_id = $1 AND position = $2`

	result, err := r.db.ExecContext(ctx, query, teamID, position)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamMemberNotFound)
}

func (r *postgresTeamRepository) ListMembers(ctx context.Context, teamID int) ([]models.TeamMember, error) {
	query := `
		SELECT id, team_id, pokemon_id, position, nickname
		FROM team_members
		WHERE team_id = $1
		ORDER BY position ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]models.TeamMember, 0)
	for rows.Next() {
		var member models.TeamMember
		if err := rows.Scan(
			&member.ID,
			&member.TeamID,
			&member.PokemonID,
			&member.Position,
			&member.Nickname,
		); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return members, nil
}
