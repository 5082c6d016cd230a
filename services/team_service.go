package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/pokedex-tracker/models"
	"github.com/Dosada05/pokedex-tracker/repositories"
)

type CreateTeamInput struct {
	VersionGroupID int
	Name           string
}

type AddMemberInput struct {
	PokemonID int
	Position  int
	Nickname  *string
}

type TeamService interface {
	CreateTeam(ctx context.Context, userID int, input CreateTeamInput) (*models.Team, error)
	ListTeams(ctx context.Context, userID, versionGroupID int) ([]models.Team, error)
	GetTeam(ctx context.Context, userID, teamID int) (*models.Team, error)
	DeleteTeam(ctx context.Context, userID, teamID int) error

	AddMember(ctx context.Context, userID, teamID int, input AddMemberInput) (*models.TeamMember, error)
	RemoveMember(ctx context.Context, userID, teamID, position int) error
}

type teamService struct {
	teamRepo repositories.TeamRepository
}

func NewTeamService(teamRepo repositories.TeamRepository) TeamService {
	return &teamService{teamRepo: teamRepo}
}

func (s *teamService) CreateTeam(ctx context.Context, userID int, input CreateTeamInput) (*models.Team, error) {
	if input.Name == "" {
		return nil, ErrTeamNameRequired
	}
	if input.VersionGroupID <= 0 {
		return nil, ErrIDRequired
	}

	team := &models.Team{
		UserID:         userID,
		VersionGroupID: input.VersionGroupID,
		Name:           input.Name,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

func (s *teamService) ListTeams(ctx context.Context, userID, versionGroupID int) ([]models.Team, error) {
	teams, err := s.teamRepo.ListByUser(ctx, userID, versionGroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

func (s *teamService) GetTeam(ctx context.Context, userID, teamID int) (*models.Team, error) {
	team, err := s.getOwnedTeam(ctx, userID, teamID)
	if err != nil {
		return nil, err
	}

	members, err := s.teamRepo.ListMembers(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	team.Members = members
	return team, nil
}

func (s *teamService) DeleteTeam(ctx context.Context, userID, teamID int) error {
	if _, err := s.getOwnedTeam(ctx, userID, teamID); err != nil {
		return err
	}

	if err := s.teamRepo.Delete(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to delete team: %w", err)
	}
	return nil
}

// AddMember сажает покемона в слот. Занятый слот — ErrTeamSlotConflict от
// unique constraint; перезаписи не бывает.
func (s *teamService) AddMember(ctx context.Context, userID, teamID int, input AddMemberInput) (*models.TeamMember, error) {
	if input.Position < models.TeamMinPosition || input.Position > models.TeamMaxPosition {
		return nil, ErrInvalidPosition
	}
	if input.PokemonID <= 0 {
		return nil, ErrIDRequired
	}

	if _, err := s.getOwnedTeam(ctx, userID, teamID); err != nil {
		return nil, err
	}

	member := &models.TeamMember{
		TeamID:    teamID,
		PokemonID: input.PokemonID,
		Position:  input.Position,
		Nickname:  input.Nickname,
	}
	if err := s.teamRepo.AddMember(ctx, member); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamSlotConflict):
			return nil, ErrTeamSlotConflict
		case errors.Is(err, repositories.ErrTeamInvalidPosition):
			return nil, ErrInvalidPosition
		case errors.Is(err, repositories.ErrTeamNotFound):
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to add team member: %w", err)
	}
	return member, nil
}

func (s *teamService) RemoveMember(ctx context.Context, userID, teamID, position int) error {
	if position < models.TeamMinPosition || position > models.TeamMaxPosition {
		return ErrInvalidPosition
	}

	if _, err := s.getOwnedTeam(ctx, userID, teamID); err != nil {
		return err
	}

	err := s.teamRepo.RemoveMember(ctx, teamID, position)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamMemberNotFound) {
			return ErrTeamMemberNotFound
		}
		return fmt.Errorf("failed to remove team member: %w", err)
	}
	return nil
}

// getOwnedTeam загружает команду и проверяет владельца.
func (s *teamService) getOwnedTeam(ctx context.Context, userID, teamID int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	if team.UserID != userID {
		return nil, ErrTeamForbidden
	}
	return team, nil
}
