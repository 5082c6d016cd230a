package handlers_test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/pokedex-tracker/handlers"
	"github.com/Dosada05/pokedex-tracker/models"
	"github.com/Dosada05/pokedex-tracker/repositories"
	"github.com/Dosada05/pokedex-tracker/routes"
	"github.com/Dosada05/pokedex-tracker/services"
	"github.com/go-chi/chi/v5"
)

// In-memory репозитории с теми же инвариантами, что и constraints в БД.

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Username]; exists {
		return repositories.ErrUserUsernameConflict
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	stored := *user
	r.users[user.Username] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, u := range r.users {
		if u.ID == id {
			delete(r.users, name)
			return nil
		}
	}
	return repositories.ErrUserNotFound
}

type catchKey struct {
	userID, pokemonID, versionGroupID int
}

type fakeCaughtRepo struct {
	mu     sync.Mutex
	nextID int
	rows   map[catchKey]*models.CaughtPokemon
}

func newFakeCaughtRepo() *fakeCaughtRepo {
	return &fakeCaughtRepo{rows: make(map[catchKey]*models.CaughtPokemon)}
}

func (r *fakeCaughtRepo) Create(_ context.Context, caught *models.CaughtPokemon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := catchKey{caught.UserID, caught.PokemonID, caught.VersionGroupID}
	if _, exists := r.rows[key]; exists {
		return repositories.ErrCaughtConflict
	}
	r.nextID++
	caught.ID = r.nextID
	caught.CaughtAt = time.Now()
	stored := *caught
	r.rows[key] = &stored
	return nil
}

func (r *fakeCaughtRepo) Delete(_ context.Context, userID, pokemonID, versionGroupID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := catchKey{userID, pokemonID, versionGroupID}
	if _, exists := r.rows[key]; !exists {
		return repositories.ErrCaughtNotFound
	}
	delete(r.rows, key)
	return nil
}

func (r *fakeCaughtRepo) ListPokemonIDs(_ context.Context, userID, versionGroupID int) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int, 0)
	for key := range r.rows {
		if key.userID == userID && key.versionGroupID == versionGroupID {
			ids = append(ids, key.pokemonID)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func (r *fakeCaughtRepo) Exists(_ context.Context, userID, pokemonID, versionGroupID int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.rows[catchKey{userID, pokemonID, versionGroupID}]
	return exists, nil
}

type fakeTokenRepo struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{revoked: make(map[string]bool)}
}

func (r *fakeTokenRepo) Revoke(_ context.Context, jti string, _ int, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[jti] = true
	return nil
}

func (r *fakeTokenRepo) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.revoked[jti], nil
}

func (r *fakeTokenRepo) DeleteExpired(_ context.Context) (int64, error) {
	return 0, nil
}

type fakeTeamRepo struct {
	mu      sync.Mutex
	nextID  int
	teams   map[int]*models.Team
	members map[int][]models.TeamMember
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{
		teams:   make(map[int]*models.Team),
		members: make(map[int][]models.TeamMember),
	}
}

func (r *fakeTeamRepo) Create(_ context.Context, team *models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	team.ID = r.nextID
	team.CreatedAt = time.Now()
	stored := *team
	r.teams[team.ID] = &stored
	return nil
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	team, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := *team
	return &copied, nil
}

func (r *fakeTeamRepo) ListByUser(_ context.Context, userID, versionGroupID int) ([]models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	teams := make([]models.Team, 0)
	for _, team := range r.teams {
		if team.UserID == userID && (versionGroupID == 0 || team.VersionGroupID == versionGroupID) {
			teams = append(teams, *team)
		}
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })
	return teams, nil
}

func (r *fakeTeamRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(r.teams, id)
	delete(r.members, id)
	return nil
}

func (r *fakeTeamRepo) AddMember(_ context.Context, member *models.TeamMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.teams[member.TeamID]; !ok {
		return repositories.ErrTeamNotFound
	}
	if member.Position < models.TeamMinPosition || member.Position > models.TeamMaxPosition {
		return repositories.ErrTeamInvalidPosition
	}
	for _, existing := range r.members[member.TeamID] {
		if existing.Position == member.Position {
			return repositories.ErrTeamSlotConflict
		}
	}
	r.nextID++
	member.ID = r.nextID
	r.members[member.TeamID] = append(r.members[member.TeamID], *member)
	return nil
}

func (r *fakeTeamRepo) RemoveMember(_ context.Context, teamID, position int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	members := r.members[teamID]
	for i, member := range members {
		if member.Position == position {
			r.members[teamID] = append(members[:i], members[i+1:]...)
			return nil
		}
	}
	return repositories.ErrTeamMemberNotFound
}

func (r *fakeTeamRepo) ListMembers(_ context.Context, teamID int) ([]models.TeamMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	members := append([]models.TeamMember(nil), r.members[teamID]...)
	sort.Slice(members, func(i, j int) bool { return members[i].Position < members[j].Position })
	return members, nil
}

type fakeCatalogRepo struct {
	mu            sync.Mutex
	versionGroups map[int]models.VersionGroup
	pokemon       map[int]models.Pokemon
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		versionGroups: make(map[int]models.VersionGroup),
		pokemon:       make(map[int]models.Pokemon),
	}
}

func (r *fakeCatalogRepo) UpsertVersionGroup(_ context.Context, vg *models.VersionGroup) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	vg.CreatedAt = time.Now()
	r.versionGroups[vg.ID] = *vg
	return nil
}

func (r *fakeCatalogRepo) UpsertPokemon(_ context.Context, p *models.Pokemon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.pokemon[p.ID] = *p
	return nil
}

func (r *fakeCatalogRepo) ListVersionGroups(_ context.Context) ([]models.VersionGroup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	groups := make([]models.VersionGroup, 0, len(r.versionGroups))
	for _, vg := range r.versionGroups {
		groups = append(groups, vg)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })
	return groups, nil
}

func (r *fakeCatalogRepo) ListPokemon(_ context.Context) ([]models.Pokemon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]models.Pokemon, 0, len(r.pokemon))
	for _, p := range r.pokemon {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *fakeCatalogRepo) GetPokemon(_ context.Context, id int) (*models.Pokemon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pokemon[id]
	if !ok {
		return nil, repositories.ErrPokemonNotFound
	}
	return &p, nil
}

// newTestServer собирает полный стек приложения на in-memory репозиториях.
func newTestServer() *httptest.Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokenManager := services.NewTokenManager("test-secret", 15*time.Minute, 24*time.Hour)
	authService := services.NewAuthService(newFakeUserRepo(), newFakeTokenRepo(), tokenManager)
	trackingService := services.NewTrackingService(newFakeCaughtRepo())
	teamService := services.NewTeamService(newFakeTeamRepo())
	catalogService := services.NewCatalogService(newFakeCatalogRepo(), nil, logger)

	router := chi.NewRouter()
	routes.SetupRoutes(
		router,
		tokenManager,
		[]string{"*"},
		handlers.NewAuthHandler(authService),
		handlers.NewTrackingHandler(trackingService),
		handlers.NewTeamHandler(teamService),
		handlers.NewCatalogHandler(catalogService),
	)

	return httptest.NewServer(router)
}
