package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
)

type apiClient struct {
	t       *testing.T
	baseURL string
	access  string
}

func (c *apiClient) do(method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	c.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		c.t.Fatalf("failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.access != "" {
		req.Header.Set("Authorization", "Bearer "+c.access)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		c.t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	decoded := map[string]interface{}{}
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func (c *apiClient) expect(method, path string, body interface{}, wantStatus int) map[string]interface{} {
	c.t.Helper()
	resp, decoded := c.do(method, path, body)
	if resp.StatusCode != wantStatus {
		c.t.Fatalf("%s %s: expected status %d, got %d (body: %v)", method, path, wantStatus, resp.StatusCode, decoded)
	}
	return decoded
}

func registerUser(t *testing.T, baseURL, username, password string) *apiClient {
	t.Helper()
	client := &apiClient{t: t, baseURL: baseURL}
	body := client.expect(http.MethodPost, "/register",
		map[string]string{"username": username, "password": password}, http.StatusOK)
	access, _ := body["access"].(string)
	if access == "" {
		t.Fatalf("register did not return an access token: %v", body)
	}
	client.access = access
	return client
}

func pokemonIDs(t *testing.T, body map[string]interface{}) []int {
	t.Helper()
	raw, ok := body["pokemon"].([]interface{})
	if !ok {
		t.Fatalf("response has no pokemon list: %v", body)
	}
	ids := make([]int, 0, len(raw))
	for _, v := range raw {
		f, ok := v.(float64)
		if !ok {
			t.Fatalf("non-numeric pokemon id in %v", raw)
		}
		ids = append(ids, int(f))
	}
	return ids
}

func TestEndToEndScenario(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	// register ash → login → catch 25 in group 1 → check-session →
	// list [25] → uncatch → list []
	registerUser(t, server.URL, "ash", "pikachu")

	client := &apiClient{t: t, baseURL: server.URL}
	loginBody := client.expect(http.MethodPost, "/login",
		map[string]string{"username": "ash", "password": "pikachu"}, http.StatusOK)
	client.access = loginBody["access"].(string)

	client.expect(http.MethodPost, "/caught-pokemon",
		map[string]int{"pokemonId": 25, "gameId": 1}, http.StatusCreated)

	session := client.expect(http.MethodGet, "/check-session", nil, http.StatusOK)
	if session["username"] != "ash" {
		t.Fatalf("expected username ash, got %v", session["username"])
	}

	list := client.expect(http.MethodGet, "/caught-pokemon/game/1", nil, http.StatusOK)
	if ids := pokemonIDs(t, list); len(ids) != 1 || ids[0] != 25 {
		t.Fatalf("expected caught list [25], got %v", ids)
	}

	client.expect(http.MethodDelete, "/caught-pokemon/25/1", nil, http.StatusOK)

	list = client.expect(http.MethodGet, "/caught-pokemon/game/1", nil, http.StatusOK)
	if ids := pokemonIDs(t, list); len(ids) != 0 {
		t.Fatalf("expected empty caught list, got %v", ids)
	}
}

func TestRegisterDuplicateUsernameConflicts(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	registerUser(t, server.URL, "ash", "pikachu")

	client := &apiClient{t: t, baseURL: server.URL}
	client.expect(http.MethodPost, "/register",
		map[string]string{"username": "ash", "password": "other"}, http.StatusConflict)
}

func TestRegisterMissingFields(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	client := &apiClient{t: t, baseURL: server.URL}
	client.expect(http.MethodPost, "/register",
		map[string]string{"username": "ash"}, http.StatusBadRequest)
	client.expect(http.MethodPost, "/register",
		map[string]string{"password": "pikachu"}, http.StatusBadRequest)
}

func TestLoginBadCredentials(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	registerUser(t, server.URL, "ash", "pikachu")

	client := &apiClient{t: t, baseURL: server.URL}
	client.expect(http.MethodPost, "/login",
		map[string]string{"username": "ash", "password": "wrong"}, http.StatusUnauthorized)
}

func TestCatchLifecycleErrors(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	client := registerUser(t, server.URL, "ash", "pikachu")

	// повторная поимка — 409, не тихий no-op
	client.expect(http.MethodPost, "/caught-pokemon",
		map[string]int{"pokemonId": 25, "gameId": 1}, http.StatusCreated)
	client.expect(http.MethodPost, "/caught-pokemon",
		map[string]int{"pokemonId": 25, "gameId": 1}, http.StatusConflict)

	// отпустить непойманного — 404
	client.expect(http.MethodDelete, "/caught-pokemon/7/1", nil, http.StatusNotFound)

	// отсутствующие идентификаторы — 400
	client.expect(http.MethodPost, "/caught-pokemon",
		map[string]int{"pokemonId": 25}, http.StatusBadRequest)
	client.expect(http.MethodPost, "/caught-pokemon",
		map[string]int{"gameId": 1}, http.StatusBadRequest)
}

func TestListCaughtIsScopedToVersionGroup(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	client := registerUser(t, server.URL, "ash", "pikachu")

	for _, id := range []int{1, 4, 7} {
		client.expect(http.MethodPost, "/caught-pokemon",
			map[string]int{"pokemonId": id, "gameId": 1}, http.StatusCreated)
	}
	client.expect(http.MethodPost, "/caught-pokemon",
		map[string]int{"pokemonId": 150, "gameId": 2}, http.StatusCreated)

	list := client.expect(http.MethodGet, "/caught-pokemon/game/1", nil, http.StatusOK)
	ids := pokemonIDs(t, list)
	if fmt.Sprint(ids) != "[1 4 7]" {
		t.Fatalf("expected [1 4 7], got %v", ids)
	}

	check := client.expect(http.MethodGet, "/caught-pokemon/check/150/2", nil, http.StatusOK)
	if check["caught"] != true {
		t.Fatalf("expected pokemon 150 caught in group 2")
	}
	check = client.expect(http.MethodGet, "/caught-pokemon/check/150/1", nil, http.StatusOK)
	if check["caught"] != false {
		t.Fatalf("expected pokemon 150 not caught in group 1")
	}
}

func TestCaughtRecordsAreIsolatedBetweenUsers(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	ash := registerUser(t, server.URL, "ash", "pikachu")
	gary := registerUser(t, server.URL, "gary", "eevee")

	ash.expect(http.MethodPost, "/caught-pokemon",
		map[string]int{"pokemonId": 25, "gameId": 1}, http.StatusCreated)

	list := gary.expect(http.MethodGet, "/caught-pokemon/game/1", nil, http.StatusOK)
	if ids := pokemonIDs(t, list); len(ids) != 0 {
		t.Fatalf("expected gary's list to be empty, got %v", ids)
	}

	// та же тройка у другого пользователя — не конфликт
	gary.expect(http.MethodPost, "/caught-pokemon",
		map[string]int{"pokemonId": 25, "gameId": 1}, http.StatusCreated)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	anon := &apiClient{t: t, baseURL: server.URL}
	garbage := &apiClient{t: t, baseURL: server.URL, access: "garbage"}

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/check-session"},
		{http.MethodPost, "/caught-pokemon"},
		{http.MethodDelete, "/caught-pokemon/25/1"},
		{http.MethodGet, "/caught-pokemon/game/1"},
		{http.MethodGet, "/caught-pokemon/check/25/1"},
		{http.MethodPost, "/teams"},
		{http.MethodPost, "/catalog/import"},
	} {
		resp, _ := anon.do(tc.method, tc.path, nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s %s without token: expected 401, got %d", tc.method, tc.path, resp.StatusCode)
		}
		resp, _ = garbage.do(tc.method, tc.path, nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s %s with garbage token: expected 401, got %d", tc.method, tc.path, resp.StatusCode)
		}
	}
}

func TestLogoutAndRefresh(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	client := &apiClient{t: t, baseURL: server.URL}
	body := client.expect(http.MethodPost, "/register",
		map[string]string{"username": "ash", "password": "pikachu"}, http.StatusOK)
	client.access = body["access"].(string)
	refresh := body["refresh"].(string)

	// refresh выдаёт новую рабочую пару
	refreshed := client.expect(http.MethodPost, "/refresh",
		map[string]string{"refresh": refresh}, http.StatusOK)
	if access, _ := refreshed["access"].(string); access == "" {
		t.Fatalf("refresh returned no access token: %v", refreshed)
	}

	client.expect(http.MethodPost, "/logout",
		map[string]string{"refresh": refresh}, http.StatusOK)

	// отозванный refresh больше не работает
	client.expect(http.MethodPost, "/refresh",
		map[string]string{"refresh": refresh}, http.StatusUnauthorized)

	// кривой refresh в logout — 500
	client.expect(http.MethodPost, "/logout",
		map[string]string{"refresh": "not-a-token"}, http.StatusInternalServerError)
}

func TestTeamRosterOverHTTP(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	client := registerUser(t, server.URL, "ash", "pikachu")

	created := client.expect(http.MethodPost, "/teams",
		map[string]interface{}{"name": "Kanto Six", "gameId": 1}, http.StatusCreated)
	team, ok := created["team"].(map[string]interface{})
	if !ok {
		t.Fatalf("create team returned no team: %v", created)
	}
	teamID := int(team["id"].(float64))

	membersPath := fmt.Sprintf("/teams/%d/members", teamID)
	client.expect(http.MethodPost, membersPath,
		map[string]int{"pokemonId": 25, "position": 1}, http.StatusCreated)

	// занятый слот — 409, без перезаписи
	client.expect(http.MethodPost, membersPath,
		map[string]int{"pokemonId": 6, "position": 1}, http.StatusConflict)

	// позиция вне [1,6] — 400
	client.expect(http.MethodPost, membersPath,
		map[string]int{"pokemonId": 6, "position": 7}, http.StatusBadRequest)

	got := client.expect(http.MethodGet, fmt.Sprintf("/teams/%d", teamID), nil, http.StatusOK)
	gotTeam := got["team"].(map[string]interface{})
	members := gotTeam["members"].([]interface{})
	if len(members) != 1 {
		t.Fatalf("expected one member, got %v", members)
	}

	// чужая команда недоступна
	gary := registerUser(t, server.URL, "gary", "eevee")
	gary.expect(http.MethodGet, fmt.Sprintf("/teams/%d", teamID), nil, http.StatusForbidden)

	client.expect(http.MethodDelete, fmt.Sprintf("/teams/%d/members/1", teamID), nil, http.StatusOK)
	client.expect(http.MethodDelete, fmt.Sprintf("/teams/%d/members/1", teamID), nil, http.StatusNotFound)

	client.expect(http.MethodDelete, fmt.Sprintf("/teams/%d", teamID), nil, http.StatusOK)
	client.expect(http.MethodGet, fmt.Sprintf("/teams/%d", teamID), nil, http.StatusNotFound)
}

func TestCatalogImportAndRead(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	client := registerUser(t, server.URL, "ash", "pikachu")

	imported := client.expect(http.MethodPost, "/catalog/import", map[string]interface{}{
		"versionGroups": []map[string]interface{}{
			{"id": 1, "name": "red-blue", "generation": "generation-i"},
		},
		"pokemon": []map[string]interface{}{
			{"id": 25, "name": "pikachu", "spriteUrl": "https://sprites.example/25.png"},
		},
	}, http.StatusOK)
	result := imported["imported"].(map[string]interface{})
	if result["pokemon"].(float64) != 1 || result["versionGroups"].(float64) != 1 {
		t.Fatalf("unexpected import result: %v", result)
	}

	// каталог читается без токена
	anon := &apiClient{t: t, baseURL: server.URL}
	groups := anon.expect(http.MethodGet, "/catalog/version-groups", nil, http.StatusOK)
	if len(groups["versionGroups"].([]interface{})) != 1 {
		t.Fatalf("expected one version group: %v", groups)
	}

	pokemon := anon.expect(http.MethodGet, "/catalog/pokemon/25", nil, http.StatusOK)
	p := pokemon["pokemon"].(map[string]interface{})
	if p["name"] != "pikachu" {
		t.Fatalf("unexpected pokemon: %v", p)
	}

	anon.expect(http.MethodGet, "/catalog/pokemon/999", nil, http.StatusNotFound)
}
