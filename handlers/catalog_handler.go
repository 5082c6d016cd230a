package handlers

import (
	"net/http"

	"github.com/Dosada05/pokedex-tracker/services"
)

type CatalogHandler struct {
	catalogService services.CatalogService
}

func NewCatalogHandler(catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) ListVersionGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.catalogService.ListVersionGroups(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"versionGroups": groups}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CatalogHandler) ListPokemon(w http.ResponseWriter, r *http.Request) {
	pokemon, err := h.catalogService.ListPokemon(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"pokemon": pokemon}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CatalogHandler) GetPokemon(w http.ResponseWriter, r *http.Request) {
	pokemonID, err := idParam(r, "pokemonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	pokemon, err := h.catalogService.GetPokemon(r.Context(), pokemonID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"pokemon": pokemon}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Import — административное засеивание кэша каталога.
func (h *CatalogHandler) Import(w http.ResponseWriter, r *http.Request) {
	var input services.CatalogImportInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.catalogService.Import(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"imported": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
