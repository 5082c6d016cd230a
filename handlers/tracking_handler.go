package handlers

import (
	"net/http"

	"github.com/Dosada05/pokedex-tracker/middleware"
	"github.com/Dosada05/pokedex-tracker/services"
)

type TrackingHandler struct {
	trackingService services.TrackingService
}

func NewTrackingHandler(trackingService services.TrackingService) *TrackingHandler {
	return &TrackingHandler{trackingService: trackingService}
}

type catchInput struct {
	PokemonID      int `json:"pokemonId"`
	VersionGroupID int `json:"gameId"`
}

func (h *TrackingHandler) Catch(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	var input catchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if _, err := h.trackingService.Catch(r.Context(), identity.UserID, input.PokemonID, input.VersionGroupID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"success": true}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TrackingHandler) Uncatch(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	pokemonID, err := idParam(r, "pokemonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	versionGroupID, err := idParam(r, "versionGroupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.trackingService.Uncatch(r.Context(), identity.UserID, pokemonID, versionGroupID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"success": true}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TrackingHandler) ListCaught(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	versionGroupID, err := idParam(r, "versionGroupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	ids, err := h.trackingService.ListCaught(r.Context(), identity.UserID, versionGroupID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"pokemon": ids}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TrackingHandler) CheckCaught(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	pokemonID, err := idParam(r, "pokemonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	versionGroupID, err := idParam(r, "versionGroupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	caught, err := h.trackingService.IsCaught(r.Context(), identity.UserID, pokemonID, versionGroupID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"caught": caught}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
