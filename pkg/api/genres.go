package api

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

// GenreRequest is the body of genre create
type GenreRequest struct {
	Genre string `json:"genre"`
}

// HandleCreateGenre handles POST /owners/{owner}/genres
func (h *Handler) HandleCreateGenre(w http.ResponseWriter, r *http.Request) {
	ownerID := mux.Vars(r)["owner"]

	var req GenreRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	log.Printf("INFO: handleCreateGenre called for owner '%s', genre '%s'", ownerID, req.Genre)

	if err := h.catalog.CreateGenre(r.Context(), ownerID, req.Genre); err != nil {
		log.Printf("ERROR: Creating genre '%s' for owner '%s' failed: %v", req.Genre, ownerID, err)
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, GenreRequest{Genre: req.Genre})
}

// HandleListGenres handles GET /owners/{owner}/genres
func (h *Handler) HandleListGenres(w http.ResponseWriter, r *http.Request) {
	ownerID := mux.Vars(r)["owner"]

	log.Printf("INFO: handleListGenres called for owner '%s'", ownerID)

	stats, err := h.catalog.ListGenres(r.Context(), ownerID)
	if err != nil {
		log.Printf("ERROR: Listing genres of owner '%s' failed: %v", ownerID, err)
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, stats)
}

// HandleDeleteGenre handles DELETE /owners/{owner}/genres/{genre}
func (h *Handler) HandleDeleteGenre(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ownerID, genre := vars["owner"], vars["genre"]

	log.Printf("INFO: handleDeleteGenre called for owner '%s', genre '%s'", ownerID, genre)

	if err := h.catalog.DeleteGenre(r.Context(), ownerID, genre); err != nil {
		log.Printf("ERROR: Deleting genre '%s' of owner '%s' failed: %v", genre, ownerID, err)
		WriteError(w, err)
		return
	}

	log.Printf("INFO: Deleted genre '%s' of owner '%s'", genre, ownerID)
	w.WriteHeader(http.StatusNoContent)
}
