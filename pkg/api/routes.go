package api

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API routes with the given router
func (h *Handler) RegisterRoutes(router *mux.Router) {
	// Owners
	router.HandleFunc("/owners", h.HandleCreateOwner).Methods("POST")
	router.HandleFunc("/owners", h.HandleListOwners).Methods("GET")
	router.HandleFunc("/owners/{owner}", h.HandleGetOwner).Methods("GET")
	router.HandleFunc("/owners/{owner}", h.HandleRenameOwner).Methods("PUT")
	router.HandleFunc("/owners/{owner}", h.HandleDeleteOwner).Methods("DELETE")

	// Genres
	router.HandleFunc("/owners/{owner}/genres", h.HandleCreateGenre).Methods("POST")
	router.HandleFunc("/owners/{owner}/genres", h.HandleListGenres).Methods("GET")
	router.HandleFunc("/owners/{owner}/genres/{genre}", h.HandleDeleteGenre).Methods("DELETE")

	// Books
	router.HandleFunc("/owners/{owner}/genres/{genre}/books", h.HandleAddBooks).Methods("POST")
	router.HandleFunc("/owners/{owner}/genres/{genre}/upload", h.HandleUploadBooks).Methods("POST")
	router.HandleFunc("/owners/{owner}/genres/{genre}/books/{book}", h.HandleGetBook).Methods("GET")
	router.HandleFunc("/owners/{owner}/genres/{genre}/books/{book}", h.HandleUpdateBook).Methods("PUT")
	router.HandleFunc("/owners/{owner}/genres/{genre}/books/{book}", h.HandleDeleteBook).Methods("DELETE")

	// Search
	router.HandleFunc("/owners/{owner}/search", h.HandleSearch).Methods("GET", "POST")

	router.HandleFunc("/health", h.HandleHealth).Methods("GET")
}
