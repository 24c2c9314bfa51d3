package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/adfharrison1/go-catalog/pkg/catalog"
	"github.com/adfharrison1/go-catalog/pkg/domain"
	"github.com/gorilla/mux"
)

// HandleAddBooks handles POST /owners/{owner}/genres/{genre}/books.
// A JSON object creates one book and answers 201 with its id; a JSON array is
// bulk-indexed and answers 200 with the list of rejected items.
func (h *Handler) HandleAddBooks(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ownerID, genre := vars["owner"], vars["genre"]

	log.Printf("INFO: handleAddBooks called for owner '%s', genre '%s'", ownerID, genre)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("ERROR: Reading body failed: %v", err)
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	trimmed := bytes.TrimSpace(body)
	switch {
	case len(trimmed) > 0 && trimmed[0] == '[':
		books, err := catalog.ParseBookArray(trimmed)
		if err != nil {
			WriteError(w, err)
			return
		}
		failures, err := h.catalog.AddBooks(r.Context(), ownerID, genre, books)
		if err != nil {
			log.Printf("ERROR: Adding %d books to '%s/%s' failed: %v", len(books), ownerID, genre, err)
			WriteError(w, err)
			return
		}
		log.Printf("INFO: Added %d books to '%s/%s' with %d failures", len(books), ownerID, genre, len(failures))
		WriteJSON(w, http.StatusOK, failures)

	case len(trimmed) > 0 && trimmed[0] == '{':
		var book domain.Document
		if err := json.Unmarshal(trimmed, &book); err != nil {
			WriteJSONError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		id, err := h.catalog.AddBook(r.Context(), ownerID, genre, book)
		if err != nil {
			log.Printf("ERROR: Adding book to '%s/%s' failed: %v", ownerID, genre, err)
			WriteError(w, err)
			return
		}
		log.Printf("INFO: Added book '%s' to '%s/%s'", id, ownerID, genre)
		WriteJSON(w, http.StatusCreated, CreatedResponse{ID: id})

	default:
		WriteJSONError(w, http.StatusBadRequest, "Expected a book object or an array of books")
	}
}

// HandleGetBook handles GET /owners/{owner}/genres/{genre}/books/{book}
func (h *Handler) HandleGetBook(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ownerID, genre, bookID := vars["owner"], vars["genre"], vars["book"]

	log.Printf("INFO: handleGetBook called for '%s/%s', book '%s'", ownerID, genre, bookID)

	source, err := h.catalog.GetBook(r.Context(), ownerID, genre, bookID, r.URL.Query().Get("return_fields"))
	if err != nil {
		log.Printf("ERROR: Book '%s' not readable in '%s/%s': %v", bookID, ownerID, genre, err)
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, source)
}

// HandleUpdateBook handles PUT /owners/{owner}/genres/{genre}/books/{book} (partial update)
func (h *Handler) HandleUpdateBook(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ownerID, genre, bookID := vars["owner"], vars["genre"], vars["book"]

	log.Printf("INFO: handleUpdateBook called for '%s/%s', book '%s'", ownerID, genre, bookID)

	var patch domain.Document
	if err := decodeBody(r, &patch); err != nil {
		WriteError(w, err)
		return
	}
	if len(patch) == 0 {
		WriteJSONError(w, http.StatusBadRequest, "No fields to update")
		return
	}

	if err := h.catalog.UpdateBook(r.Context(), ownerID, genre, bookID, patch); err != nil {
		log.Printf("ERROR: Updating book '%s' in '%s/%s' failed: %v", bookID, ownerID, genre, err)
		WriteError(w, err)
		return
	}

	log.Printf("INFO: Updated book '%s' in '%s/%s'", bookID, ownerID, genre)
	WriteJSON(w, http.StatusOK, CreatedResponse{ID: bookID})
}

// HandleDeleteBook handles DELETE /owners/{owner}/genres/{genre}/books/{book}
func (h *Handler) HandleDeleteBook(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ownerID, genre, bookID := vars["owner"], vars["genre"], vars["book"]

	log.Printf("INFO: handleDeleteBook called for '%s/%s', book '%s'", ownerID, genre, bookID)

	if err := h.catalog.DeleteBook(r.Context(), ownerID, genre, bookID); err != nil {
		log.Printf("ERROR: Deleting book '%s' from '%s/%s' failed: %v", bookID, ownerID, genre, err)
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
