package api

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

// UploadField is the multipart form field holding the book file
const UploadField = "file"

// HandleUploadBooks handles POST /owners/{owner}/genres/{genre}/upload.
// The file must be a .json file containing an array of books.
func (h *Handler) HandleUploadBooks(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ownerID, genre := vars["owner"], vars["genre"]

	log.Printf("INFO: handleUploadBooks called for owner '%s', genre '%s'", ownerID, genre)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, header, err := r.FormFile(UploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteJSONError(w, http.StatusRequestEntityTooLarge, "Uploaded file is too large")
			return
		}
		log.Printf("ERROR: Reading upload failed: %v", err)
		WriteJSONError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		log.Printf("ERROR: Reading uploaded file '%s' failed: %v", header.Filename, err)
		WriteJSONError(w, http.StatusBadRequest, "Invalid file")
		return
	}

	failures, err := h.catalog.ImportBooks(r.Context(), ownerID, genre, header.Filename, content)
	if err != nil {
		log.Printf("ERROR: Importing '%s' into '%s/%s' failed: %v", header.Filename, ownerID, genre, err)
		WriteError(w, err)
		return
	}

	log.Printf("INFO: Imported '%s' into '%s/%s' with %d failures", header.Filename, ownerID, genre, len(failures))
	WriteJSON(w, http.StatusOK, failures)
}
