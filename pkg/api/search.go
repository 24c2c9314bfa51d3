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

// HandleSearch handles GET and POST /owners/{owner}/search. GET reads the
// search from query parameters, POST from a JSON body with the same names.
// A POST body without a genre falls back to the ?genre= parameter.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ownerID := mux.Vars(r)["owner"]

	log.Printf("INFO: handleSearch called for owner '%s'", ownerID)

	req, err := searchRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.catalog.Search(r.Context(), ownerID, req)
	if err != nil {
		log.Printf("ERROR: Search for owner '%s' failed: %v", ownerID, err)
		WriteError(w, err)
		return
	}

	log.Printf("INFO: Search for owner '%s' matched %d books in %dms", ownerID, result.Total, result.Took)
	WriteJSON(w, http.StatusOK, result)
}

func searchRequest(r *http.Request) (catalog.SearchRequest, error) {
	var req catalog.SearchRequest
	if r.Method == http.MethodPost {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return req, domain.BadRequest("Invalid request body")
		}
		if len(bytes.TrimSpace(body)) > 0 {
			if err := json.Unmarshal(body, &req); err != nil {
				log.Printf("ERROR: Decoding search body failed: %v", err)
				return req, domain.BadRequest("Invalid request body")
			}
		}
		if req.Genre == "" {
			req.Genre = r.URL.Query().Get("genre")
		}
		return req, nil
	}

	q := r.URL.Query()
	req.Genre = q.Get("genre")
	req.Term = q.Get("search_term")
	req.Fields = q.Get("search_fields")
	req.ReturnFields = q.Get("return_fields")

	var err error
	if req.Exact, err = boolParam(r, "exact"); err != nil {
		return req, err
	}
	if req.From, err = intParam(r, "from"); err != nil {
		return req, err
	}
	if req.Count, err = intParam(r, "count"); err != nil {
		return req, err
	}
	return req, nil
}
