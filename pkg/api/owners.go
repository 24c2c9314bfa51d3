package api

import (
	"log"
	"net/http"

	"github.com/adfharrison1/go-catalog/pkg/catalog"
	"github.com/gorilla/mux"
)

// OwnerRequest is the body of owner create and rename
type OwnerRequest struct {
	Name string `json:"name"`
}

// CreatedResponse carries the id of a newly created resource
type CreatedResponse struct {
	ID string `json:"id"`
}

// HandleCreateOwner handles POST /owners
func (h *Handler) HandleCreateOwner(w http.ResponseWriter, r *http.Request) {
	log.Printf("INFO: handleCreateOwner called")

	var req OwnerRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	id, err := h.catalog.CreateOwner(r.Context(), req.Name)
	if err != nil {
		log.Printf("ERROR: Creating owner '%s' failed: %v", req.Name, err)
		WriteError(w, err)
		return
	}

	log.Printf("INFO: Created owner '%s' with id '%s'", req.Name, id)
	WriteJSON(w, http.StatusCreated, CreatedResponse{ID: id})
}

// HandleListOwners handles GET /owners with optional user_name, from and count
func (h *Handler) HandleListOwners(w http.ResponseWriter, r *http.Request) {
	log.Printf("INFO: handleListOwners called")

	from, err := intParam(r, "from")
	if err != nil {
		WriteError(w, err)
		return
	}
	count, err := intParam(r, "count")
	if err != nil {
		WriteError(w, err)
		return
	}
	page, err := h.catalog.NewPage(from, count)
	if err != nil {
		WriteError(w, err)
		return
	}

	owners, err := h.catalog.ListOwners(r.Context(), catalog.ListOwnersRequest{
		Name: r.URL.Query().Get("user_name"),
		Page: page,
	})
	if err != nil {
		log.Printf("ERROR: Listing owners failed: %v", err)
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, owners)
}

// HandleGetOwner handles GET /owners/{owner}
func (h *Handler) HandleGetOwner(w http.ResponseWriter, r *http.Request) {
	ownerID := mux.Vars(r)["owner"]

	log.Printf("INFO: handleGetOwner called for owner '%s'", ownerID)

	owner, err := h.catalog.GetOwner(r.Context(), ownerID)
	if err != nil {
		log.Printf("ERROR: Reading owner '%s' failed: %v", ownerID, err)
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, owner)
}

// HandleRenameOwner handles PUT /owners/{owner}
func (h *Handler) HandleRenameOwner(w http.ResponseWriter, r *http.Request) {
	ownerID := mux.Vars(r)["owner"]

	log.Printf("INFO: handleRenameOwner called for owner '%s'", ownerID)

	var req OwnerRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	if err := h.catalog.RenameOwner(r.Context(), ownerID, req.Name); err != nil {
		log.Printf("ERROR: Renaming owner '%s' failed: %v", ownerID, err)
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, CreatedResponse{ID: ownerID})
}

// HandleDeleteOwner handles DELETE /owners/{owner}. The owner and every genre
// collection it has are removed; collections that could not be deleted are
// listed in the report.
func (h *Handler) HandleDeleteOwner(w http.ResponseWriter, r *http.Request) {
	ownerID := mux.Vars(r)["owner"]

	log.Printf("INFO: handleDeleteOwner called for owner '%s'", ownerID)

	report, err := h.catalog.DeleteOwner(r.Context(), ownerID)
	if err != nil {
		log.Printf("ERROR: Deleting owner '%s' failed: %v", ownerID, err)
		WriteError(w, err)
		return
	}

	log.Printf("INFO: Deleted owner '%s' (%d genres deleted, %d failed)", ownerID, len(report.Deleted), len(report.Failed))
	WriteJSON(w, http.StatusOK, report)
}
