package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/bizdir/internal/server/models"
	"github.com/dmitrijs2005/bizdir/internal/server/pagination"
)

type createdResponse struct {
	ID int64 `json:"id"`
}

func (a *API) listBusinesses(w http.ResponseWriter, r *http.Request) {
	page := pagination.ParsePage(r.URL.Query().Get("page"))
	p, err := a.businesses.List(r.Context(), page)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) createBusiness(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.authorize(w, r, a.required(r))
	if !ok {
		return
	}
	var in models.NewBusiness
	if err := decodeJSON(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	b, err := a.businesses.Create(r.Context(), caller, &in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: b.ID})
}

func (a *API) getBusiness(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	b, err := a.businesses.Get(r.Context(), id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (a *API) updateBusiness(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	caller, ok := a.authorize(w, r, a.required(r))
	if !ok {
		return
	}
	var patch models.BusinessPatch
	if err := decodeJSON(r, &patch); err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := a.businesses.Update(r.Context(), caller, id, &patch); err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) deleteBusiness(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	caller, ok := a.authorize(w, r, a.required(r))
	if !ok {
		return
	}
	if err := a.businesses.Delete(r.Context(), caller, id); err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
