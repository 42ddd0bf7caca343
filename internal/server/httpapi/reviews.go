package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/bizdir/internal/server/models"
)

func (a *API) createReview(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.authorize(w, r, a.required(r))
	if !ok {
		return
	}
	var in models.NewReview
	if err := decodeJSON(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	rv, err := a.reviews.Create(r.Context(), caller, &in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: rv.ID})
}

func (a *API) getReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	rv, err := a.reviews.Get(r.Context(), id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rv)
}

func (a *API) updateReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	caller, ok := a.authorize(w, r, a.required(r))
	if !ok {
		return
	}
	var patch models.ReviewPatch
	if err := decodeJSON(r, &patch); err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := a.reviews.Update(r.Context(), caller, id, &patch); err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) deleteReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	caller, ok := a.authorize(w, r, a.required(r))
	if !ok {
		return
	}
	if err := a.reviews.Delete(r.Context(), caller, id); err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
