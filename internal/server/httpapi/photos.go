package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/bizdir/internal/server/models"
)

func (a *API) createPhoto(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.authorize(w, r, a.required(r))
	if !ok {
		return
	}
	var in models.NewPhoto
	if err := decodeJSON(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	up, err := a.photos.Create(r.Context(), caller, &in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, up)
}

func (a *API) getPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	p, err := a.photos.Get(r.Context(), id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) updatePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	caller, ok := a.authorize(w, r, a.required(r))
	if !ok {
		return
	}
	var patch models.PhotoPatch
	if err := decodeJSON(r, &patch); err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := a.photos.Update(r.Context(), caller, id, &patch); err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) deletePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	caller, ok := a.authorize(w, r, a.required(r))
	if !ok {
		return
	}
	if err := a.photos.Delete(r.Context(), caller, id); err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
