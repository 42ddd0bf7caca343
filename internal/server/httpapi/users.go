package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/bizdir/internal/server/authz"
	"github.com/dmitrijs2005/bizdir/internal/server/models"
)

type tokenResponse struct {
	Token string `json:"token"`
}

type registerResponse struct {
	ID int64 `json:"id"`
}

// registerUser serves anonymous sign-up as well as account creation by an
// administrator, so the identity is optional here.
func (a *API) registerUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.authorize(w, r, a.optional(r))
	if !ok {
		return
	}

	var in models.NewUser
	if err := decodeJSON(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	u, err := a.users.Register(r.Context(), caller, &in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, registerResponse{ID: u.ID})
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var in models.Credentials
	if err := decodeJSON(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	token, err := a.users.Login(r.Context(), &in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (a *API) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userID")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	caller, ok := a.authorize(w, r, a.required(r), authz.RequireAccount(id, authz.KindAccount))
	if !ok {
		return
	}
	u, err := a.users.Get(r.Context(), caller, id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (a *API) listUserBusinesses(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userID")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	caller, ok := a.authorize(w, r, a.required(r), authz.RequireAccount(id, "businesses"))
	if !ok {
		return
	}
	list, err := a.businesses.ListByOwner(r.Context(), caller, id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"businesses": list})
}

func (a *API) listUserReviews(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userID")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	caller, ok := a.authorize(w, r, a.required(r), authz.RequireAccount(id, "reviews"))
	if !ok {
		return
	}
	list, err := a.reviews.ListByUser(r.Context(), caller, id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reviews": list})
}

func (a *API) listUserPhotos(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userID")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	caller, ok := a.authorize(w, r, a.required(r), authz.RequireAccount(id, "photos"))
	if !ok {
		return
	}
	list, err := a.photos.ListByUser(r.Context(), caller, id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"photos": list})
}
