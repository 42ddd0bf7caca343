package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/bizdir/internal/common"
	"github.com/dmitrijs2005/bizdir/internal/server/authz"
	"github.com/go-chi/chi/v5"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

var errBadID = errors.New("invalid id")

type errorBody struct {
	Error    string   `json:"error"`
	Messages []string `json:"messages,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return common.NewValidationError(fmt.Sprintf("malformed JSON body: %v", err))
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: %q", errBadID, chi.URLParam(r, name))
	}
	return id, nil
}

// writeError maps err onto a status code and error body. Unexpected
// errors are logged and answered with a generic 500.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *common.ValidationError
		fe *authz.ForbiddenError
	)

	switch {
	case errors.Is(err, errBadID):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})

	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "validation failed", Messages: ve.Messages})

	case errors.Is(err, common.ErrMissingCredentials):
		a.metrics.AuthFailure("missing_credentials")
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Missing or invalid authorization header"})

	case errors.Is(err, common.ErrInvalidToken):
		reason := "invalid_token"
		if errors.Is(err, common.ErrTokenExpired) {
			reason = "expired_token"
		}
		a.metrics.AuthFailure(reason)
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Missing or invalid JWT"})

	case errors.Is(err, common.ErrorInvalidLoginPassword):
		a.metrics.AuthFailure("bad_password")
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: err.Error()})

	case errors.As(err, &fe):
		a.metrics.Denied(fe.Kind, string(fe.Action))
		a.logger.Warn(r.Context(), "access denied", "subject_id", fe.SubjectID, "action", fe.Action, "kind", fe.Kind, "target_id", fe.TargetID)
		writeJSON(w, http.StatusForbidden, errorBody{Error: fe.Error()})

	case errors.Is(err, common.ErrForbidden):
		a.metrics.Denied("account", "create")
		writeJSON(w, http.StatusForbidden, errorBody{Error: err.Error()})

	case errors.Is(err, common.ErrorNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Requested resource not found"})

	default:
		a.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}
