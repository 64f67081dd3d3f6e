package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/tendant/resource-hub/pkg/resourcehub"
)

// ErrorResponse is the JSON body returned for failed requests
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain errors onto HTTP status codes and renders a
// JSON error body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, resourcehub.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, resourcehub.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, resourcehub.ErrPostNotFound):
		status = http.StatusNotFound
	case errors.Is(err, resourcehub.ErrSizeExceeded):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, resourcehub.ErrValidation):
		status = http.StatusUnprocessableEntity
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: err.Error()})
}
