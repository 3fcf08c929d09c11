package httpx

import (
	"errors"
	"net/http"

	"github.com/meridian-advisory/onboard/internal/shared"
)

// Sentinel errors mapped by RespondError.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrValidation = errors.New("validation failed")
	ErrBadRequest = errors.New("bad request")
)

// RespondError maps portal errors to RFC7807 responses.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNoWizard):
		Problem(w, http.StatusConflict, "No Wizard", err.Error())
	case errors.Is(err, shared.ErrNoSession):
		Problem(w, http.StatusUnauthorized, "No Session", err.Error())
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrBadRequest):
		Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
