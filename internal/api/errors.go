package api

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/zaiqapos/pos-api/internal/domain/cart"
	"github.com/zaiqapos/pos-api/internal/domain/inventory"
	"github.com/zaiqapos/pos-api/internal/domain/menu"
	"github.com/zaiqapos/pos-api/internal/domain/order"
	"github.com/zaiqapos/pos-api/internal/insights"
)

// errorResponse is the JSON body for every error.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// genericMessage is shown when an error carries details that must not reach
// the client.
const genericMessage = "An error occurred. Please try again."

// pgMessages maps known Postgres error codes to user-facing text, so raw
// database details never leak into responses.
var pgMessages = map[string]string{
	"23505": "This item already exists",
	"23503": "Related data not found",
	"23514": "Invalid data provided",
	"42501": "Permission denied",
	"42P01": "Resource not found",
}

// writeError maps domain errors to HTTP responses. Validation failures keep
// their message; collaborator failures are logged in full and translated to a
// safe message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case isValidation(err):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Code:    http.StatusUnprocessableEntity,
			Message: err.Error(),
		})
	case isNotFound(err):
		writeJSON(w, http.StatusNotFound, errorResponse{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	case isConflict(err):
		writeJSON(w, http.StatusConflict, errorResponse{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	case errors.Is(err, insights.ErrUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{
			Code:    http.StatusServiceUnavailable,
			Message: err.Error(),
		})
	default:
		zctx.From(r.Context()).Error("Request failed", zap.Error(err))

		msg := genericMessage
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if friendly, ok := pgMessages[pgErr.Code]; ok {
				msg = friendly
			}
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Code:    http.StatusInternalServerError,
			Message: msg,
		})
	}
}

// writeBadRequest reports a malformed request body or parameter.
func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Code:    http.StatusBadRequest,
		Message: msg,
	})
}

func isValidation(err error) bool {
	var (
		unavailable *cart.ItemUnavailableError
		transition  *order.InvalidTransitionError
		terminal    *order.NotTerminalError
	)
	return errors.Is(err, cart.ErrNegativeQuantity) ||
		errors.Is(err, cart.ErrCustomerName) ||
		errors.Is(err, order.ErrEmptyCart) ||
		errors.Is(err, order.ErrMissingCustomer) ||
		errors.Is(err, order.ErrInvalidPayment) ||
		errors.Is(err, inventory.ErrNegativeQuantity) ||
		errors.As(err, &unavailable) ||
		errors.As(err, &transition) ||
		errors.As(err, &terminal)
}

func isNotFound(err error) bool {
	var (
		orderNotFound *order.NotFoundError
		lineNotFound  *cart.LineNotFoundError
	)
	return errors.Is(err, menu.ErrNotFound) ||
		errors.Is(err, inventory.ErrNotFound) ||
		errors.As(err, &orderNotFound) ||
		errors.As(err, &lineNotFound)
}

func isConflict(err error) bool {
	var dupSKU *inventory.DuplicateSKUError
	return errors.As(err, &dupSKU)
}
