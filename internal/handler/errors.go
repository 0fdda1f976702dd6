package handler

import (
	"log/slog"
	"net/http"

	"github.com/riteshkumar/bank-ledger/internal/errors"
	u "github.com/riteshkumar/bank-ledger/internal/utils"
)

// errorStatus maps a service error to its HTTP status and short message.
func errorStatus(err error) (int, string) {
	switch {
	case errors.IsNotFound(err):
		return http.StatusNotFound, "account not found"
	case errors.IsAlreadyExists(err):
		return http.StatusConflict, "account already exists"
	case errors.IsValidationError(err):
		return http.StatusBadRequest, "validation error"
	case errors.Is(err, errors.ErrUnknownVariant):
		return http.StatusBadRequest, "unknown account variant"
	case errors.Is(err, errors.ErrInvalidAmount):
		return http.StatusBadRequest, "invalid amount"
	case errors.Is(err, errors.ErrInvalidWithdrawMethod):
		return http.StatusBadRequest, "invalid withdrawal method"
	case errors.Is(err, errors.ErrInvalidAccountID):
		return http.StatusBadRequest, "invalid account ID"
	case errors.Is(err, errors.ErrSameAccount):
		return http.StatusBadRequest, "same source and destination account"
	case errors.IsInsufficientFunds(err):
		return http.StatusUnprocessableEntity, "insufficient funds"
	case errors.Is(err, errors.ErrLimitExceeded):
		return http.StatusUnprocessableEntity, "transfer limit exceeded"
	case errors.IsCredentialError(err):
		return http.StatusForbidden, "credential rejected"
	case errors.IsCapabilityError(err):
		return http.StatusConflict, "operation not supported by account"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error, operation string) {
	status, message := errorStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("internal server error during "+operation, "error", err.Error())
		u.WriteError(w, status, message, "")
		return
	}
	u.WriteError(w, status, message, err.Error())
}
