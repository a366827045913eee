package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/referralhub/partnerhub/internal/apperrors"
	"github.com/referralhub/partnerhub/internal/handlers/render"
	"github.com/referralhub/partnerhub/internal/logger"
)

// handleSettle is the payout rail's callback: it reports the terminal
// outcome of a withdrawal it was asked to execute
func handleSettle(ledgerService ledgerService, l logger.Logger) http.Handler {
	type request struct {
		WithdrawalID string `json:"withdrawal_id" validate:"required,uuid"`
		Outcome      string `json:"outcome" validate:"required,oneof=PAID REJECTED"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		withdrawalID, err := uuid.Parse(req.WithdrawalID)
		if err != nil {
			render.ServiceError(w, "Invalid withdrawal id", http.StatusBadRequest)
			return
		}

		withdrawal, err := ledgerService.SettleWithdrawal(r.Context(), withdrawalID, req.Outcome)

		switch {
		case err == nil:
			render.JSON(w, toWithdrawalResponse(withdrawal))
		case errors.Is(err, apperrors.ErrWithdrawalNotFound):
			render.ServiceError(w, "Withdrawal not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrAlreadySettled):
			render.ServiceError(w, "Withdrawal already settled", http.StatusConflict)
		case errors.Is(err, apperrors.ErrConflict):
			render.ServiceError(w, "Temporary storage conflict, try again", http.StatusServiceUnavailable)
		default:
			l.Error("Failed to settle withdrawal", "error", err, "withdrawal_id", withdrawalID)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
