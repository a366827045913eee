package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/referralhub/partnerhub/internal/apperrors"
	"github.com/referralhub/partnerhub/internal/handlers/ownerctx"
	"github.com/referralhub/partnerhub/internal/handlers/render"
	"github.com/referralhub/partnerhub/internal/logger"
	"github.com/referralhub/partnerhub/internal/models"
)

func handleGetBalance(ledgerService ledgerService, l logger.Logger) http.Handler {
	type response struct {
		// Balance in minor units plus the decimal rendering of it
		Balance int64   `json:"balance"`
		Amount  float64 `json:"amount"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := ownerctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		balance, err := ledgerService.GetBalance(r.Context(), ownerID)

		switch {
		case err == nil:
			amount, _ := models.Account{Balance: balance}.BalanceAmount().Float64()
			render.JSON(w, response{Balance: balance, Amount: amount})
		case errors.Is(err, apperrors.ErrAccountNotFound):
			render.ServiceError(w, "Account not found", http.StatusNotFound)
		default:
			l.Error("Failed to get balance", "error", err, "owner_id", ownerID)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

type withdrawalResponse struct {
	ID                string    `json:"id"`
	Amount            int64     `json:"amount"`
	Status            string    `json:"status"`
	PayoutDestination string    `json:"payout_destination"`
	CreatedAt         time.Time `json:"created_at"`
}

func toWithdrawalResponse(w models.Withdrawal) withdrawalResponse {
	return withdrawalResponse{
		ID:                w.ID.String(),
		Amount:            w.Amount,
		Status:            w.Status,
		PayoutDestination: w.PayoutDestination,
		CreatedAt:         w.CreatedAt,
	}
}

func handleRequestWithdrawal(ledgerService ledgerService, l logger.Logger) http.Handler {
	// Precondition checks and their order belong to the ledger, so the
	// body carries no validation tags beyond being decodable
	type request struct {
		Amount            int64  `json:"amount"`
		PayoutDestination string `json:"payout_destination"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := ownerctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		withdrawal, err := ledgerService.RequestWithdrawal(r.Context(), ownerID, req.Amount, req.PayoutDestination)

		switch {
		case err == nil:
			render.JSONWithStatus(w, toWithdrawalResponse(withdrawal), http.StatusCreated)
		case errors.Is(err, apperrors.ErrMissingPayoutDestination):
			render.ServiceError(w, "Payout destination is required", http.StatusBadRequest)
		case errors.Is(err, apperrors.ErrBelowMinimum):
			render.ServiceError(w, "Amount is below the minimum withdrawal", http.StatusUnprocessableEntity)
		case errors.Is(err, apperrors.ErrInsufficientBalance):
			render.ServiceError(w, "Insufficient balance", http.StatusPaymentRequired)
		case errors.Is(err, apperrors.ErrAccountNotFound):
			render.ServiceError(w, "Account not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrConflict):
			render.ServiceError(w, "Temporary storage conflict, try again", http.StatusServiceUnavailable)
		default:
			l.Error("Failed to request withdrawal", "error", err, "owner_id", ownerID)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListWithdrawals(ledgerService ledgerService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := ownerctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		withdrawals, err := ledgerService.ListWithdrawals(r.Context(), ownerID)
		if err != nil {
			l.Error("Failed to list withdrawals", "error", err, "owner_id", ownerID)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		response := make([]withdrawalResponse, 0, len(withdrawals))
		for _, withdrawal := range withdrawals {
			response = append(response, toWithdrawalResponse(withdrawal))
		}

		render.JSON(w, response)
	})
}
