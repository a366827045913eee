package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/referralhub/partnerhub/internal/handlers/middleware"
	"github.com/referralhub/partnerhub/internal/logger"
	"github.com/referralhub/partnerhub/internal/models"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	feedService feedService,
	ledgerService ledgerService,
	logger logger.Logger,
) http.Handler {
	ownerMiddleware := middleware.OwnerMiddleware()

	apiowner := http.NewServeMux()
	apiowner.Handle("GET /feed", handleStatusFeed(feedService, logger))
	apiowner.Handle("GET /balance", handleGetBalance(ledgerService, logger))
	apiowner.Handle("POST /withdrawals", handleRequestWithdrawal(ledgerService, logger))
	apiowner.Handle("GET /withdrawals", handleListWithdrawals(ledgerService, logger))

	root := http.NewServeMux()
	root.Handle("/api/owner/", http.StripPrefix("/api/owner", ownerMiddleware(apiowner)))
	root.Handle("POST /api/payout/settlements", handleSettle(ledgerService, logger))

	handler := chain(root,
		middleware.LoggerMiddleware(logger),
	)

	return handler
}

type feedService interface {
	// Merged, sorted, soft-delete-filtered feed of the owner's records
	Snapshot(ctx context.Context, ownerID uuid.UUID) ([]models.StatusItem, error)
}

type ledgerService interface {
	GetBalance(ctx context.Context, ownerID uuid.UUID) (int64, error)

	// Has to return apperrors.ErrMissingPayoutDestination,
	// apperrors.ErrBelowMinimum or apperrors.ErrInsufficientBalance
	// when the respective precondition fails, in that order
	RequestWithdrawal(ctx context.Context, ownerID uuid.UUID, amount int64, payoutDestination string) (models.Withdrawal, error)

	// Has to return apperrors.ErrAlreadySettled on duplicate delivery
	SettleWithdrawal(ctx context.Context, withdrawalID uuid.UUID, outcome string) (models.Withdrawal, error)

	ListWithdrawals(ctx context.Context, ownerID uuid.UUID) ([]models.Withdrawal, error)
}
