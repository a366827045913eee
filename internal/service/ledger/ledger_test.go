package ledger

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/referralhub/partnerhub/internal/apperrors"
	"github.com/referralhub/partnerhub/internal/models"
	"github.com/referralhub/partnerhub/internal/repository"
	"github.com/referralhub/partnerhub/internal/repository/postgres"
	"github.com/referralhub/partnerhub/internal/testutil"
)

func TestLedger(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Helper to run a case inside a rolled back transaction with a
	// seeded account
	inTx := func(t *testing.T, balance int64, fn func(s *Service, storage repository.Storage, ownerID uuid.UUID)) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)
			service := NewService(Config{MinWithdrawal: 2000}, storage, nil, nil)

			ownerID := uuid.New()
			_, err := service.CreateAccount(t.Context(), models.Account{
				OwnerID:     ownerID,
				Balance:     balance,
				DisplayName: "Maria Souza",
				Role:        "partner",
				UnitID:      "unit-07",
				UnitName:    "Zona Sul",
			})
			require.NoError(t, err)

			fn(service, storage, ownerID)
		})
	}

	// requireConserved checks the ledger invariant: balance plus all
	// REQUESTED and PAID amounts equals everything ever credited
	requireConserved := func(t *testing.T, s *Service, storage repository.Storage, ownerID uuid.UUID, initial int64) {
		t.Helper()

		balance, err := s.GetBalance(t.Context(), ownerID)
		require.NoError(t, err)

		withdrawals, err := storage.Withdrawal().ListByOwner(t.Context(), ownerID)
		require.NoError(t, err)

		var held int64
		for _, w := range withdrawals {
			if w.Status == models.WithdrawalRequested || w.Status == models.WithdrawalPaid {
				held += w.Amount
			}
		}

		require.Equal(t, initial, balance+held, "balance conservation must hold")
	}

	t.Run("RequestWithdrawal", func(t *testing.T) {
		t.Run("request ok", func(t *testing.T) {
			inTx(t, 100000, func(s *Service, storage repository.Storage, ownerID uuid.UUID) {
				withdrawal, err := s.RequestWithdrawal(t.Context(), ownerID, 70000, "pix-key-1")

				require.NoError(t, err)
				require.Equal(t, models.WithdrawalRequested, withdrawal.Status)
				require.Equal(t, int64(70000), withdrawal.Amount)
				require.Equal(t, "pix-key-1", withdrawal.PayoutDestination)

				balance, err := s.GetBalance(t.Context(), ownerID)
				require.NoError(t, err)
				require.Equal(t, int64(30000), balance)

				requireConserved(t, s, storage, ownerID, 100000)
			})
		})

		t.Run("requester metadata is captured at request time", func(t *testing.T) {
			inTx(t, 100000, func(s *Service, storage repository.Storage, ownerID uuid.UUID) {
				withdrawal, err := s.RequestWithdrawal(t.Context(), ownerID, 5000, "pix-key-1")

				require.NoError(t, err)
				require.Equal(t, "Maria Souza", withdrawal.DisplayName)
				require.Equal(t, "partner", withdrawal.Role)
				require.Equal(t, "unit-07", withdrawal.UnitID)
				require.Equal(t, "Zona Sul", withdrawal.UnitName)
			})
		})

		t.Run("missing payout destination checked first", func(t *testing.T) {
			inTx(t, 100000, func(s *Service, storage repository.Storage, ownerID uuid.UUID) {
				// Amount below minimum too: destination must win
				_, err := s.RequestWithdrawal(t.Context(), ownerID, 1, "  ")

				require.ErrorIs(t, err, apperrors.ErrMissingPayoutDestination)
				requireConserved(t, s, storage, ownerID, 100000)
			})
		})

		t.Run("below minimum", func(t *testing.T) {
			inTx(t, 100000, func(s *Service, storage repository.Storage, ownerID uuid.UUID) {
				_, err := s.RequestWithdrawal(t.Context(), ownerID, 1999, "pix-key-1")

				require.ErrorIs(t, err, apperrors.ErrBelowMinimum)
				requireConserved(t, s, storage, ownerID, 100000)
			})
		})

		t.Run("insufficient balance leaves no trace", func(t *testing.T) {
			inTx(t, 5000, func(s *Service, storage repository.Storage, ownerID uuid.UUID) {
				_, err := s.RequestWithdrawal(t.Context(), ownerID, 7000, "pix-key-1")

				require.ErrorIs(t, err, apperrors.ErrInsufficientBalance)

				withdrawals, err := s.ListWithdrawals(t.Context(), ownerID)
				require.NoError(t, err)
				require.Empty(t, withdrawals, "failed request must not insert a record")

				requireConserved(t, s, storage, ownerID, 5000)
			})
		})

		t.Run("unknown owner", func(t *testing.T) {
			inTx(t, 5000, func(s *Service, _ repository.Storage, _ uuid.UUID) {
				_, err := s.RequestWithdrawal(t.Context(), uuid.New(), 7000, "pix-key-1")

				require.ErrorIs(t, err, apperrors.ErrAccountNotFound)
			})
		})
	})

	t.Run("SettleWithdrawal", func(t *testing.T) {
		t.Run("rejected restores balance, duplicate settle fails", func(t *testing.T) {
			inTx(t, 100000, func(s *Service, storage repository.Storage, ownerID uuid.UUID) {
				withdrawal, err := s.RequestWithdrawal(t.Context(), ownerID, 70000, "pix-key-1")
				require.NoError(t, err)

				balance, err := s.GetBalance(t.Context(), ownerID)
				require.NoError(t, err)
				require.Equal(t, int64(30000), balance)

				rejected, err := s.SettleWithdrawal(t.Context(), withdrawal.ID, models.WithdrawalRejected)
				require.NoError(t, err)
				require.Equal(t, models.WithdrawalRejected, rejected.Status)

				balance, err = s.GetBalance(t.Context(), ownerID)
				require.NoError(t, err)
				require.Equal(t, int64(100000), balance, "rejection must restore the amount")

				_, err = s.SettleWithdrawal(t.Context(), withdrawal.ID, models.WithdrawalPaid)
				require.ErrorIs(t, err, apperrors.ErrAlreadySettled)

				balance, err = s.GetBalance(t.Context(), ownerID)
				require.NoError(t, err)
				require.Equal(t, int64(100000), balance, "duplicate settle must not touch the balance")

				requireConserved(t, s, storage, ownerID, 100000)
			})
		})

		t.Run("paid keeps balance decremented", func(t *testing.T) {
			inTx(t, 100000, func(s *Service, storage repository.Storage, ownerID uuid.UUID) {
				withdrawal, err := s.RequestWithdrawal(t.Context(), ownerID, 70000, "pix-key-1")
				require.NoError(t, err)

				paid, err := s.SettleWithdrawal(t.Context(), withdrawal.ID, models.WithdrawalPaid)
				require.NoError(t, err)
				require.Equal(t, models.WithdrawalPaid, paid.Status)

				balance, err := s.GetBalance(t.Context(), ownerID)
				require.NoError(t, err)
				require.Equal(t, int64(30000), balance)

				requireConserved(t, s, storage, ownerID, 100000)
			})
		})

		t.Run("unknown withdrawal", func(t *testing.T) {
			inTx(t, 100000, func(s *Service, _ repository.Storage, _ uuid.UUID) {
				_, err := s.SettleWithdrawal(t.Context(), uuid.New(), models.WithdrawalPaid)

				require.ErrorIs(t, err, apperrors.ErrWithdrawalNotFound)
			})
		})

		t.Run("invalid outcome", func(t *testing.T) {
			inTx(t, 100000, func(s *Service, _ repository.Storage, ownerID uuid.UUID) {
				withdrawal, err := s.RequestWithdrawal(t.Context(), ownerID, 70000, "pix-key-1")
				require.NoError(t, err)

				_, err = s.SettleWithdrawal(t.Context(), withdrawal.ID, "CANCELLED")
				require.Error(t, err)

				stored, err := s.storage.Withdrawal().Get(t.Context(), withdrawal.ID)
				require.NoError(t, err)
				require.Equal(t, models.WithdrawalRequested, stored.Status)
			})
		})
	})

	t.Run("Credit", func(t *testing.T) {
		t.Run("credit ok", func(t *testing.T) {
			inTx(t, 0, func(s *Service, _ repository.Storage, ownerID uuid.UUID) {
				account, err := s.Credit(t.Context(), ownerID, 12345)

				require.NoError(t, err)
				require.Equal(t, int64(12345), account.Balance)
			})
		})

		t.Run("non positive amount rejected", func(t *testing.T) {
			inTx(t, 0, func(s *Service, _ repository.Storage, ownerID uuid.UUID) {
				_, err := s.Credit(t.Context(), ownerID, 0)
				require.Error(t, err)

				_, err = s.Credit(t.Context(), ownerID, -5)
				require.Error(t, err)
			})
		})
	})
}

// Concurrent requests run on the shared pool (not inside a rolled back
// transaction) so the two transactions actually race
func TestLedgerConcurrentWithdrawals(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	storage := postgres.NewStorage(pg.Pool)
	service := NewService(Config{MinWithdrawal: 100}, storage, nil, nil)

	ownerID := uuid.New()
	_, err := service.CreateAccount(t.Context(), models.Account{OwnerID: ownerID, Balance: 1000})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = service.RequestWithdrawal(t.Context(), ownerID, 700, "pix-key-1")
		}()
	}
	wg.Wait()

	var succeeded, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, apperrors.ErrInsufficientBalance):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	require.Equal(t, 1, succeeded, "exactly one request must win")
	require.Equal(t, 1, insufficient, "the loser must fail with insufficient balance")

	balance, err := service.GetBalance(t.Context(), ownerID)
	require.NoError(t, err)
	require.Equal(t, int64(300), balance)
}
