package feedsource

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/referralhub/partnerhub/internal/models"
	"github.com/referralhub/partnerhub/internal/repository/postgres"
	"github.com/referralhub/partnerhub/internal/testutil"
)

func TestPoller(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	storage := postgres.NewStorage(pg.Pool)

	t.Run("delivers snapshots and picks up changes", func(t *testing.T) {
		ownerID := uuid.New()

		created, err := storage.Referral().Create(t.Context(), models.Referral{OwnerID: ownerID, Name: "Maria"})
		require.NoError(t, err)

		source := NewReferralSource(storage, 50*time.Millisecond, nil)
		require.Equal(t, models.KindReferral, source.Kind())

		snapshots := make(chan []models.StatusItem, 16)
		stop := source.Subscribe(ownerID,
			func(items []models.StatusItem) { snapshots <- items },
			func(err error) { t.Errorf("unexpected source error: %v", err) },
		)
		defer stop()

		// First snapshot arrives without waiting for a tick
		select {
		case items := <-snapshots:
			require.Len(t, items, 1)
			require.Equal(t, created.ID, items[0].ID)
			require.Equal(t, models.KindReferral, items[0].Kind)
			require.False(t, items[0].SoftDeleted)
		case <-time.After(2 * time.Second):
			t.Fatal("no initial snapshot delivered")
		}

		// Archive upstream; a later snapshot must carry the flag
		require.NoError(t, storage.Referral().Archive(t.Context(), created.ID))

		deadline := time.After(5 * time.Second)
		for {
			select {
			case items := <-snapshots:
				if len(items) == 1 && items[0].SoftDeleted {
					return
				}
			case <-deadline:
				t.Fatal("poller never delivered the archived referral")
			}
		}
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		source := NewBatchJobSource(storage, 50*time.Millisecond, nil)

		stop := source.Subscribe(uuid.New(), func([]models.StatusItem) {}, func(error) {})
		stop()
		stop()
	})
}
