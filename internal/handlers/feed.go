package handlers

import (
	"net/http"
	"time"

	"github.com/referralhub/partnerhub/internal/feed"
	"github.com/referralhub/partnerhub/internal/handlers/ownerctx"
	"github.com/referralhub/partnerhub/internal/handlers/render"
	"github.com/referralhub/partnerhub/internal/logger"
	"github.com/referralhub/partnerhub/internal/models"
)

func handleStatusFeed(feedService feedService, l logger.Logger) http.Handler {
	type batchProgress struct {
		TotalCount     int `json:"total_count"`
		ProcessedCount int `json:"processed_count"`
		Percent        int `json:"percent"`
	}

	type feedItem struct {
		ID          string         `json:"id"`
		Kind        string         `json:"kind"`
		DisplayName string         `json:"display_name"`
		Product     string         `json:"product,omitempty"`
		Status      string         `json:"status"`
		Age         string         `json:"age"`
		CreatedAt   time.Time      `json:"created_at"`
		Batch       *batchProgress `json:"batch,omitempty"`
	}

	type response struct {
		Items  []feedItem     `json:"items"`
		Rollup map[string]int `json:"rollup"`
	}

	toFeedItem := func(item models.StatusItem) feedItem {
		fi := feedItem{
			ID:          item.ID.String(),
			Kind:        string(item.Kind),
			DisplayName: item.DisplayName,
			Product:     item.Product,
			Status:      item.Status,
			Age:         item.AgeLabel,
			CreatedAt:   item.CreatedAt,
		}
		if item.Batch != nil {
			fi.Batch = &batchProgress{
				TotalCount:     item.Batch.TotalCount,
				ProcessedCount: item.Batch.ProcessedCount,
				Percent:        item.Batch.PercentComplete(),
			}
		}
		return fi
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := ownerctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		snapshot, err := feedService.Snapshot(r.Context(), ownerID)
		if err != nil {
			l.Error("Failed to build status feed", "error", err, "owner_id", ownerID)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		query := r.URL.Query()
		filtered := feed.Filter(snapshot, query.Get("search"), query["category"])

		items := make([]feedItem, 0, len(filtered))
		for _, item := range filtered {
			items = append(items, toFeedItem(item))
		}

		// Rollup counts the full snapshot: totals, not the filtered view
		render.JSON(w, response{
			Items:  items,
			Rollup: feed.Rollup(snapshot),
		})
	})
}
