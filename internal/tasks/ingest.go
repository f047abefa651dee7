package tasks

import (
	"context"
	"time"

	"github.com/desertthunder/soundscope/internal/models"
	"github.com/desertthunder/soundscope/internal/services"
)

// IngestResult summarizes one history sync run.
type IngestResult struct {
	PagesFetched int
	Received     int
	Unique       int
	Inserted     int
	OldestAt     time.Time
	NewestAt     time.Time
}

// SyncRecentPlays walks the recently-played feed backward and persists
// the events. Pages are fetched with a cursor derived from the previous
// page's oldest timestamp minus one millisecond so consecutive pages
// never overlap. The walk stops once target events have accumulated, a
// page comes back short, or the feed reports no further pages. Duplicate
// (track, played-at) pairs within the walk are kept first-seen only; the
// store's uniqueness constraint absorbs overlap with earlier runs.
func (e *SyncEngine) SyncRecentPlays(ctx context.Context, cred *services.Credential, ownerID string, target int, progress chan<- ProgressUpdate) (*IngestResult, error) {
	if target <= 0 {
		target = services.MaxPageSize
	}

	pageSize := target
	if pageSize > services.MaxPageSize {
		pageSize = services.MaxPageSize
	}

	result := &IngestResult{}
	seen := make(map[models.PlayKey]bool)
	var unique []models.PlayEvent
	var cursor time.Time

	for len(unique) < target {
		page, err := e.gateway.RecentlyPlayedPage(ctx, cred, pageSize, cursor)
		if err != nil {
			return nil, err
		}

		result.PagesFetched++
		result.Received += len(page.Events)
		e.sendProgress(progress, fetchPageUpdate(result.PagesFetched, len(unique), target))

		for _, event := range page.Events {
			event.OwnerID = ownerID
			key := event.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			unique = append(unique, event)
			if len(unique) == target {
				break
			}
		}

		if len(page.Events) < pageSize || !page.HasNext {
			break
		}

		oldest := page.Events[len(page.Events)-1].PlayedAt
		cursor = oldest.Add(-time.Millisecond)
	}

	result.Unique = len(unique)
	if len(unique) > 0 {
		result.NewestAt = unique[0].PlayedAt
		result.OldestAt = unique[len(unique)-1].PlayedAt
	}

	e.sendProgress(progress, storePlaysUpdate(result.Unique))
	inserted, err := e.store.IngestPlays(ctx, unique)
	if err != nil {
		return nil, err
	}
	result.Inserted = inserted

	e.logger.Info("synced listening history",
		"pages", result.PagesFetched, "unique", result.Unique, "inserted", result.Inserted)
	return result, nil
}
