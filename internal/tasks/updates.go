package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running
// operation, sent to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase
	Step    int
	Total   int
	Message string
}

// Operation phase enumeration
type Phase int

const (
	FetchPage Phase = iota
	StorePlays
	FetchListing
	FetchFeatures
	Classify
)

func (p Phase) String() string {
	switch p {
	case FetchPage:
		return "fetch_page"
	case StorePlays:
		return "store_plays"
	case FetchListing:
		return "fetch_listing"
	case FetchFeatures:
		return "fetch_features"
	case Classify:
		return "classify"
	default:
		return ""
	}
}

func fetchPageUpdate(page, accumulated, target int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPage,
		Step:    accumulated,
		Total:   target,
		Message: fmt.Sprintf("Fetching page %d (%d/%d plays)...", page, accumulated, target),
	}
}

func storePlaysUpdate(unique int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   StorePlays,
		Step:    unique,
		Total:   unique,
		Message: fmt.Sprintf("Storing %d plays...", unique),
	}
}

func fetchListingUpdate(what string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchListing,
		Message: fmt.Sprintf("Fetching %s...", what),
	}
}

func fetchFeaturesUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchFeatures,
		Total:   count,
		Message: fmt.Sprintf("Fetching audio features for %d tracks...", count),
	}
}

func classifyUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Classify,
		Step:    count,
		Total:   count,
		Message: fmt.Sprintf("Scoring %d tracks...", count),
	}
}

// sendProgress sends an update without blocking. A full or absent channel
// drops the update rather than stalling the operation.
func (e *SyncEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
