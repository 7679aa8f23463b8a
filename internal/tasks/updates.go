package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	DiscoverAssets Phase = iota
	FetchAssets
	StoreAssets
	Activate
)

func (p Phase) String() string {
	switch p {
	case DiscoverAssets:
		return "discover_assets"
	case FetchAssets:
		return "fetch_assets"
	case StoreAssets:
		return "store_assets"
	case Activate:
		return "activate"
	default:
		return ""
	}
}

func fetchingAssetsUpdate(total int, partition string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchAssets,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Caching %d assets into %s...", total, partition),
	}
}

func assetCompletedUpdate(step, total int, res AssetResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchAssets,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, res.URL),
		Data:    res,
	}
}

func assetFailedUpdate(step, total int, res AssetResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchAssets,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.URL, res.Error),
		Data:    res,
	}
}

// StoringUpdate reports that fetched assets are being written to a partition.
func StoringUpdate(count int, partition string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   StoreAssets,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Storing %d assets in %s...", count, partition),
	}
}

// DiscoveredUpdate reports the assets found in the root document.
func DiscoveredUpdate(paths []string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DiscoverAssets,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Discovered %d assets", len(paths)),
		Data:    paths,
	}
}

// ActivatedUpdate reports a new active version and the partitions it removed.
func ActivatedUpdate(version string, deleted []string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Activate,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Activated %s (removed %d old caches)", version, len(deleted)),
		Data:    deleted,
	}
}

// Send sends a progress update through the channel without blocking.
func Send(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
