package usecase

import "planner/internal/domain/entity"

// CaptureUsecase tracks whether a captured map snapshot still represents the
// current route set. The export component reads it to decide whether to warn
// before embedding the image in a report.
type CaptureUsecase interface {
	// SetCapturedImage stores a new snapshot, resets the route snapshot, and
	// clears the stale flag.
	SetCapturedImage(image []byte) *entity.Capture
	Capture() *entity.Capture

	// NotifyRouteAdded records the given route id set as the capture-time
	// snapshot. Called right after a successful capture.
	NotifyRouteAdded(routeIDs []string)

	// IsOutOfSync reports whether the current route id set differs from the
	// capture-time snapshot by membership, regardless of order.
	IsOutOfSync(routeIDs []string) bool

	// MarkStale flags the capture proactively whenever the route collection
	// is mutated.
	MarkStale()
	Stale() bool

	// NeedsRecapture is the authoritative predicate: stale flag OR route-set
	// drift since the last capture.
	NeedsRecapture(routeIDs []string) bool

	// ClearCapture drops everything. Called when routes are cleared or the
	// store resets.
	ClearCapture()
}
