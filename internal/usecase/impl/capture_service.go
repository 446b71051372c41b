package impl

import (
	"sync"
	"time"

	"planner/internal/domain/entity"
	"planner/internal/usecase"
	"planner/internal/util"
)

type captureService struct {
	mu sync.Mutex

	image      []byte
	checksum   string
	capturedAt *time.Time

	// Route id set recorded at capture time; membership comparison only.
	snapshot map[string]struct{}
	stale    bool
}

// NewCaptureService creates a new capture tracking service instance
func NewCaptureService() usecase.CaptureUsecase {
	return &captureService{
		snapshot: make(map[string]struct{}),
	}
}

// SetCapturedImage stores a new snapshot image and resets the staleness state
func (s *captureService) SetCapturedImage(image []byte) *entity.Capture {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.image = make([]byte, len(image))
	copy(s.image, image)
	s.checksum = util.ChecksumBytes(image)
	now := time.Now()
	s.capturedAt = &now
	s.snapshot = make(map[string]struct{})
	s.stale = false

	return s.captureLocked()
}

// Capture returns the stored capture, or nil when nothing has been captured
func (s *captureService) Capture() *entity.Capture {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capturedAt == nil {
		return nil
	}

	return s.captureLocked()
}

func (s *captureService) captureLocked() *entity.Capture {
	image := make([]byte, len(s.image))
	copy(image, s.image)
	capturedAt := *s.capturedAt

	return &entity.Capture{
		Image:      image,
		Checksum:   s.checksum,
		CapturedAt: &capturedAt,
	}
}

// NotifyRouteAdded records the route id set present at capture time
func (s *captureService) NotifyRouteAdded(routeIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = make(map[string]struct{}, len(routeIDs))
	for _, id := range routeIDs {
		s.snapshot[id] = struct{}{}
	}
}

// IsOutOfSync reports whether the current route id set differs from the
// capture-time snapshot by membership
func (s *captureService) IsOutOfSync(routeIDs []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.outOfSyncLocked(routeIDs)
}

func (s *captureService) outOfSyncLocked(routeIDs []string) bool {
	current := make(map[string]struct{}, len(routeIDs))
	for _, id := range routeIDs {
		current[id] = struct{}{}
	}

	if len(current) != len(s.snapshot) {
		return true
	}
	for id := range current {
		if _, ok := s.snapshot[id]; !ok {
			return true
		}
	}

	return false
}

// MarkStale flags the capture as outdated after a route mutation
func (s *captureService) MarkStale() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stale = true
}

// Stale returns the proactive staleness flag
func (s *captureService) Stale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stale
}

// NeedsRecapture reports whether the capture should be retaken: either the
// stale flag is set or the route set drifted since the capture
func (s *captureService) NeedsRecapture(routeIDs []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stale || s.outOfSyncLocked(routeIDs)
}

// ClearCapture drops the stored image and all staleness state
func (s *captureService) ClearCapture() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.image = nil
	s.checksum = ""
	s.capturedAt = nil
	s.snapshot = make(map[string]struct{})
	s.stale = false
}
