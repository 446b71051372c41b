package impl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureService_SetCapturedImage(t *testing.T) {
	capture := NewCaptureService()

	stored := capture.SetCapturedImage([]byte("png bytes"))
	require.NotNil(t, stored)
	assert.Equal(t, []byte("png bytes"), stored.Image)
	assert.NotEmpty(t, stored.Checksum)
	require.NotNil(t, stored.CapturedAt)

	assert.False(t, capture.Stale())
	assert.False(t, capture.NeedsRecapture(nil))
}

func TestCaptureService_Capture_NilWhenEmpty(t *testing.T) {
	capture := NewCaptureService()

	assert.Nil(t, capture.Capture())
}

func TestCaptureService_RecaptureFlow(t *testing.T) {
	capture := NewCaptureService()

	capture.SetCapturedImage([]byte("snapshot"))
	capture.NotifyRouteAdded([]string{"r1", "r2"})

	// Same membership in any order is in sync
	assert.False(t, capture.IsOutOfSync([]string{"r2", "r1"}))
	assert.False(t, capture.NeedsRecapture([]string{"r2", "r1"}))

	// Any membership change drifts out of sync
	assert.True(t, capture.IsOutOfSync([]string{"r1"}))
	assert.True(t, capture.IsOutOfSync([]string{"r1", "r2", "r3"}))
	assert.True(t, capture.IsOutOfSync([]string{"r1", "r9"}))
	assert.True(t, capture.NeedsRecapture([]string{"r1"}))
}

func TestCaptureService_MarkStaleOverridesMatchingSnapshot(t *testing.T) {
	capture := NewCaptureService()

	capture.SetCapturedImage([]byte("snapshot"))
	capture.NotifyRouteAdded([]string{"r1"})
	require.False(t, capture.NeedsRecapture([]string{"r1"}))

	capture.MarkStale()

	assert.True(t, capture.Stale())
	assert.True(t, capture.NeedsRecapture([]string{"r1"}), "the stale flag wins even when the id set matches")
}

func TestCaptureService_NewCaptureResetsStaleness(t *testing.T) {
	capture := NewCaptureService()

	capture.SetCapturedImage([]byte("first"))
	capture.NotifyRouteAdded([]string{"r1"})
	capture.MarkStale()
	require.True(t, capture.NeedsRecapture([]string{"r1"}))

	capture.SetCapturedImage([]byte("second"))
	capture.NotifyRouteAdded([]string{"r1"})

	assert.False(t, capture.Stale())
	assert.False(t, capture.NeedsRecapture([]string{"r1"}))
}

func TestCaptureService_ClearCapture(t *testing.T) {
	capture := NewCaptureService()

	capture.SetCapturedImage([]byte("snapshot"))
	capture.NotifyRouteAdded([]string{"r1"})
	capture.MarkStale()

	capture.ClearCapture()

	assert.Nil(t, capture.Capture())
	assert.False(t, capture.Stale())
	assert.False(t, capture.IsOutOfSync(nil), "an empty tracker matches an empty route set")
}

func TestCaptureService_ImageIsCopied(t *testing.T) {
	capture := NewCaptureService()

	original := []byte("mutable")
	capture.SetCapturedImage(original)
	original[0] = 'X'

	stored := capture.Capture()
	require.NotNil(t, stored)
	assert.Equal(t, byte('m'), stored.Image[0], "the stored image must not alias the caller's slice")
}
