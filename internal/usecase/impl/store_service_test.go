package impl

import (
	"context"
	"testing"
	"time"

	domainErrors "planner/internal/domain/errors"
	"planner/internal/domain/entity"
	"planner/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanStore_SetProjectLocation_Success(t *testing.T) {
	locationRepo := &fakeLocationRepo{}
	store := newTestStore(nil, locationRepo, nil, &fakeNearbyProvider{}, nil)

	ctx := context.Background()
	location, err := store.SetProjectLocation(ctx, &usecase.SetProjectLocationInput{
		Latitude:  25.0330,
		Longitude: 121.5654,
		Metadata:  map[string]string{"project": "A-1024"},
	})
	require.NoError(t, err)
	require.NotNil(t, location)

	assert.Equal(t, 25.0330, store.ProjectLocation().Latitude)
	assert.Equal(t, entity.Viewport{CenterLat: 25.0330, CenterLon: 121.5654}, store.Viewport())
	assert.NotNil(t, locationRepo.location, "location should be persisted")
}

func TestPlanStore_SetProjectLocation_InvalidCoordinate(t *testing.T) {
	store := newTestStore(nil, nil, nil, &fakeNearbyProvider{}, nil)

	_, err := store.SetProjectLocation(context.Background(), &usecase.SetProjectLocationInput{
		Latitude:  91,
		Longitude: 0,
	})
	require.Error(t, err)

	var appErr domainErrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INVALID_COORDINATE", appErr.ErrorCode())
	assert.Nil(t, store.ProjectLocation(), "state must be unchanged after rejection")
}

func TestPlanStore_SearchNearbyServices_UsesProjectLocationAndDefaultRadius(t *testing.T) {
	nearby := &fakeNearbyProvider{services: []*entity.EmergencyService{
		hospital("h1", "General Hospital", 25.05, 121.55),
	}}
	store := newTestStore(nil, &fakeLocationRepo{}, nil, nearby, nil)

	ctx := context.Background()
	_, err := store.SetProjectLocation(ctx, &usecase.SetProjectLocationInput{Latitude: 25.0, Longitude: 121.5})
	require.NoError(t, err)

	found, err := store.SearchNearbyServices(ctx, &usecase.NearbySearchInput{UseProjectLocation: true})
	require.NoError(t, err)
	require.Len(t, found, 1)

	assert.Equal(t, 25.0, nearby.lastLat)
	assert.Equal(t, 121.5, nearby.lastLon)
	assert.Equal(t, defaultSearchRadiusKm, nearby.lastRadius)
	assert.NotNil(t, found[0].DistanceKm, "straight-line distance should be computed")
}

func TestPlanStore_SearchNearbyServices_NoProjectLocation(t *testing.T) {
	store := newTestStore(nil, nil, nil, &fakeNearbyProvider{}, nil)

	_, err := store.SearchNearbyServices(context.Background(), &usecase.NearbySearchInput{UseProjectLocation: true})
	assert.ErrorIs(t, err, domainErrors.ErrProjectLocationMissing)
}

func TestPlanStore_SearchNearbyServices_EmptyResultIsNotAnError(t *testing.T) {
	store := newTestStore(nil, nil, nil, &fakeNearbyProvider{}, nil)

	found, err := store.SearchNearbyServices(context.Background(), &usecase.NearbySearchInput{
		Latitude:  25.0,
		Longitude: 121.5,
	})
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.Empty(t, store.EmergencyServices())
}

func TestPlanStore_SetEmergencyServices_ClassifiesTypes(t *testing.T) {
	store := newTestStore(nil, nil, nil, &fakeNearbyProvider{}, nil)

	services := []*entity.EmergencyService{
		{ID: "a", Type: "General Hospital", Latitude: 25, Longitude: 121},
		{ID: "b", Type: "Fire Station", Latitude: 25, Longitude: 121},
		{ID: "c", Type: "county sheriff office", Latitude: 25, Longitude: 121},
		{ID: "d", Type: "Ambulance Base", Latitude: 25, Longitude: 121},
		{ID: "e", Type: "Heliport", Latitude: 25, Longitude: 121},
	}
	require.NoError(t, store.SetEmergencyServices(context.Background(), services))

	byID := make(map[string]entity.Category)
	for _, svc := range store.EmergencyServices() {
		byID[svc.ID] = svc.Category
	}
	assert.Equal(t, entity.CategoryHospital, byID["a"])
	assert.Equal(t, entity.CategoryFire, byID["b"])
	assert.Equal(t, entity.CategoryLawEnforcement, byID["c"])
	assert.Equal(t, entity.CategoryEMS, byID["d"])
	assert.Equal(t, entity.CategoryOther, byID["e"])
}

func TestPlanStore_SetEmergencyServices_HydratesVerifications(t *testing.T) {
	verificationRepo := newFakeVerificationRepo()
	verifiedAt := time.Now().Add(-24 * time.Hour)
	verificationRepo.latest["h1"] = &entity.ServiceVerification{
		ServiceID:        "h1",
		HasEmergencyRoom: true,
		VerifiedAt:       verifiedAt,
		Comments:         "confirmed by phone",
	}
	verificationRepo.latest["h2"] = &entity.ServiceVerification{
		ServiceID:          "h2",
		HasEmergencyRoom:   false,
		VerifiedAt:         verifiedAt,
		RedirectHospitalID: "h1",
	}
	store := newTestStore(nil, nil, verificationRepo, &fakeNearbyProvider{}, nil)

	services := []*entity.EmergencyService{
		hospital("h1", "First", 25, 121),
		hospital("h2", "Second", 25.1, 121.1),
		hospital("h3", "Third", 25.2, 121.2),
	}
	require.NoError(t, store.SetEmergencyServices(context.Background(), services))

	h1, ok := store.ServiceByID("h1")
	require.True(t, ok)
	require.NotNil(t, h1.Verification)
	assert.True(t, h1.Verification.HasEmergencyRoom)
	assert.Equal(t, "confirmed by phone", h1.Verification.Comments)

	h2, ok := store.ServiceByID("h2")
	require.True(t, ok)
	require.NotNil(t, h2.Verification)
	assert.False(t, h2.Verification.HasEmergencyRoom)
	assert.Equal(t, "h1", h2.RedirectHospitalID)
	assert.True(t, h2.NeedsRedirect())

	h3, ok := store.ServiceByID("h3")
	require.True(t, ok)
	assert.Nil(t, h3.Verification, "unrecorded hospitals stay unverified")
}

func TestPlanStore_SortOrder_ERConfirmedFirstThenRoadDistance(t *testing.T) {
	store := newTestStore(nil, nil, nil, &fakeNearbyProvider{}, nil)
	ctx := context.Background()

	services := []*entity.EmergencyService{
		hospital("far-er", "Far ER", 25.3, 121.3),
		hospital("near-no-er", "Near no ER", 25.01, 121.01),
		hospital("unrouted", "Unrouted", 25.02, 121.02),
		{ID: "fire", Type: "Fire Station", Latitude: 25.005, Longitude: 121.005},
	}
	require.NoError(t, store.SetEmergencyServices(ctx, services))

	// far-er is ER-confirmed but farther by road; near-no-er is closer but
	// verified to lack an ER.
	_, err := store.RecordVerification(ctx, &usecase.VerifyServiceInput{ServiceID: "far-er", HasEmergencyRoom: true})
	require.NoError(t, err)
	_, err = store.RecordVerification(ctx, &usecase.VerifyServiceInput{
		ServiceID:          "near-no-er",
		HasEmergencyRoom:   false,
		RedirectHospitalID: "far-er",
	})
	require.NoError(t, err)

	store.SetRoadDistance("far-er", 30)
	store.SetRoadDistance("near-no-er", 2)
	store.SetRoadDistance("fire", 1)

	order := make([]string, 0, 4)
	for _, svc := range store.EmergencyServices() {
		order = append(order, svc.ID)
	}

	// ER-confirmed first despite the larger distance, then ascending road
	// distance, unrouted entries last.
	assert.Equal(t, []string{"far-er", "fire", "near-no-er", "unrouted"}, order)
}

func TestPlanStore_AddCustomMarker(t *testing.T) {
	markerRepo := newFakeMarkerRepo()
	store := newTestStore(markerRepo, nil, nil, &fakeNearbyProvider{}, nil)
	ctx := context.Background()

	assert.True(t, store.ToggleAddingMarker())

	marker, err := store.AddCustomMarker(ctx, &usecase.AddMarkerInput{
		Name:      "Staging area",
		Latitude:  25.0,
		Longitude: 121.5,
		Color:     "#ff0000",
	})
	require.NoError(t, err)
	require.NotNil(t, marker)

	assert.NotEqual(t, uuid.Nil, marker.ID)
	assert.False(t, store.AddingMarker(), "placement mode ends after a placement")
	assert.Len(t, store.CustomMarkers(), 1)
	assert.Len(t, markerRepo.markers, 1)
}

func TestPlanStore_AddCustomMarker_InvalidCoordinate(t *testing.T) {
	store := newTestStore(nil, nil, nil, &fakeNearbyProvider{}, nil)

	_, err := store.AddCustomMarker(context.Background(), &usecase.AddMarkerInput{Latitude: 0, Longitude: -200})
	require.Error(t, err)
	assert.Empty(t, store.CustomMarkers())
}

func TestPlanStore_UpdateCustomMarker(t *testing.T) {
	store := newTestStore(newFakeMarkerRepo(), nil, nil, &fakeNearbyProvider{}, nil)
	ctx := context.Background()

	marker, err := store.AddCustomMarker(ctx, &usecase.AddMarkerInput{Name: "Old", Latitude: 25, Longitude: 121})
	require.NoError(t, err)

	newName := "New"
	newLat := 26.0
	updated, err := store.UpdateCustomMarker(ctx, marker.ID, &usecase.UpdateMarkerInput{
		Name:     &newName,
		Latitude: &newLat,
	})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)
	assert.Equal(t, 26.0, updated.Latitude)
	assert.Equal(t, 121.0, updated.Longitude, "unset fields stay untouched")

	_, err = store.UpdateCustomMarker(ctx, uuid.New(), &usecase.UpdateMarkerInput{Name: &newName})
	assert.ErrorIs(t, err, domainErrors.ErrMarkerNotFound)
}

func TestPlanStore_DeleteCustomMarker_CascadesRoutesAndMarksCaptureStale(t *testing.T) {
	capture := NewCaptureService()
	store := newTestStore(newFakeMarkerRepo(), nil, nil, &fakeNearbyProvider{}, capture)
	ctx := context.Background()

	marker, err := store.AddCustomMarker(ctx, &usecase.AddMarkerInput{Name: "M", Latitude: 25, Longitude: 121})
	require.NoError(t, err)

	store.UpsertRoute(&entity.Route{ID: "r1", FromID: marker.ID.String()})
	store.UpsertRoute(&entity.Route{ID: "r2", FromID: "h1", ToID: marker.ID.String()})
	store.UpsertRoute(&entity.Route{ID: "r3", FromID: "h2"})

	capture.SetCapturedImage([]byte("img"))
	require.False(t, capture.Stale())

	require.NoError(t, store.DeleteCustomMarker(ctx, marker.ID))

	routes := store.Routes()
	require.Len(t, routes, 1)
	assert.Equal(t, "r3", routes[0].ID)
	assert.True(t, capture.Stale(), "cascade delete must flag the capture")
	assert.Empty(t, store.CustomMarkers())
}

func TestPlanStore_DeleteCustomMarker_NoRoutes_LeavesCaptureFresh(t *testing.T) {
	capture := NewCaptureService()
	store := newTestStore(newFakeMarkerRepo(), nil, nil, &fakeNearbyProvider{}, capture)
	ctx := context.Background()

	marker, err := store.AddCustomMarker(ctx, &usecase.AddMarkerInput{Name: "M", Latitude: 25, Longitude: 121})
	require.NoError(t, err)

	capture.SetCapturedImage([]byte("img"))
	require.NoError(t, store.DeleteCustomMarker(ctx, marker.ID))

	assert.False(t, capture.Stale(), "no routes referenced the marker")
}

func TestPlanStore_RecordVerification_Success(t *testing.T) {
	verificationRepo := newFakeVerificationRepo()
	store := newTestStore(nil, nil, verificationRepo, &fakeNearbyProvider{}, nil)
	ctx := context.Background()

	require.NoError(t, store.SetEmergencyServices(ctx, []*entity.EmergencyService{
		hospital("h1", "First", 25, 121),
	}))

	svc, err := store.RecordVerification(ctx, &usecase.VerifyServiceInput{
		ServiceID:        "h1",
		HasEmergencyRoom: true,
		Comments:         "24/7 trauma center",
	})
	require.NoError(t, err)
	require.NotNil(t, svc.Verification)
	assert.True(t, svc.HasConfirmedER())
	assert.NotNil(t, verificationRepo.latest["h1"], "verification should be persisted")
}

func TestPlanStore_RecordVerification_Rejections(t *testing.T) {
	store := newTestStore(nil, nil, nil, &fakeNearbyProvider{}, nil)
	ctx := context.Background()

	require.NoError(t, store.SetEmergencyServices(ctx, []*entity.EmergencyService{
		hospital("h1", "First", 25, 121),
		hospital("h2", "Second", 25.1, 121.1),
		{ID: "fire", Type: "Fire Station", Latitude: 25, Longitude: 121},
	}))

	_, err := store.RecordVerification(ctx, &usecase.VerifyServiceInput{ServiceID: "missing", HasEmergencyRoom: true})
	assert.ErrorIs(t, err, domainErrors.ErrServiceNotFound)

	_, err = store.RecordVerification(ctx, &usecase.VerifyServiceInput{ServiceID: "fire", HasEmergencyRoom: true})
	assert.ErrorIs(t, err, domainErrors.ErrNotAHospital)

	// Self-redirect
	_, err = store.RecordVerification(ctx, &usecase.VerifyServiceInput{
		ServiceID: "h1", HasEmergencyRoom: false, RedirectHospitalID: "h1",
	})
	require.Error(t, err)

	// Redirect to a non-hospital
	_, err = store.RecordVerification(ctx, &usecase.VerifyServiceInput{
		ServiceID: "h1", HasEmergencyRoom: false, RedirectHospitalID: "fire",
	})
	require.Error(t, err)

	// Redirect to a hospital itself verified to lack an ER
	_, err = store.RecordVerification(ctx, &usecase.VerifyServiceInput{
		ServiceID: "h2", HasEmergencyRoom: false, RedirectHospitalID: "h1",
	})
	require.NoError(t, err)
	_, err = store.RecordVerification(ctx, &usecase.VerifyServiceInput{
		ServiceID: "h1", HasEmergencyRoom: false, RedirectHospitalID: "h2",
	})
	require.Error(t, err)
}

func TestPlanStore_Selection_MutuallyExclusive(t *testing.T) {
	store := newTestStore(newFakeMarkerRepo(), nil, nil, &fakeNearbyProvider{}, nil)
	ctx := context.Background()

	require.NoError(t, store.SetEmergencyServices(ctx, []*entity.EmergencyService{
		hospital("h1", "First", 25.5, 121.5),
	}))
	marker, err := store.AddCustomMarker(ctx, &usecase.AddMarkerInput{Name: "M", Latitude: 26, Longitude: 122})
	require.NoError(t, err)

	require.NoError(t, store.SelectService("h1"))
	assert.Equal(t, "h1", store.Selection().ServiceID)
	assert.Equal(t, entity.Viewport{CenterLat: 25.5, CenterLon: 121.5}, store.Viewport())

	require.NoError(t, store.SelectMarker(marker.ID))
	selection := store.Selection()
	assert.Empty(t, selection.ServiceID, "marker selection clears service selection")
	assert.Equal(t, marker.ID, selection.MarkerID)
	assert.Equal(t, entity.Viewport{CenterLat: 26, CenterLon: 122}, store.Viewport())

	store.ClearSelection()
	assert.Equal(t, usecase.Selection{}, store.Selection())

	assert.ErrorIs(t, store.SelectService("missing"), domainErrors.ErrServiceNotFound)
	assert.ErrorIs(t, store.SelectMarker(uuid.New()), domainErrors.ErrMarkerNotFound)
}

func TestPlanStore_ClearRoutes_KeepsEntitiesDropsCapture(t *testing.T) {
	capture := NewCaptureService()
	store := newTestStore(newFakeMarkerRepo(), nil, nil, &fakeNearbyProvider{}, capture)
	ctx := context.Background()

	require.NoError(t, store.SetEmergencyServices(ctx, []*entity.EmergencyService{hospital("h1", "H", 25, 121)}))
	store.UpsertRoute(&entity.Route{ID: "r1", FromID: "h1"})
	capture.SetCapturedImage([]byte("img"))

	store.ClearRoutes(ctx)

	assert.Empty(t, store.Routes())
	assert.Len(t, store.EmergencyServices(), 1, "services survive a route clear")
	assert.Nil(t, capture.Capture())
}

func TestPlanStore_ClearAll(t *testing.T) {
	markerRepo := newFakeMarkerRepo()
	locationRepo := &fakeLocationRepo{}
	capture := NewCaptureService()
	store := newTestStore(markerRepo, locationRepo, nil, &fakeNearbyProvider{}, capture)
	ctx := context.Background()

	_, err := store.SetProjectLocation(ctx, &usecase.SetProjectLocationInput{Latitude: 25, Longitude: 121})
	require.NoError(t, err)
	_, err = store.AddCustomMarker(ctx, &usecase.AddMarkerInput{Name: "M", Latitude: 25, Longitude: 121})
	require.NoError(t, err)
	require.NoError(t, store.SetEmergencyServices(ctx, []*entity.EmergencyService{hospital("h1", "H", 25, 121)}))
	store.UpsertRoute(&entity.Route{ID: "r1", FromID: "h1"})
	capture.SetCapturedImage([]byte("img"))

	require.NoError(t, store.ClearAll(ctx))

	assert.Nil(t, store.ProjectLocation())
	assert.Empty(t, store.EmergencyServices())
	assert.Empty(t, store.CustomMarkers())
	assert.Empty(t, store.Routes())
	assert.Equal(t, usecase.Selection{}, store.Selection())
	assert.Nil(t, capture.Capture())
	assert.Empty(t, markerRepo.markers)
	assert.Nil(t, locationRepo.location)
}

func TestPlanStore_UpsertRoute_ReplacesBySource(t *testing.T) {
	store := newTestStore(nil, nil, nil, &fakeNearbyProvider{}, nil)

	store.UpsertRoute(&entity.Route{ID: "r1", FromID: "h1"})
	store.UpsertRoute(&entity.Route{ID: "r2", FromID: "h2"})
	store.UpsertRoute(&entity.Route{ID: "r3", FromID: "h1"})

	routes := store.Routes()
	require.Len(t, routes, 2)

	ids := map[string]bool{}
	for _, r := range routes {
		ids[r.ID] = true
	}
	assert.True(t, ids["r2"])
	assert.True(t, ids["r3"], "newer route for the same source wins")
	assert.False(t, ids["r1"])
}

func TestPlanStore_Hydrate(t *testing.T) {
	markerRepo := newFakeMarkerRepo()
	locationRepo := &fakeLocationRepo{}
	seeded := &entity.CustomMarker{ID: uuid.New(), Name: "Persisted", Latitude: 25, Longitude: 121}
	markerRepo.markers[seeded.ID] = seeded
	locationRepo.location = &entity.ProjectLocation{Latitude: 24.9, Longitude: 121.4}

	store := newTestStore(markerRepo, locationRepo, nil, &fakeNearbyProvider{}, nil)
	require.NoError(t, store.Hydrate(context.Background()))

	require.Len(t, store.CustomMarkers(), 1)
	assert.Equal(t, "Persisted", store.CustomMarkers()[0].Name)
	require.NotNil(t, store.ProjectLocation())
	assert.Equal(t, entity.Viewport{CenterLat: 24.9, CenterLon: 121.4}, store.Viewport())
}

func TestPlanStore_Hydrate_EmptyStorage(t *testing.T) {
	store := newTestStore(newFakeMarkerRepo(), &fakeLocationRepo{}, nil, &fakeNearbyProvider{}, nil)

	require.NoError(t, store.Hydrate(context.Background()))
	assert.Empty(t, store.CustomMarkers())
	assert.Nil(t, store.ProjectLocation())
}

func TestPlanStore_Subscribe(t *testing.T) {
	store := newTestStore(nil, nil, nil, &fakeNearbyProvider{}, nil)

	notified := 0
	unsubscribe := store.Subscribe(func() { notified++ })

	store.UpsertRoute(&entity.Route{ID: "r1", FromID: "h1"})
	assert.Equal(t, 1, notified)

	unsubscribe()
	store.UpsertRoute(&entity.Route{ID: "r2", FromID: "h2"})
	assert.Equal(t, 1, notified, "unsubscribed callbacks must not fire")
}
