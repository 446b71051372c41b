package postgres

import (
	"context"

	"planner/internal/domain/entity"
	"planner/internal/domain/repository"
	"planner/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// markerRepository implements the repository.MarkerRepository interface.
type markerRepository struct {
	db *gorm.DB
}

// NewMarkerRepository is the constructor for markerRepository.
func NewMarkerRepository(db *gorm.DB) repository.MarkerRepository {
	return &markerRepository{db: db}
}

// SaveMarker inserts or updates a marker row.
func (repo *markerRepository) SaveMarker(ctx context.Context, marker *entity.CustomMarker) error {
	markerM := model.FromMarkerDomain(marker)

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(markerM).Error; err != nil {
		return errors.Wrap(err, "failed to save marker")
	}

	return nil
}

// DeleteMarker removes a marker row by id.
func (repo *markerRepository) DeleteMarker(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.MarkerModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete marker")
	}
	if result.RowsAffected == 0 {
		return repository.ErrMarkerNotFound
	}

	return nil
}

// ListMarkers returns all persisted markers, oldest first.
func (repo *markerRepository) ListMarkers(ctx context.Context) ([]*entity.CustomMarker, error) {
	var markerModels []*model.MarkerModel
	if err := repo.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&markerModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list markers")
	}

	markers := make([]*entity.CustomMarker, 0, len(markerModels))
	for _, markerM := range markerModels {
		markers = append(markers, markerM.ToMarkerDomain())
	}

	return markers, nil
}

// DeleteAllMarkers removes every marker row.
func (repo *markerRepository) DeleteAllMarkers(ctx context.Context) error {
	if err := repo.db.WithContext(ctx).
		Where("1 = 1").
		Delete(&model.MarkerModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete all markers")
	}

	return nil
}
