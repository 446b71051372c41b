package postgres

import (
	"context"

	"planner/internal/domain/entity"
	"planner/internal/domain/repository"
	"planner/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// The snapshot is a single row with a fixed primary key.
const projectLocationRowID = 1

// locationRepository implements the repository.ProjectLocationRepository interface.
type locationRepository struct {
	db *gorm.DB
}

// NewLocationRepository is the constructor for locationRepository.
func NewLocationRepository(db *gorm.DB) repository.ProjectLocationRepository {
	return &locationRepository{db: db}
}

// SaveProjectLocation replaces the stored snapshot.
func (repo *locationRepository) SaveProjectLocation(ctx context.Context, location *entity.ProjectLocation) error {
	locationM := model.FromLocationDomain(location)
	locationM.ID = projectLocationRowID

	if err := repo.db.WithContext(ctx).Save(locationM).Error; err != nil {
		return errors.Wrap(err, "failed to save project location")
	}

	return nil
}

// LoadProjectLocation returns the stored snapshot.
func (repo *locationRepository) LoadProjectLocation(ctx context.Context) (*entity.ProjectLocation, error) {
	var locationM model.ProjectLocationModel
	if err := repo.db.WithContext(ctx).
		Where("id = ?", projectLocationRowID).
		First(&locationM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProjectLocationNotFound
		}

		return nil, errors.Wrap(err, "failed to load project location")
	}

	return locationM.ToLocationDomain(), nil
}

// ClearProjectLocation removes the snapshot row.
func (repo *locationRepository) ClearProjectLocation(ctx context.Context) error {
	if err := repo.db.WithContext(ctx).
		Where("id = ?", projectLocationRowID).
		Delete(&model.ProjectLocationModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to clear project location")
	}

	return nil
}
