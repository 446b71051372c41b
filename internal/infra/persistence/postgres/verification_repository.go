package postgres

import (
	"context"

	"planner/internal/domain/entity"
	"planner/internal/domain/repository"
	"planner/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// verificationRepository implements the repository.VerificationRepository interface.
type verificationRepository struct {
	db *gorm.DB
}

// NewVerificationRepository is the constructor for verificationRepository.
func NewVerificationRepository(db *gorm.DB) repository.VerificationRepository {
	return &verificationRepository{db: db}
}

// SaveVerification appends a verification record.
func (repo *verificationRepository) SaveVerification(ctx context.Context, verification *entity.ServiceVerification) error {
	verificationM := model.FromVerificationDomain(verification)

	if err := repo.db.WithContext(ctx).Create(verificationM).Error; err != nil {
		return errors.Wrap(err, "failed to save verification")
	}

	return nil
}

// FindLatestByServiceIDs returns the most recent record per service id.
// Services with no record are absent from the result.
func (repo *verificationRepository) FindLatestByServiceIDs(ctx context.Context, serviceIDs []string) ([]*entity.ServiceVerification, error) {
	if len(serviceIDs) == 0 {
		return nil, nil
	}

	var verificationModels []*model.VerificationModel
	if err := repo.db.WithContext(ctx).
		Where("service_id IN ?", serviceIDs).
		Order("service_id, verified_at DESC").
		Find(&verificationModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find verifications")
	}

	latest := make(map[string]*entity.ServiceVerification, len(serviceIDs))
	out := make([]*entity.ServiceVerification, 0, len(serviceIDs))
	for _, verificationM := range verificationModels {
		if _, seen := latest[verificationM.ServiceID]; seen {
			continue
		}
		rec := verificationM.ToVerificationDomain()
		latest[verificationM.ServiceID] = rec
		out = append(out, rec)
	}

	return out, nil
}
