package repository

import (
	"context"

	"planner/internal/domain/entity"
)

// VerificationRepository stores emergency-room verification records.
// Records are append-only; the latest per service id is what hydrates the
// in-memory service collection after every bulk replacement.
type VerificationRepository interface {
	// SaveVerification appends a verification record.
	SaveVerification(ctx context.Context, verification *entity.ServiceVerification) error
	// FindLatestByServiceIDs returns the most recent record for each of the
	// given service ids. Services with no record are simply absent from the
	// result; that is not an error.
	FindLatestByServiceIDs(ctx context.Context, serviceIDs []string) ([]*entity.ServiceVerification, error)
}
