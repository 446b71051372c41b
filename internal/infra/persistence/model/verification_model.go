package model

import (
	"time"

	"planner/internal/domain/entity"
)

// VerificationModel is the GORM-specific struct for the
// 'service_verifications' table. Records are append-only; the newest row per
// service id is the effective verification.
type VerificationModel struct {
	ID                 uint      `gorm:"primary_key"`
	ServiceID          string    `gorm:"type:varchar(255);not null;index:idx_verifications_on_service"`
	HasEmergencyRoom   bool      `gorm:"not null"`
	VerifiedAt         time.Time `gorm:"not null"`
	Comments           string    `gorm:"type:text"`
	RedirectHospitalID string    `gorm:"type:varchar(255)"`
	CreatedAt          time.Time
}

// TableName explicitly sets the table name for GORM.
func (VerificationModel) TableName() string {
	return "service_verifications"
}

// FromVerificationDomain converts a domain verification record to its model.
func FromVerificationDomain(verification *entity.ServiceVerification) *VerificationModel {
	return &VerificationModel{
		ServiceID:          verification.ServiceID,
		HasEmergencyRoom:   verification.HasEmergencyRoom,
		VerifiedAt:         verification.VerifiedAt,
		Comments:           verification.Comments,
		RedirectHospitalID: verification.RedirectHospitalID,
	}
}

// ToVerificationDomain converts a model back to the domain record.
func (m *VerificationModel) ToVerificationDomain() *entity.ServiceVerification {
	return &entity.ServiceVerification{
		ServiceID:          m.ServiceID,
		HasEmergencyRoom:   m.HasEmergencyRoom,
		VerifiedAt:         m.VerifiedAt,
		Comments:           m.Comments,
		RedirectHospitalID: m.RedirectHospitalID,
	}
}
