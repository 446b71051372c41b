package model

import (
	"time"

	"planner/internal/domain/entity"

	"gorm.io/datatypes"
)

// ProjectLocationModel is the GORM-specific struct for the
// 'project_locations' table. A single row holds the current snapshot.
type ProjectLocationModel struct {
	ID        uint    `gorm:"primary_key"`
	Latitude  float64 `gorm:"type:decimal(10,8);not null"`
	Longitude float64 `gorm:"type:decimal(11,8);not null"`
	Metadata  datatypes.JSONMap
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProjectLocationModel) TableName() string {
	return "project_locations"
}

// FromLocationDomain converts a domain project location to its model.
func FromLocationDomain(location *entity.ProjectLocation) *ProjectLocationModel {
	m := &ProjectLocationModel{
		Latitude:  location.Latitude,
		Longitude: location.Longitude,
	}
	if location.Metadata != nil {
		m.Metadata = make(datatypes.JSONMap, len(location.Metadata))
		for k, v := range location.Metadata {
			m.Metadata[k] = v
		}
	}

	return m
}

// ToLocationDomain converts a model back to the domain entity.
func (m *ProjectLocationModel) ToLocationDomain() *entity.ProjectLocation {
	location := &entity.ProjectLocation{
		Latitude:  m.Latitude,
		Longitude: m.Longitude,
	}
	if len(m.Metadata) > 0 {
		location.Metadata = make(map[string]string, len(m.Metadata))
		for k, v := range m.Metadata {
			if s, ok := v.(string); ok {
				location.Metadata[k] = s
			}
		}
	}

	return location
}
