// Package model contains the GORM-specific structs backing the persisted
// subset of planner state.
package model

import (
	"time"

	"planner/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MarkerModel is the GORM-specific struct for the 'custom_markers' table.
type MarkerModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Latitude  float64   `gorm:"type:decimal(10,8);not null"`
	Longitude float64   `gorm:"type:decimal(11,8);not null"`
	Color     string    `gorm:"type:varchar(16)"`
	Metadata  datatypes.JSONMap
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (MarkerModel) TableName() string {
	return "custom_markers"
}

// FromMarkerDomain converts a domain marker to its persistence model.
func FromMarkerDomain(marker *entity.CustomMarker) *MarkerModel {
	m := &MarkerModel{
		ID:        marker.ID,
		Name:      marker.Name,
		Latitude:  marker.Latitude,
		Longitude: marker.Longitude,
		Color:     marker.Color,
		CreatedAt: marker.CreatedAt,
	}
	if marker.Metadata != nil {
		m.Metadata = make(datatypes.JSONMap, len(marker.Metadata))
		for k, v := range marker.Metadata {
			m.Metadata[k] = v
		}
	}

	return m
}

// ToMarkerDomain converts a persistence model back to the domain entity.
func (m *MarkerModel) ToMarkerDomain() *entity.CustomMarker {
	marker := &entity.CustomMarker{
		ID:        m.ID,
		Name:      m.Name,
		Latitude:  m.Latitude,
		Longitude: m.Longitude,
		Color:     m.Color,
		CreatedAt: m.CreatedAt,
	}
	if len(m.Metadata) > 0 {
		marker.Metadata = make(map[string]string, len(m.Metadata))
		for k, v := range m.Metadata {
			if s, ok := v.(string); ok {
				marker.Metadata[k] = s
			}
		}
	}

	return marker
}
