package models

import "time"

// ConfigurationType defines supported types for configuration values.
type ConfigurationType string

const (
	ConfigurationTypeString  ConfigurationType = "STRING"
	ConfigurationTypeBoolean ConfigurationType = "BOOLEAN"
)

// Keys of the signature block printed under workload reports.
const (
	ConfigKeySignatoryName  = "workload.signatory.name"
	ConfigKeySignatoryGrade = "workload.signatory.grade"
	ConfigKeySignatoryCity  = "workload.signatory.city"
)

// SignatoryKeys lists every key backing SignatorySettings.
var SignatoryKeys = []string{ConfigKeySignatoryName, ConfigKeySignatoryGrade, ConfigKeySignatoryCity}

// Configuration represents a persisted configuration entry.
type Configuration struct {
	Key         string            `db:"key" json:"key"`
	Value       string            `db:"value" json:"value"`
	Type        ConfigurationType `db:"type" json:"type"`
	Description *string           `db:"description" json:"description,omitempty"`
	UpdatedBy   *string           `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updated_at"`
}

// SignatorySettings is the department head who signs workload reports.
type SignatorySettings struct {
	Name  string `json:"name" validate:"max=120"`
	Grade string `json:"grade" validate:"max=60"`
	City  string `json:"city" validate:"max=60"`
}
