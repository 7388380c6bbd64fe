package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// FilingKind distinguishes persisted computation snapshots.
type FilingKind string

const (
	FilingKindCIT FilingKind = "CIT"
	FilingKindVAT FilingKind = "VAT"
)

// TaxFiling is a persisted snapshot of a CIT or VAT computation. The
// calculators themselves stay pure; snapshots are written at the API
// boundary so a filing can be reproduced with the rate version it names.
type TaxFiling struct {
	ID          snowflake.ID      `gorm:"primaryKey"`
	Kind        FilingKind        `gorm:"type:text;not null;index"`
	RateVersion string            `gorm:"type:text;not null"`
	RuleApplied *string           `gorm:"type:text"`
	PeriodStart time.Time         `gorm:"not null"`
	PeriodEnd   time.Time         `gorm:"not null;index"`
	Input       datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"`
	Result      datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (TaxFiling) TableName() string { return "tax_filings" }
