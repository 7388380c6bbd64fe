// Package domain defines the compliance document produced for a finalized
// invoice: canonical UBL XML, its integrity hash, and the QR payload.
// Documents are append-only; an amendment is a new document referencing
// the prior one, never a mutation.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"

	invoicedomain "github.com/mizanlabs/mizan/internal/invoice/domain"
)

// Document is the compliance-facing artifact set for one invoice. The
// three artifacts (XML, hash, QR) are transmitted unmodified by any
// submission client; regeneration for the same model is byte-for-byte
// idempotent.
type Document struct {
	Model       *invoicedomain.InvoiceModel       `json:"model"`
	XML         []byte                            `json:"xml"`
	XMLHash     string                            `json:"xml_hash"`
	QRPayload   string                            `json:"qr_payload"`
	Valid       bool                              `json:"valid"`
	Issues      []invoicedomain.ValidationIssue   `json:"issues"`
	RateVersion string                            `json:"rate_version"`
}

// DocumentRecord is the persisted form. Rows are insert-only.
type DocumentRecord struct {
	ID               snowflake.ID   `gorm:"primaryKey"`
	InvoiceID        snowflake.ID   `gorm:"not null;index"`
	AmendsDocumentID *snowflake.ID  `gorm:"index"`
	InvoiceNumber    string         `gorm:"type:text;not null;index"`
	XML              []byte         `gorm:"type:bytea;not null"`
	XMLHash          string         `gorm:"type:text;not null"`
	QRPayload        string         `gorm:"type:text;not null"`
	Valid            bool           `gorm:"not null"`
	Issues           datatypes.JSON `gorm:"type:jsonb"`
	RateVersion      string         `gorm:"type:text;not null"`
	CreatedAt        time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (DocumentRecord) TableName() string { return "compliance_documents" }
