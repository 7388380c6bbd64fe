package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// InvoiceStatus tracks the persisted lifecycle. Finalized invoices are
// never edited; an amendment supersedes the invoice with a new document.
type InvoiceStatus string

const (
	InvoiceStatusFinal   InvoiceStatus = "FINAL"
	InvoiceStatusAmended InvoiceStatus = "AMENDED"
)

// InvoiceRecord is the persisted header of a finalized invoice.
type InvoiceRecord struct {
	ID            snowflake.ID    `gorm:"primaryKey"`
	InvoiceNumber string          `gorm:"type:text;not null;uniqueIndex"`
	Status        InvoiceStatus   `gorm:"type:text;not null;default:'FINAL'"`
	IssueDate     time.Time       `gorm:"not null"`
	DueDate       *time.Time      `gorm:""`
	CurrencyCode  string          `gorm:"type:text;not null"`

	SupplierName    string `gorm:"type:text;not null"`
	SupplierTRN     string `gorm:"type:text;not null"`
	SupplierAddress string `gorm:"type:text"`
	CustomerName    string `gorm:"type:text;not null"`
	CustomerTRN     string `gorm:"type:text"`
	CustomerAddress string `gorm:"type:text"`

	LineExtension decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	TaxExclusive  decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	TaxInclusive  decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Payable       decimal.Decimal `gorm:"type:numeric(18,2);not null"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (InvoiceRecord) TableName() string { return "invoices" }

// InvoiceLineRecord is one persisted line of a finalized invoice.
type InvoiceLineRecord struct {
	ID          snowflake.ID    `gorm:"primaryKey"`
	InvoiceID   snowflake.ID    `gorm:"not null;index"`
	LineID      string          `gorm:"type:text;not null"`
	Description string          `gorm:"type:text;not null"`
	Quantity    decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	VATCategory VATCategory     `gorm:"type:text;not null"`
	VATRate     decimal.Decimal `gorm:"type:numeric(6,4);not null"`
	LineTotal   decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	LineVAT     decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (InvoiceLineRecord) TableName() string { return "invoice_lines" }
