package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// ListOptions filters and orders invoice listings.
type ListOptions struct {
	Status    InvoiceStatus
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

type Repository interface {
	FindInvoiceByID(ctx context.Context, id snowflake.ID) (*InvoiceRecord, error)
	FindInvoiceByNumber(ctx context.Context, number string) (*InvoiceRecord, error)
	FindLinesByInvoiceID(ctx context.Context, invoiceID snowflake.ID) ([]InvoiceLineRecord, error)
	ListInvoices(ctx context.Context, opts ListOptions) ([]InvoiceRecord, error)

	// NextSequence returns the next monotonic invoice sequence, used when
	// the caller does not supply an invoice number.
	NextSequence(ctx context.Context) (int64, error)
}
