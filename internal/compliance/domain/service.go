package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"

	invoicedomain "github.com/mizanlabs/mizan/internal/invoice/domain"
)

// Service runs the document pipeline:
// Build → Serialize → Hash → Encode QR → Validate.
// Each stage's output is immutable input to the next; there is no
// backward transition. Correcting an invoice means a new build.
type Service interface {
	// BuildDocument returns (doc, nil, nil) on success, (nil, issues, nil)
	// when the request fails validation, and a non-nil error only for
	// encoding or configuration failures.
	BuildDocument(ctx context.Context, req invoicedomain.BuildRequest) (*Document, []invoicedomain.ValidationIssue, error)
}

type Repository interface {
	Create(ctx context.Context, record *DocumentRecord) error
	FindByID(ctx context.Context, id snowflake.ID) (*DocumentRecord, error)
	FindLatestByInvoiceID(ctx context.Context, invoiceID snowflake.ID) (*DocumentRecord, error)
}
