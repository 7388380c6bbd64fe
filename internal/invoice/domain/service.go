package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// FinalizeResult reports a finalized (or amended) invoice together with
// the identifying artifacts of the compliance document produced for it.
// The document body itself is served separately by its ID.
type FinalizeResult struct {
	Invoice          *InvoiceRecord      `json:"invoice"`
	Lines            []InvoiceLineRecord `json:"lines"`
	DocumentID       snowflake.ID        `json:"document_id"`
	AmendsDocumentID *snowflake.ID       `json:"amends_document_id,omitempty"`
	XMLHash          string              `json:"xml_hash"`
	QRPayload        string              `json:"qr_payload"`
	RateVersion      string              `json:"rate_version"`
}

// Service finalizes invoices. Finalization builds the compliance document
// and persists invoice, lines, and document in one transaction; a request
// that fails validation persists nothing.
type Service interface {
	// Finalize returns (result, nil, nil) on success and (nil, issues, nil)
	// when the request fails validation.
	Finalize(ctx context.Context, req BuildRequest) (*FinalizeResult, []ValidationIssue, error)

	// Amend builds a replacement document for an already finalized invoice.
	// The new document references the one it supersedes; prior documents
	// are never modified.
	Amend(ctx context.Context, invoiceID snowflake.ID, req BuildRequest) (*FinalizeResult, []ValidationIssue, error)

	GetInvoice(ctx context.Context, id snowflake.ID) (*InvoiceRecord, []InvoiceLineRecord, error)
	ListInvoices(ctx context.Context, opts ListOptions) ([]InvoiceRecord, error)
}
