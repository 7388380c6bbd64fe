package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	compliancedomain "github.com/mizanlabs/mizan/internal/compliance/domain"
	"github.com/mizanlabs/mizan/internal/invoice/domain"
	"github.com/mizanlabs/mizan/internal/invoice/format"
	"github.com/mizanlabs/mizan/pkg/db"
)

type ServiceParam struct {
	fx.In

	Log        *zap.Logger
	DB         *gorm.DB
	Repository domain.Repository
	Documents  compliancedomain.Repository
	Compliance compliancedomain.Service
	GenID      *snowflake.Node
}

type service struct {
	log        *zap.Logger
	db         *gorm.DB
	repo       domain.Repository
	documents  compliancedomain.Repository
	compliance compliancedomain.Service
	genID      *snowflake.Node
}

func NewService(p ServiceParam) domain.Service {
	return &service{
		log:        p.Log,
		db:         p.DB,
		repo:       p.Repository,
		documents:  p.Documents,
		compliance: p.Compliance,
		genID:      p.GenID,
	}
}

func (s *service) Finalize(ctx context.Context, req domain.BuildRequest) (*domain.FinalizeResult, []domain.ValidationIssue, error) {
	if req.InvoiceNumber == "" {
		number, err := s.nextInvoiceNumber(ctx, req.IssueDate)
		if err != nil {
			return nil, nil, err
		}
		req.InvoiceNumber = number
	}

	if _, err := s.repo.FindInvoiceByNumber(ctx, req.InvoiceNumber); err == nil {
		return nil, []domain.ValidationIssue{{
			Field:    "invoice_number",
			Message:  "invoice number already exists",
			Severity: domain.SeverityError,
		}}, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, nil, err
	}

	doc, issues, err := s.compliance.BuildDocument(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	if len(issues) > 0 {
		return nil, issues, nil
	}

	record := s.invoiceRecord(doc.Model)
	lines := s.lineRecords(record.ID, doc.Model)
	docRecord, err := s.documentRecord(record.ID, record.InvoiceNumber, doc, nil)
	if err != nil {
		return nil, nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return err
		}
		if err := tx.Create(&lines).Error; err != nil {
			return err
		}
		return tx.Create(docRecord).Error
	})
	if err != nil {
		// Concurrent finalize with the same number loses to the unique index.
		if db.IsDuplicateKeyErr(err) {
			return nil, []domain.ValidationIssue{{
				Field:    "invoice_number",
				Message:  "invoice number already exists",
				Severity: domain.SeverityError,
			}}, nil
		}
		return nil, nil, err
	}

	s.log.Info("invoice finalized",
		zap.String("invoice_id", record.ID.String()),
		zap.String("invoice_number", record.InvoiceNumber),
		zap.String("document_id", docRecord.ID.String()),
		zap.String("rate_version", doc.RateVersion),
	)

	return &domain.FinalizeResult{
		Invoice:     record,
		Lines:       lines,
		DocumentID:  docRecord.ID,
		XMLHash:     doc.XMLHash,
		QRPayload:   doc.QRPayload,
		RateVersion: doc.RateVersion,
	}, nil, nil
}

func (s *service) Amend(ctx context.Context, invoiceID snowflake.ID, req domain.BuildRequest) (*domain.FinalizeResult, []domain.ValidationIssue, error) {
	invoice, err := s.repo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	prior, err := s.documents.FindLatestByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, nil, err
	}

	// An amendment keeps the invoice number; the correction lives in the
	// new document, not in a renumbered invoice.
	req.InvoiceNumber = invoice.InvoiceNumber

	doc, issues, err := s.compliance.BuildDocument(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	if len(issues) > 0 {
		return nil, issues, nil
	}

	docRecord, err := s.documentRecord(invoice.ID, invoice.InvoiceNumber, doc, &prior.ID)
	if err != nil {
		return nil, nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(docRecord).Error; err != nil {
			return err
		}
		return tx.Model(&domain.InvoiceRecord{}).
			Where("id = ?", invoice.ID).
			Updates(map[string]any{
				"status":     domain.InvoiceStatusAmended,
				"updated_at": time.Now().UTC(),
			}).Error
	})
	if err != nil {
		return nil, nil, err
	}

	invoice.Status = domain.InvoiceStatusAmended

	s.log.Info("invoice amended",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("document_id", docRecord.ID.String()),
		zap.String("amends_document_id", prior.ID.String()),
	)

	return &domain.FinalizeResult{
		Invoice:          invoice,
		DocumentID:       docRecord.ID,
		AmendsDocumentID: &prior.ID,
		XMLHash:          doc.XMLHash,
		QRPayload:        doc.QRPayload,
		RateVersion:      doc.RateVersion,
	}, nil, nil
}

func (s *service) GetInvoice(ctx context.Context, id snowflake.ID) (*domain.InvoiceRecord, []domain.InvoiceLineRecord, error) {
	invoice, err := s.repo.FindInvoiceByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	lines, err := s.repo.FindLinesByInvoiceID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return invoice, lines, nil
}

func (s *service) ListInvoices(ctx context.Context, opts domain.ListOptions) ([]domain.InvoiceRecord, error) {
	return s.repo.ListInvoices(ctx, opts)
}

func (s *service) nextInvoiceNumber(ctx context.Context, issueDate time.Time) (string, error) {
	if issueDate.IsZero() {
		issueDate = time.Now().UTC()
	}
	seq, err := s.repo.NextSequence(ctx)
	if err != nil {
		return "", err
	}
	return format.InvoiceNumber(format.DefaultInvoiceNumberTemplate, issueDate, seq)
}

func (s *service) invoiceRecord(model *domain.InvoiceModel) *domain.InvoiceRecord {
	now := time.Now().UTC()
	return &domain.InvoiceRecord{
		ID:              s.genID.Generate(),
		InvoiceNumber:   model.InvoiceNumber,
		Status:          domain.InvoiceStatusFinal,
		IssueDate:       model.IssueDate,
		DueDate:         model.DueDate,
		CurrencyCode:    model.CurrencyCode,
		SupplierName:    model.Supplier.Name,
		SupplierTRN:     model.Supplier.TRN,
		SupplierAddress: model.Supplier.Address,
		CustomerName:    model.Customer.Name,
		CustomerTRN:     model.Customer.TRN,
		CustomerAddress: model.Customer.Address,
		LineExtension:   model.Totals.LineExtension,
		TaxExclusive:    model.Totals.TaxExclusive,
		TaxInclusive:    model.Totals.TaxInclusive,
		Payable:         model.Totals.Payable,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (s *service) lineRecords(invoiceID snowflake.ID, model *domain.InvoiceModel) []domain.InvoiceLineRecord {
	now := time.Now().UTC()
	lines := make([]domain.InvoiceLineRecord, 0, len(model.Lines))
	for _, line := range model.Lines {
		lines = append(lines, domain.InvoiceLineRecord{
			ID:          s.genID.Generate(),
			InvoiceID:   invoiceID,
			LineID:      line.ID,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			VATCategory: line.VATCategory,
			VATRate:     line.VATRate,
			LineTotal:   line.LineTotal,
			LineVAT:     line.LineVAT,
			CreatedAt:   now,
		})
	}
	return lines
}

func (s *service) documentRecord(invoiceID snowflake.ID, number string, doc *compliancedomain.Document, amends *snowflake.ID) (*compliancedomain.DocumentRecord, error) {
	issues, err := json.Marshal(doc.Issues)
	if err != nil {
		return nil, err
	}
	return &compliancedomain.DocumentRecord{
		ID:               s.genID.Generate(),
		InvoiceID:        invoiceID,
		AmendsDocumentID: amends,
		InvoiceNumber:    number,
		XML:              doc.XML,
		XMLHash:          doc.XMLHash,
		QRPayload:        doc.QRPayload,
		Valid:            doc.Valid,
		Issues:           issues,
		RateVersion:      doc.RateVersion,
		CreatedAt:        time.Now().UTC(),
	}, nil
}
