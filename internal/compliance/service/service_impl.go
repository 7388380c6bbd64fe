package service

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	compliancedomain "github.com/mizanlabs/mizan/internal/compliance/domain"
	invoicedomain "github.com/mizanlabs/mizan/internal/invoice/domain"
	"github.com/mizanlabs/mizan/internal/invoice/qr"
	"github.com/mizanlabs/mizan/internal/invoice/ubl"
	"github.com/mizanlabs/mizan/internal/taxrate"
)

type ServiceParam struct {
	fx.In

	Log   *zap.Logger
	Rates *taxrate.Holder
}

type service struct {
	log   *zap.Logger
	rates *taxrate.Holder
}

func NewService(p ServiceParam) compliancedomain.Service {
	return &service{log: p.Log, rates: p.Rates}
}

// BuildDocument runs the full pipeline for one invoice. Every stage is a
// pure function of the previous stage's output, so rebuilding the same
// request always yields the same bytes, hash and QR payload.
func (s *service) BuildDocument(ctx context.Context, req invoicedomain.BuildRequest) (*compliancedomain.Document, []invoicedomain.ValidationIssue, error) {
	_ = ctx // the pipeline is synchronous and performs no I/O

	cfg, err := s.rates.Table().ForDate(req.IssueDate)
	if err != nil {
		return nil, nil, err
	}

	model, issues := invoicedomain.Build(req, cfg)
	if len(issues) > 0 {
		return nil, issues, nil
	}

	xmlBytes, err := ubl.Serialize(model)
	if err != nil {
		return nil, nil, err
	}

	xmlHash := HashXML(xmlBytes)

	qrPayload, err := qr.Encode(qr.Fields(
		model.Supplier.Name,
		model.Supplier.TRN,
		model.IssueDate,
		model.Totals.TaxInclusive,
		model.TotalVAT(),
		xmlHash,
	))
	if err != nil {
		return nil, nil, err
	}

	validationIssues := Validate(model, xmlBytes, xmlHash, qrPayload, cfg)

	doc := &compliancedomain.Document{
		Model:       model,
		XML:         xmlBytes,
		XMLHash:     xmlHash,
		QRPayload:   qrPayload,
		Valid:       len(validationIssues) == 0,
		Issues:      validationIssues,
		RateVersion: cfg.Version,
	}

	s.log.Debug("compliance document built",
		zap.String("invoice_number", model.InvoiceNumber),
		zap.String("xml_hash", xmlHash),
		zap.Bool("valid", doc.Valid),
	)

	return doc, nil, nil
}
