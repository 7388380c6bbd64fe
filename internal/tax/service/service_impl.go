package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	taxdomain "github.com/mizanlabs/mizan/internal/tax/domain"
	"github.com/mizanlabs/mizan/internal/taxrate"
)

type ServiceParam struct {
	fx.In

	Log        *zap.Logger
	Rates      *taxrate.Holder
	Repository taxdomain.Repository
	GenID      *snowflake.Node
}

type service struct {
	log   *zap.Logger
	rates *taxrate.Holder
	repo  taxdomain.Repository
	genID *snowflake.Node
}

func NewService(p ServiceParam) taxdomain.Service {
	return &service{
		log:   p.Log,
		rates: p.Rates,
		repo:  p.Repository,
		genID: p.GenID,
	}
}

func (s *service) CalculateCIT(ctx context.Context, req taxdomain.CITRequest) (*taxdomain.CITResult, error) {
	cfg, err := s.configFor(req.PeriodEnd)
	if err != nil {
		return nil, err
	}

	result, err := ComputeCIT(taxdomain.CITInput{
		TaxableIncome:   req.TaxableIncome,
		IsQFZP:          req.IsQFZP,
		IsSmallBusiness: req.IsSmallBusiness,
	}, cfg)
	if err != nil {
		return nil, err
	}

	s.log.Debug("cit calculated",
		zap.String("rule", result.RuleApplied),
		zap.String("rate_version", result.RateVersion),
		zap.String("cit_amount", result.CITAmount.StringFixed(2)),
	)

	if req.Record {
		rule := result.RuleApplied
		filing := &taxdomain.TaxFiling{
			ID:          s.genID.Generate(),
			Kind:        taxdomain.FilingKindCIT,
			RateVersion: result.RateVersion,
			RuleApplied: &rule,
			PeriodStart: req.PeriodStart,
			PeriodEnd:   req.PeriodEnd,
			Input: datatypes.JSONMap{
				"taxable_income":    req.TaxableIncome.StringFixed(2),
				"is_qfzp":           req.IsQFZP,
				"is_small_business": req.IsSmallBusiness,
			},
			Result: datatypes.JSONMap{
				"cit_rate":              result.CITRate.String(),
				"cit_amount":            result.CITAmount.StringFixed(2),
				"small_business_relief": result.SmallBusinessRelief.StringFixed(2),
				"effective_rate":        result.EffectiveRate.String(),
				"rule_applied":          result.RuleApplied,
			},
		}
		if err := s.repo.CreateFiling(ctx, filing); err != nil {
			return nil, err
		}
	}

	return &result, nil
}

func (s *service) CalculateVAT(ctx context.Context, req taxdomain.VATRequest) (*taxdomain.VATResult, error) {
	cfg, err := s.configFor(req.PeriodEnd)
	if err != nil {
		return nil, err
	}

	result, err := ComputeVAT(req.VATInput, cfg)
	if err != nil {
		return nil, err
	}

	s.log.Debug("vat calculated",
		zap.String("rate_version", result.RateVersion),
		zap.String("net_vat_due", result.NetVATDue.StringFixed(2)),
	)

	if req.Record {
		filing := &taxdomain.TaxFiling{
			ID:          s.genID.Generate(),
			Kind:        taxdomain.FilingKindVAT,
			RateVersion: result.RateVersion,
			PeriodStart: req.PeriodStart,
			PeriodEnd:   req.PeriodEnd,
			Input: datatypes.JSONMap{
				"taxable_sales":        req.TaxableSales.StringFixed(2),
				"zero_rated_sales":     req.ZeroRatedSales.StringFixed(2),
				"exempt_sales":         req.ExemptSales.StringFixed(2),
				"taxable_purchases":    req.TaxablePurchases.StringFixed(2),
				"zero_rated_purchases": req.ZeroRatedPurchases.StringFixed(2),
				"exempt_purchases":     req.ExemptPurchases.StringFixed(2),
			},
			Result: datatypes.JSONMap{
				"output_vat":           result.OutputVAT.StringFixed(2),
				"input_vat":            result.InputVAT.StringFixed(2),
				"net_vat_due":          result.NetVATDue.StringFixed(2),
				"carry_forward_credit": result.CarryForwardCredit.StringFixed(2),
			},
		}
		if err := s.repo.CreateFiling(ctx, filing); err != nil {
			return nil, err
		}
	}

	return &result, nil
}

func (s *service) ListFilings(ctx context.Context, filter taxdomain.ListFilingsRequest) ([]taxdomain.TaxFiling, error) {
	return s.repo.ListFilings(ctx, filter)
}

func (s *service) configFor(periodEnd time.Time) (taxrate.Config, error) {
	at := periodEnd
	if at.IsZero() {
		at = time.Now().UTC()
	}
	return s.rates.Table().ForDate(at)
}
