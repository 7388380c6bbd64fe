package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	taxdomain "github.com/mizanlabs/mizan/internal/tax/domain"
)

type citRequest struct {
	TaxableIncome   decimal.Decimal `json:"taxable_income"`
	IsQFZP          bool            `json:"is_qfzp"`
	IsSmallBusiness bool            `json:"is_small_business"`
	PeriodStart     *time.Time      `json:"period_start"`
	PeriodEnd       *time.Time      `json:"period_end"`
	Record          bool            `json:"record"`
}

type vatRequest struct {
	TaxableSales       decimal.Decimal `json:"taxable_sales"`
	ZeroRatedSales     decimal.Decimal `json:"zero_rated_sales"`
	ExemptSales        decimal.Decimal `json:"exempt_sales"`
	TaxablePurchases   decimal.Decimal `json:"taxable_purchases"`
	ZeroRatedPurchases decimal.Decimal `json:"zero_rated_purchases"`
	ExemptPurchases    decimal.Decimal `json:"exempt_purchases"`
	PeriodStart        *time.Time      `json:"period_start"`
	PeriodEnd          *time.Time      `json:"period_end"`
	Record             bool            `json:"record"`
}

func (s *Server) CalculateCIT(c *gin.Context) {
	var req citRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.taxSvc.CalculateCIT(c.Request.Context(), taxdomain.CITRequest{
		TaxableIncome:   req.TaxableIncome,
		IsQFZP:          req.IsQFZP,
		IsSmallBusiness: req.IsSmallBusiness,
		PeriodStart:     timeOrZero(req.PeriodStart),
		PeriodEnd:       timeOrZero(req.PeriodEnd),
		Record:          req.Record,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.metrics.RecordTaxCalculation("cit", resp.RuleApplied)
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CalculateVAT(c *gin.Context) {
	var req vatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.taxSvc.CalculateVAT(c.Request.Context(), taxdomain.VATRequest{
		VATInput: taxdomain.VATInput{
			TaxableSales:       req.TaxableSales,
			ZeroRatedSales:     req.ZeroRatedSales,
			ExemptSales:        req.ExemptSales,
			TaxablePurchases:   req.TaxablePurchases,
			ZeroRatedPurchases: req.ZeroRatedPurchases,
			ExemptPurchases:    req.ExemptPurchases,
		},
		PeriodStart: timeOrZero(req.PeriodStart),
		PeriodEnd:   timeOrZero(req.PeriodEnd),
		Record:      req.Record,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.metrics.RecordTaxCalculation("vat", "")
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListTaxFilings(c *gin.Context) {
	var query struct {
		Kind    string `form:"kind"`
		SortBy  string `form:"sort_by"`
		OrderBy string `form:"order_by"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	kind := taxdomain.FilingKind(strings.ToUpper(strings.TrimSpace(query.Kind)))
	switch kind {
	case "", taxdomain.FilingKindCIT, taxdomain.FilingKindVAT:
	default:
		AbortWithError(c, newValidationError("kind", "invalid_kind", "invalid kind"))
		return
	}

	resp, err := s.taxSvc.ListFilings(c.Request.Context(), taxdomain.ListFilingsRequest{
		Kind:    kind,
		SortBy:  strings.TrimSpace(query.SortBy),
		OrderBy: strings.TrimSpace(query.OrderBy),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type taxRateEntry struct {
	Version                      string    `json:"version"`
	EffectiveDate                time.Time `json:"effective_date"`
	CITStandardRate              string    `json:"cit_standard_rate"`
	SmallBusinessReliefThreshold string    `json:"small_business_relief_threshold"`
	QFZPRate                     string    `json:"qfzp_rate"`
	QFZPEligibleIncomeCap        string    `json:"qfzp_eligible_income_cap"`
	VATStandardRate              string    `json:"vat_standard_rate"`
}

func (s *Server) ListTaxRates(c *gin.Context) {
	table := s.rates.Table()

	entries := make([]taxRateEntry, 0)
	for _, version := range table.Versions() {
		cfg, err := table.ForVersion(version)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		entries = append(entries, taxRateEntry{
			Version:                      cfg.Version,
			EffectiveDate:                cfg.EffectiveDate,
			CITStandardRate:              cfg.CITStandardRate.String(),
			SmallBusinessReliefThreshold: cfg.SmallBusinessReliefThreshold.String(),
			QFZPRate:                     cfg.QFZPRate.String(),
			QFZPEligibleIncomeCap:        cfg.QFZPEligibleIncomeCap.String(),
			VATStandardRate:              cfg.VATStandardRate.String(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
