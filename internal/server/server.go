package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mizanlabs/mizan/internal/compliance"
	compliancedomain "github.com/mizanlabs/mizan/internal/compliance/domain"
	"github.com/mizanlabs/mizan/internal/config"
	"github.com/mizanlabs/mizan/internal/invoice"
	invoicedomain "github.com/mizanlabs/mizan/internal/invoice/domain"
	"github.com/mizanlabs/mizan/internal/observability"
	obsmetrics "github.com/mizanlabs/mizan/internal/observability/metrics"
	obstracing "github.com/mizanlabs/mizan/internal/observability/tracing"
	"github.com/mizanlabs/mizan/internal/providers/pdf"
	"github.com/mizanlabs/mizan/internal/tax"
	taxdomain "github.com/mizanlabs/mizan/internal/tax/domain"
	"github.com/mizanlabs/mizan/internal/taxrate"
)

var Module = fx.Module("http.server",
	config.Module,
	observability.Module,
	fx.Provide(NewEngine),
	pdf.Module,
	tax.Module,
	compliance.Module,
	invoice.Module,
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, metrics *obsmetrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(obstracing.GinMiddleware())
	r.Use(MetricsMiddleware(metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	db         *gorm.DB
	genID      *snowflake.Node
	taxSvc     taxdomain.Service
	invoiceSvc invoicedomain.Service
	documents  compliancedomain.Repository
	rates      *taxrate.Holder
	pdf        pdf.Provider
	metrics    *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	DB         *gorm.DB
	GenID      *snowflake.Node
	TaxSvc     taxdomain.Service
	InvoiceSvc invoicedomain.Service
	Documents  compliancedomain.Repository
	Rates      *taxrate.Holder
	PDF        pdf.Provider
	Metrics    *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		db:         p.DB,
		genID:      p.GenID,
		taxSvc:     p.TaxSvc,
		invoiceSvc: p.InvoiceSvc,
		documents:  p.Documents,
		rates:      p.Rates,
		pdf:        p.PDF,
		metrics:    p.Metrics,
	}
}

func registerRoutes(s *Server) {
	s.RegisterRoutes()
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) RegisterRoutes() {
	v1 := s.engine.Group("/v1")

	// -------- Tax calculations --------
	v1.POST("/tax/cit", s.CalculateCIT)
	v1.POST("/tax/vat", s.CalculateVAT)
	v1.GET("/tax/filings", s.ListTaxFilings)
	v1.GET("/tax/rates", s.ListTaxRates)

	// -------- Invoices --------
	v1.POST("/invoices", s.FinalizeInvoice)
	v1.GET("/invoices", s.ListInvoices)
	v1.GET("/invoices/:id", s.GetInvoiceByID)
	v1.POST("/invoices/:id/amend", s.AmendInvoice)
	v1.GET("/invoices/:id/document", s.GetInvoiceDocument)
	v1.GET("/invoices/:id/document/xml", s.GetInvoiceDocumentXML)
	v1.GET("/invoices/:id/pdf", s.RenderInvoicePDF)
}
