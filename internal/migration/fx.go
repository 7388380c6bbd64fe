package migration

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	compliancedomain "github.com/mizanlabs/mizan/internal/compliance/domain"
	"github.com/mizanlabs/mizan/internal/config"
	invoicedomain "github.com/mizanlabs/mizan/internal/invoice/domain"
	taxdomain "github.com/mizanlabs/mizan/internal/tax/domain"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// Versioned SQL migrations target postgres; other dialects fall
		// back to schema sync for local development.
		if cfg.DBType != "postgres" {
			return conn.AutoMigrate(
				&invoicedomain.InvoiceRecord{},
				&invoicedomain.InvoiceLineRecord{},
				&compliancedomain.DocumentRecord{},
				&taxdomain.TaxFiling{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
