package tax

import (
	"go.uber.org/fx"

	"github.com/mizanlabs/mizan/internal/tax/repository"
	"github.com/mizanlabs/mizan/internal/tax/service"
	"github.com/mizanlabs/mizan/internal/taxrate"
)

var Module = fx.Module("tax.service",
	taxrate.Module,
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
