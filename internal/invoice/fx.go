package invoice

import (
	"go.uber.org/fx"

	"github.com/mizanlabs/mizan/internal/invoice/repository"
	"github.com/mizanlabs/mizan/internal/invoice/service"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
