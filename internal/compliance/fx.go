package compliance

import (
	"go.uber.org/fx"

	"github.com/mizanlabs/mizan/internal/compliance/repository"
	"github.com/mizanlabs/mizan/internal/compliance/service"
)

var Module = fx.Module("compliance.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
