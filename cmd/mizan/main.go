package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/mizanlabs/mizan/internal/logger"
	"github.com/mizanlabs/mizan/internal/migration"
	"github.com/mizanlabs/mizan/internal/server"
	"github.com/mizanlabs/mizan/pkg/db"
)

func main() {
	app := fx.New(
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
