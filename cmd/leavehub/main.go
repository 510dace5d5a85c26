package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/leavehub/leavehub/internal/config"
	"github.com/leavehub/leavehub/internal/migration"
	"github.com/leavehub/leavehub/internal/observability"
	"github.com/leavehub/leavehub/internal/server"
	"github.com/leavehub/leavehub/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
