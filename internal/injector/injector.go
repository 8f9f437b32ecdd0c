//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/skirmish/internal/core/config"
	"github.com/zeusync/skirmish/internal/server"
)

func InitializeRunner(cfg *config.Config) (*server.Runner, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}
