//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"github.com/amaumene/kioskarr/internal/config"
)

// InitializeApp assembles the kiosk client. The returned cleanup closes the
// state database and the tracer provider.
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(ProviderSet, wire.Struct(new(App), "*"))
	return nil, nil, nil
}
