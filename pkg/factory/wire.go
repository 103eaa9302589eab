//go:build wireinject
// +build wireinject

package factory

import (
	"github.com/google/wire"

	"github.com/danielkrainas/sbi/pkg/service"
)

var serviceSet = wire.NewSet(
	InitializeStorage,
	InitializeHub,
	InitializeSMF,
	InitializeNRF,
	InitializeCallbackReceiver,
	InitializeDispatchers,
)

func Catalog(config *service.Config) (*Dispatchers, error) {
	wire.Build(serviceSet)
	return &Dispatchers{}, nil
}

func ComponentManager(rctx RootContext, config *service.Config) (*service.ComponentManager, error) {
	wire.Build(
		serviceSet,
		InitializeLoggingContext,
		InitializeAuthenticator,
		InitializeAPI,
		InitializeCallbackAPI,
		InitializeServer,
		InitializeCallbackServer,
		InitializeNotifier,
		InitializeComponentManager,
	)

	return &service.ComponentManager{}, nil
}
