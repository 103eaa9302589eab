package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/danielkrainas/gobag/context"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/danielkrainas/sbi/pkg/api"
	"github.com/danielkrainas/sbi/pkg/api/nrf"
	"github.com/danielkrainas/sbi/pkg/api/smf"
	"github.com/danielkrainas/sbi/pkg/api/v1"
	"github.com/danielkrainas/sbi/pkg/dispatch"
	"github.com/danielkrainas/sbi/pkg/models"
	"github.com/danielkrainas/sbi/pkg/service"
	"github.com/danielkrainas/sbi/pkg/util/log"
)

type RootContext context.Context

// CallbackMux routes the callback listener.
type CallbackMux struct {
	*api.Mux
}

// CallbackServer is the listener peers deliver callbacks to.
type CallbackServer struct {
	*api.Server
}

// Dispatchers holds one dispatcher per mounted API.
type Dispatchers struct {
	SMF      *dispatch.Dispatcher[smf.Server]
	NRF      *dispatch.Dispatcher[nrf.Server]
	Callback *dispatch.Dispatcher[smf.CallbackServer]
}

const hubCapacity = 64

func InitializeLoggingContext(rctx RootContext, config *service.Config) (context.Context, error) {
	ctx := context.Context(rctx)
	if err := log.Configure(config.Log.Level, config.Log.Formatter, config.Log.Fields); err != nil {
		return nil, err
	}

	logrus.SetLevel(logLevel(config.Log.Level))
	switch config.Log.Formatter {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})

	case "text", "":
		logrus.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: time.RFC3339Nano,
		})

	default:
		return nil, fmt.Errorf("unsupported formatter: %q", config.Log.Formatter)
	}

	if len(config.Log.Fields) > 0 {
		var fields []interface{}
		for k := range config.Log.Fields {
			fields = append(fields, k)
		}

		ctx = bagcontext.WithValues(ctx, config.Log.Fields)
		ctx = bagcontext.WithLogger(ctx, bagcontext.GetLogger(ctx, fields...))
	}

	ctx = bagcontext.WithLogger(ctx, bagcontext.GetLogger(ctx))
	log.Info("logging configured", zap.String("formatter", config.Log.Formatter), zap.String("level", config.Log.Level))
	return ctx, nil
}

func logLevel(level string) logrus.Level {
	l, err := logrus.ParseLevel(level)
	if err != nil {
		l = logrus.InfoLevel
		logrus.Warnf("error parsing level %q: %v, using %q", level, err, l)
	}

	return l
}

func InitializeStorage(config *service.Config) (service.StorageService, error) {
	return service.NewMemoryStorage([]*models.NFProfile{
		service.SelfProfile(config.SMF.InstanceID, config.HTTP.APIRoot),
	})
}

func InitializeHub() service.HubConnector {
	return service.NewPubSubHub(hubCapacity)
}

func InitializeSMF(config *service.Config, storage service.StorageService, hub service.HubConnector) *service.SMF {
	return service.NewSMF(storage, hub, config.HTTP.APIRoot, config.SMF.InstanceID)
}

func InitializeNRF(config *service.Config, storage service.StorageService) (*service.NRF, error) {
	return service.NewNRF(storage, config.NRF.SearchCacheSize, config.NRF.SearchValidity.Std())
}

func InitializeCallbackReceiver() *service.CallbackReceiver {
	return service.NewCallbackReceiver()
}

func InitializeAuthenticator(config *service.Config) (api.Authenticator, error) {
	return api.NewAuthenticator(config.Auth.Mode, []byte(config.Auth.SigningKey), config.Auth.Subject)
}

func InitializeDispatchers(config *service.Config, smfService *service.SMF, nrfService *service.NRF, receiver *service.CallbackReceiver) (*Dispatchers, error) {
	status := config.Dispatch.GenericErrorStatus
	smfDispatcher, err := smf.New(&smf.LoggingServer{Next: smfService}, status)
	if err != nil {
		return nil, fmt.Errorf("smf api: %w", err)
	}

	nrfDispatcher, err := nrf.New(nrfService, status)
	if err != nil {
		return nil, fmt.Errorf("nrf api: %w", err)
	}

	callbackDispatcher, err := smf.NewCallbacks(receiver, status)
	if err != nil {
		return nil, fmt.Errorf("callback api: %w", err)
	}

	return &Dispatchers{
		SMF:      smfDispatcher,
		NRF:      nrfDispatcher,
		Callback: callbackDispatcher,
	}, nil
}

func InitializeAPI(d *Dispatchers) (*api.Mux, error) {
	return api.NewMux(
		api.Mount{API: v1.APISMF, Handler: d.SMF},
		api.Mount{API: v1.APINRF, Handler: d.NRF},
	)
}

func InitializeCallbackAPI(d *Dispatchers) (CallbackMux, error) {
	mux, err := api.NewMux(api.Mount{API: v1.APICallback, Handler: d.Callback})
	return CallbackMux{mux}, err
}

func InitializeServer(ctx context.Context, config *service.Config, mux *api.Mux, auth api.Authenticator) (*api.Server, error) {
	return api.NewServer(ctx, mux, api.ServerConfig{
		Name:          "sbi",
		Addr:          config.HTTP.Addr,
		ReadTimeout:   config.HTTP.ReadTimeout.Std(),
		WriteTimeout:  config.HTTP.WriteTimeout.Std(),
		Authenticator: auth,
	})
}

func InitializeCallbackServer(ctx context.Context, config *service.Config, mux CallbackMux, auth api.Authenticator) (CallbackServer, error) {
	srv, err := api.NewServer(ctx, mux, api.ServerConfig{
		Name:          "callback",
		Addr:          config.Callback.Addr,
		ReadTimeout:   config.HTTP.ReadTimeout.Std(),
		WriteTimeout:  config.HTTP.WriteTimeout.Std(),
		Authenticator: auth,
	})

	return CallbackServer{srv}, err
}

// InitializeNotifier signs outgoing notifications when tokens are in use.
func InitializeNotifier(config *service.Config, hub service.HubConnector, auth api.Authenticator) *service.Notifier {
	var token service.TokenSource
	if jwtAuth, ok := auth.(*api.JWTAuthenticator); ok {
		subject := config.SMF.InstanceID
		token = func() (string, error) {
			return jwtAuth.IssueToken(subject, []string{smf.CallbackScope}, time.Now().Add(time.Hour).Unix())
		}
	}

	return service.NewNotifier(hub, config.SMF.NotifyTimeout.Std(), config.SMF.NotifyConcurrency, token)
}

func InitializeComponentManager(config *service.Config, server *api.Server, callbacks CallbackServer, notifier *service.Notifier, smfService *service.SMF, nrfService *service.NRF) *service.ComponentManager {
	cm := service.NewComponentManager()
	cm.MustUse(server)
	if config.Callback.Enabled {
		cm.MustUse(callbacks)
	}

	cm.MustUse(notifier)
	cm.MustUse(service.NewTaskComponent("search_expiry", config.NRF.ExpiryInterval.Std(), zapcore.DebugLevel, &service.SearchExpiryTask{NRF: nrfService}))
	cm.MustUse(&service.StopHookComponent{
		Name:  "readiness",
		Hooks: []func(){smfService.Close, nrfService.Close},
	})

	return cm
}
