package relay_fx

import (
	"context"

	"go.uber.org/fx"

	"fieldvisit/internal/api/controllers"
	"fieldvisit/internal/relay"
)

var Module = fx.Options(
	fx.Provide(relay.NewHub, controllers.NewRelayController),
	fx.Invoke(runHub),
)

// The hub lives for the whole app: started on boot, stopped on shutdown.
func runHub(lc fx.Lifecycle, hub *relay.Hub) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go hub.Run()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			hub.Stop()
			return nil
		},
	})
}
