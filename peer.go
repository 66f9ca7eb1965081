package jdbcurl

import (
	"context"
	"net"

	"github.com/zeebo/errs"
	"golang.org/x/sync/errgroup"

	"jdbcurl/console"
	"jdbcurl/internal/logger"
	"jdbcurl/pkg/rate"
)

// Config is the global configuration for jdbcurl.
type Config struct {
	Console console.Config `envPrefix:"CONSOLE_"`
}

// Peer is the representation of a jdbcurl server.
type Peer struct {
	Config Config
	Log    logger.Logger

	// Console web server exposing url parsing over http.
	Console struct {
		Listener net.Listener
		Endpoint *console.Server
	}
}

// New is a constructor for peer.
func New(logger logger.Logger, config Config) (peer *Peer, err error) {
	peer = &Peer{
		Log:    logger,
		Config: config,
	}

	// console setup
	{
		peer.Console.Listener, err = net.Listen("tcp", config.Console.Address)
		if err != nil {
			return &Peer{}, err
		}

		rateLimiter := rate.NewLimiter(config.Console.RateLimiter)

		peer.Console.Endpoint = console.NewServer(
			config.Console,
			peer.Log,
			peer.Console.Listener,
			rateLimiter,
		)
	}

	return peer, nil
}

// Addr returns address the console listens on.
func (peer *Peer) Addr() string {
	return peer.Console.Listener.Addr().String()
}

// Run runs console until it's either closed or it errors.
func (peer *Peer) Run(ctx context.Context) error {
	peer.Log.Info("jdbcurl console listening on " + peer.Addr())

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return peer.Console.Endpoint.Run(ctx)
	})

	return group.Wait()
}

// Close closes all the resources.
func (peer *Peer) Close() error {
	peer.Log.Debug("jdbcurl closing")
	var errlist errs.Group

	if peer.Console.Endpoint != nil {
		errlist.Add(peer.Console.Endpoint.Close())
	}

	if err := errlist.Err(); err != nil {
		peer.Log.Error("could not close jdbcurl", err)
		return err
	}

	return nil
}
