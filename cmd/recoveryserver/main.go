package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/keyquorum/share-recovery-backend/cmd/flags"
	"github.com/keyquorum/share-recovery-backend/httpserver"
	"github.com/keyquorum/share-recovery-backend/interfaces"
	"github.com/keyquorum/share-recovery-backend/recovery"
	"github.com/keyquorum/share-recovery-backend/sharestore"
)

var RecoveryServiceLogFlag = flags.LogServiceFlagFn("share-recovery")

var ListenAddrFlag = &cli.StringFlag{
	Name:  "listen-addr",
	Value: "127.0.0.1:8080",
	Usage: "address to listen on for API",
}

func main() {
	app := &cli.App{
		Name:  "recovery-server",
		Usage: "Serve share-set reconstruction over HTTP",
		Flags: append([]cli.Flag{ListenAddrFlag, flags.StoreFlag, flags.WorkersFlag, RecoveryServiceLogFlag}, flags.CommonFlags...),
		Action: func(cCtx *cli.Context) error {
			listenAddr := cCtx.String(ListenAddrFlag.Name)
			storeURIs := cCtx.StringSlice(flags.StoreFlag.Name)
			workers := cCtx.Int(flags.WorkersFlag.Name)

			logger := flags.SetupLogger(cCtx)

			// A store is optional. Without one only the inline document
			// endpoint is served.
			var store interfaces.ShareStore
			if len(storeURIs) > 0 {
				factory := sharestore.NewStoreFactory(logger)
				multiStore, err := factory.CreateMultiStore(storeURIs)
				if err != nil {
					logger.Error("Failed to create share stores", "err", err)
					return err
				}
				store = multiStore
				logger.Info("Share stores configured", "location", multiStore.LocationURI())
			}

			reconstructor := recovery.NewReconstructor(logger).SetWorkers(workers)
			handler := httpserver.NewHandler(store, reconstructor, logger)

			srv, err := httpserver.New(flags.ConfigureServer(cCtx, logger, listenAddr), handler)
			if err != nil {
				logger.Error("Failed to create server", "err", err)
				return err
			}

			srv.RunInBackground()

			exit := make(chan os.Signal, 1)
			signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

			logger.Info("Server is running, press Ctrl+C to stop")
			<-exit
			logger.Info("Shutdown signal received")

			srv.Shutdown()
			logger.Info("Server shutdown complete")

			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
