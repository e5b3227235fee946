package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/motorhall/motorhall"
	"github.com/motorhall/motorhall/config"
	"github.com/motorhall/motorhall/util"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

func captureOsInterrupt() chan bool {
	quit := make(chan bool)

	go func() {
		c := make(chan os.Signal, 2)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)

		for sig := range c {
			logrus.Infof("captured %v, stopping and exiting.", sig)

			quit <- true
			close(quit)

			break
		}
	}()

	return quit
}

func main() { os.Exit(mainReturnWithCode()) }

func mainReturnWithCode() int {
	logrus.SetLevel(logrus.DebugLevel)

	cfg := config.LoadConfig(".")

	config.ValidateConfig(cfg)

	app := motorhall.NewApplication(cfg)
	defer util.Close(app)

	rootCmd := &cli.Command{
		Name:        "motorhall",
		Description: "dealership site backend",
		Commands: []*cli.Command{
			{
				Name: "serve-public",
				Action: func(_ context.Context, _ *cli.Command) error {
					err := app.Migrate()
					if err != nil {
						return err
					}

					quit := captureOsInterrupt()

					return app.ServePublic(quit)
				},
			},
			{
				Name: "serve-private",
				Action: func(_ context.Context, _ *cli.Command) error {
					quit := captureOsInterrupt()

					return app.ServePrivate(quit)
				},
			},
			{
				Name: "migrate",
				Action: func(_ context.Context, _ *cli.Command) error {
					return app.Migrate()
				},
			},
			{
				Name: "listen-analytics-amqp",
				Action: func(ctx context.Context, _ *cli.Command) error {
					quit := captureOsInterrupt()

					return app.ListenAnalyticsAMQP(ctx, quit)
				},
			},
		},
	}

	err := rootCmd.Run(context.Background(), os.Args)
	if err != nil {
		logrus.Error(err)

		return 1
	}

	return 0
}
