package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openlens/trustfeed/internal/profile"
	"github.com/openlens/trustfeed/internal/version"
	"github.com/openlens/trustfeed/server"
	"github.com/openlens/trustfeed/store"
	"github.com/openlens/trustfeed/store/db"
)

var rootCmd = &cobra.Command{
	Use:   "trustfeed",
	Short: "A lens-personalized feed ranker over a signed trust graph",
	Run: func(_ *cobra.Command, _ []string) {
		instanceProfile := &profile.Profile{
			Mode:             viper.GetString("mode"),
			Addr:             viper.GetString("addr"),
			Port:             viper.GetInt("port"),
			Data:             viper.GetString("data"),
			Driver:           viper.GetString("driver"),
			DSN:              viper.GetString("dsn"),
			InstanceURL:      viper.GetString("instance-url"),
			GatewayURL:       viper.GetString("gateway-url"),
			FetchTimeout:     viper.GetDuration("fetch-timeout"),
			FetchParallelism: viper.GetInt("fetch-parallelism"),
			FetchRatePerSec:  viper.GetFloat64("fetch-rate"),
			TrustAlpha:       viper.GetFloat64("trust-alpha"),
			TrustBeta:        viper.GetFloat64("trust-beta"),
			TrustIterations:  viper.GetInt("trust-iterations"),
			FeedWindow:       viper.GetInt("feed-window"),
			FeedLimit:        viper.GetInt("feed-limit"),
			Version:          version.GetCurrentVersion(viper.GetString("mode")),
		}
		if err := instanceProfile.Validate(); err != nil {
			slog.Error("invalid configuration", "error", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		dbDriver, err := db.NewDBDriver(instanceProfile)
		if err != nil {
			slog.Error("failed to create db driver", "error", err)
			os.Exit(1)
		}

		storeInstance := store.New(dbDriver, instanceProfile)
		if err := storeInstance.Migrate(ctx); err != nil {
			slog.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}

		s, err := server.NewServer(ctx, instanceProfile, storeInstance)
		if err != nil {
			slog.Error("failed to create server", "error", err)
			os.Exit(1)
		}

		sc := make(chan os.Signal, 1)
		signal.Notify(sc, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sc
			slog.Info("shutting down")
			s.Shutdown(ctx)
			cancel()
		}()

		printGreetings(instanceProfile)

		if err := s.Start(ctx); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			cancel()
		}

		<-ctx.Done()
	},
}

func init() {
	viper.SetDefault("mode", "demo")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("addr", "")
	viper.SetDefault("port", 8230)
	viper.SetDefault("data", "")
	viper.SetDefault("fetch-timeout", 5*time.Second)

	rootCmd.PersistentFlags().String("mode", "demo", `mode of the server, can be "prod", "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "binding address of the server")
	rootCmd.PersistentFlags().Int("port", 8230, "binding port of the server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", `database driver, "sqlite" or "postgres"`)
	rootCmd.PersistentFlags().String("dsn", "", "database connection string")
	rootCmd.PersistentFlags().String("instance-url", "", "public url of this instance")
	rootCmd.PersistentFlags().String("gateway-url", "", "base url of the content-addressed backend")

	for _, flag := range []string{"mode", "addr", "port", "data", "driver", "dsn", "instance-url", "gateway-url"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("trustfeed")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func printGreetings(p *profile.Profile) {
	fmt.Printf("trustfeed %s, mode %q, driver %q\n", p.Version, p.Mode, p.Driver)
	fmt.Printf("listening on %s:%d\n", p.Addr, p.Port)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("failed to execute command", "error", err)
		os.Exit(1)
	}
}
