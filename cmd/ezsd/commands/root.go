package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"ezsd/lib/restyutil"
	"ezsd/lib/scrapers/shopify/core"
	"ezsd/lib/serviceutil"
	"ezsd/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	verbose     bool
	logFile     string
	dumpHttpDir string

	closeLog    func()
	shutdownTel func()
)

var rootCmd = &cobra.Command{
	Use:   "ezsd",
	Short: "ezsd synchronizes store discount codes with local CSV files.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var err error
		closeLog, err = telemetry.InitSlogTee(verbose, logFile)
		if err != nil {
			telemetry.InitSlog(verbose)
			slog.Warn("could not open log file, logging to stderr only",
				"path", logFile, "err", err)
		}

		ctx := cmd.Context()
		tel, err := telemetry.SetupFromEnv(ctx, "ezsd")
		if err == nil {
			telemetry.InstrumentPerfStats(ctx)
			shutdownTel = func() { tel.Shutdown(context.Background()) }
		} else if !os.IsNotExist(err) {
			slog.Warn("failed to set up telemetry", "err", err)
		}

		if dumpHttpDir != "" {
			core.SetRestyInstrumentOutput(restyutil.NewFilesystemOutput(dumpHttpDir))
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if shutdownTel != nil {
			shutdownTel()
		}
		if closeLog != nil {
			closeLog()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false,
		"Enable debug logging.")
	rootCmd.PersistentFlags().StringVar(
		&logFile, "log", "ezsd.log.txt",
		"The file to mirror log output into.")
	rootCmd.PersistentFlags().StringVar(
		&dumpHttpDir, "dump-http", "",
		"Dump every admin request/response into this directory (requires --verbose).")
}

func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// createClient logs into the store admin or exits.
func createClient(ctx context.Context, storeName, username, password string) *core.Client {
	slog.Info("authenticating", "store", storeName, "username", username)

	client, err := core.NewClient(ctx, core.ClientOptions{StoreName: storeName})
	if err != nil {
		serviceutil.Fatal("failed to initialize admin client", err)
	}
	err = client.Login(ctx, username, password)
	if err != nil {
		serviceutil.Fatal("failed to log in to the store admin", err)
	}
	return client
}

func finish(hadErrors bool) {
	if hadErrors {
		fmt.Printf("Done, but with errors. Check %s for details.\n", logFile)
		return
	}
	fmt.Println("Done!")
}
