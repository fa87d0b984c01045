package commands

import (
	"log/slog"
	"os"
	"time"

	"ezsd/lib/discountfile"
	"ezsd/lib/discountstore"
	"ezsd/lib/scrapers/shopify/discounts"
	"ezsd/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var exportDbPath string

func init() {
	exportCmd.Flags().StringVar(
		&exportDbPath, "db", "",
		"also record the exported discounts as a snapshot in the given sqlite database",
	)
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:     "export <store> <username> <password> <csvfile>",
	Aliases: []string{"read"},
	Short:   "Exports the store's discounts to a CSV file.",
	Args:    cobra.ExactArgs(4),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		client := createClient(ctx, args[0], args[1], args[2])

		ds, rowErrs, err := discounts.ReadAll(ctx, client)
		if err != nil {
			serviceutil.Fatal("failed to read discounts", err)
		}
		for _, rowErr := range rowErrs {
			slog.Warn("skipped discount row", "err", rowErr)
		}

		err = discountfile.Write(args[3], ds)
		if err != nil {
			serviceutil.Fatal("failed to write discount file", err)
		}

		if exportDbPath != "" {
			store, err := discountstore.Open(exportDbPath)
			if err != nil {
				serviceutil.Fatal("failed to open discount store", err)
			}
			defer store.Close()
			err = store.Push(ctx, discountstore.Snapshot{
				Time:      time.Now(),
				Discounts: ds,
			})
			if err != nil {
				serviceutil.Fatal("failed to push discount snapshot", err)
			}
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Id", "Code", "Type", "Value", "Applies To", "Enabled"})
		for _, d := range ds {
			t.AppendRow(table.Row{d.Id, d.Code, d.Type, d.Value, d.AppliesToType, d.Enabled})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()

		finish(len(rowErrs) > 0)
	},
}
