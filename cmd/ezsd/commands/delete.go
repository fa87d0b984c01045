package commands

import (
	"context"
	"log/slog"

	"ezsd/lib/batch"
	"ezsd/lib/discountfile"
	"ezsd/lib/scrapers/shopify/discounts"
	"ezsd/lib/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(deleteCmd)
}

var deleteCmd = &cobra.Command{
	Use:   "delete <store> <username> <password> <csvfile>",
	Short: "Deletes the discounts listed in a CSV file from the store.",
	Args:  cobra.ExactArgs(4),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		ds, err := discountfile.Read(args[3])
		if err != nil {
			serviceutil.Fatal("failed to read discount file", err)
		}
		client := createClient(ctx, args[0], args[1], args[2])

		slog.Info("deleting discounts", "count", len(ds))
		_, err = batch.Run(ctx, "delete discounts", ds,
			func(ctx context.Context, d discounts.Discount) error {
				slog.InfoContext(ctx, "deleting", "code", d.Code, "id", d.Id)
				return discounts.Delete(ctx, client, d)
			})
		finish(err != nil)
	},
}
