package discounts

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"ezsd/lib/scrapers/shopify/core"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// RowError records one listing row that could not be parsed.
type RowError struct {
	Page int
	Row  int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("page %d row %d: %s", e.Page, e.Row, e.Err.Error())
}

func (e RowError) Unwrap() error { return e.Err }

// ReadAll walks the marketing listing pages in increasing order, parsing
// every discount row. The listing has no last-page indicator; a page whose
// first row does not have exactly four cells is past the end of the data.
//
// A row that fails to parse is logged, recorded, and skipped; the
// successfully parsed records are always returned. A structural failure at
// the page level (transport error, missing listing table) aborts the walk
// and is returned as the error.
func ReadAll(ctx context.Context, client *core.Client) ([]Discount, []RowError, error) {
	ctx, span := tracer.Start(ctx, "ReadAll")
	defer span.End()

	var all []Discount
	var rowErrs []RowError

	for page := 1; ; page++ {
		slog.InfoContext(ctx, "processing page", "page", page)

		res, err := client.ReadRequest(ctx).
			Get(fmt.Sprintf("/admin/marketing?page=%d", page))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to fetch listing page")
			return all, rowErrs, fmt.Errorf("page %d: %w", page, err)
		}
		doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to parse listing html")
			return all, rowErrs, fmt.Errorf("page %d: %w", page, err)
		}

		rows := doc.Find("table#coupons tbody tr")
		if len(rows.Nodes) == 0 {
			err := fmt.Errorf("page %d: no rows under the coupons table", page)
			span.RecordError(err)
			span.SetStatus(codes.Error, "listing table missing")
			return all, rowErrs, err
		}

		// a page past the last real one renders a single filler row
		if len(rows.First().Find("td").Nodes) != 4 {
			break
		}

		rows.Each(func(i int, row *goquery.Selection) {
			d, err := ParseRow(row)
			if err != nil {
				slog.ErrorContext(ctx, "failed to parse discount row",
					"page", page, "row", i, "err", err)
				rowErrs = append(rowErrs, RowError{Page: page, Row: i, Err: err})
				return
			}
			slog.DebugContext(ctx, "parsed discount", "code", d.Code)
			all = append(all, d)
		})
	}

	span.SetAttributes(
		attribute.Int("discounts", len(all)),
		attribute.Int("row_errors", len(rowErrs)),
	)
	return all, rowErrs, nil
}
