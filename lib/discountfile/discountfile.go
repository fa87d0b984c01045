// Package discountfile reads and writes the 12-column CSV files the sync
// tool exchanges discounts through.
package discountfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"ezsd/lib/scrapers/shopify/discounts"
)

// Header is the fixed first line of every discount file. Note that Id is
// not ID to prevent excel from interpreting the file as SYLK.
const Header = "Id,CODE,TYPE,VALUE,APPLIES_TO_TYPE,MINIMUM_ORDER_AMOUNT,APPLIES_TO_ID,STARTS_AT,ENDS_AT,USAGE_COUNT,USAGE_LIMIT,ENABLED"

const fieldCount = 12

// Read loads a discount file. The header line is ignored, blank lines are
// skipped, and every value is trimmed.
func Read(path string) ([]discounts.Discount, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = fieldCount
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var result []discounts.Discount
	for _, rec := range records[1:] {
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		enabled, _ := strconv.ParseBool(strings.ToLower(rec[11]))
		result = append(result, discounts.Discount{
			Id:                 rec[0],
			Code:               rec[1],
			Type:               rec[2],
			Value:              rec[3],
			AppliesToType:      rec[4],
			MinimumOrderAmount: rec[5],
			AppliesToId:        rec[6],
			StartsAt:           rec[7],
			EndsAt:             rec[8],
			UsageCount:         rec[9],
			UsageLimit:         rec[10],
			Enabled:            enabled,
		})
	}
	return result, nil
}

// Write renders the discounts to a file, header first.
func Write(path string, ds []discounts.Discount) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	err = w.Write(strings.Split(Header, ","))
	if err != nil {
		return err
	}
	for _, d := range ds {
		err = w.Write([]string{
			d.Id,
			d.Code,
			d.Type,
			d.Value,
			d.AppliesToType,
			d.MinimumOrderAmount,
			d.AppliesToId,
			d.StartsAt,
			d.EndsAt,
			d.UsageCount,
			d.UsageLimit,
			strconv.FormatBool(d.Enabled),
		})
		if err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
