package discounts

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"ezsd/lib/htmlutil"
	"ezsd/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

var (
	currencyRegex      = regexp.MustCompile(`\$[0-9]+\.[0-9]{2}`)
	usedTimesRegex     = regexp.MustCompile(`Used [0-9]+ time[s]?`)
	usesRemainingRegex = regexp.MustCompile(`[0-9]+ use[s]? remaining`)
	dateRangeRegex     = regexp.MustCompile(`Starts [A-Za-z0-9 ]+, ends [A-Za-z0-9 ]+`)
	dateTokenRegex     = regexp.MustCompile(`[A-Za-z]{3} [0-9]{2}( [0-9]{4})?`)
	numberRegex        = regexp.MustCompile(`[0-9]+`)
)

// ParseRow turns one row of the discount listing table into a Discount.
// The listing renders four cells per discount: code, a free-form
// description, a list of status lines, and the enable/disable actions.
// Any missing expected node fails the row; callers decide whether a bad
// row aborts or is skipped.
func ParseRow(row *goquery.Selection) (Discount, error) {
	d, err := parseRow(row)
	if err != nil {
		return Discount{}, fmt.Errorf("parse discount (%s): %w", d.Code, err)
	}
	return d, nil
}

func parseRow(row *goquery.Selection) (Discount, error) {
	var d Discount

	rowId, ok := row.Attr("id")
	if !ok {
		return d, fmt.Errorf("row has no id attribute")
	}
	d.Id = strings.Replace(rowId, "discount-", "", 1)

	codeNode := row.Find("td:nth-child(1) strong")
	if len(codeNode.Nodes) == 0 {
		return d, fmt.Errorf("no bold code text in the first cell")
	}
	d.Code = htmlutil.CleanText(codeNode)

	d.MinimumOrderAmount = "0"

	col2 := row.Find("td:nth-child(2)")
	if len(col2.Nodes) == 0 {
		return d, fmt.Errorf("no description cell")
	}

	var err error
	if strings.Contains(col2.Text(), "free shipping to") {
		err = parseShippingDescription(col2, &d)
	} else {
		err = parseAmountDescription(col2, &d)
	}
	if err != nil {
		return d, err
	}

	for _, li := range row.Find("td:nth-child(3) li").Nodes {
		err := parseStatusLine(htmlutil.GetText(li), &d)
		if err != nil {
			return d, err
		}
	}

	actions := row.Find("td:nth-child(4) a")
	if len(actions.Nodes) == 0 {
		return d, fmt.Errorf("no action links in the last cell")
	}
	// the UI shows the inverse action as the available link
	d.Enabled = htmlutil.CleanText(actions.First()) == "Disable discount"

	return d, nil
}

// "Free shipping to <strong>destination</strong> for orders over $D.DD"
func parseShippingDescription(col2 *goquery.Selection, d *Discount) error {
	d.Type = TypeShipping

	if m := currencyRegex.FindString(col2.Text()); m != "" {
		d.Value = strings.ReplaceAll(m, "$", "")
	}

	bold := col2.Find("strong")
	if len(bold.Nodes) == 0 {
		return fmt.Errorf("no bold destination in the description cell")
	}

	switch htmlutil.CleanText(bold) {
	case "Anywhere":
		d.AppliesToId = ""
	case "Rest of World":
		d.AppliesToId = CountryIdRestOfWorld
		d.AppliesToType = AppliesToCountry
	case "United States":
		d.AppliesToId = CountryIdUnitedStates
		d.AppliesToType = AppliesToCountry
	}
	// other destinations are left unclassified rather than guessed at

	return nil
}

// "<strong>$D.DD</strong> off of ..." / "<strong>N%</strong> off ..."
func parseAmountDescription(col2 *goquery.Selection, d *Discount) error {
	bold := col2.Find("strong")
	if len(bold.Nodes) == 0 {
		return fmt.Errorf("no bold amount in the description cell")
	}

	amount := htmlutil.CleanText(bold)
	if strings.Contains(amount, "$") {
		d.Type = TypeFixedAmount
		d.Value = strings.ReplaceAll(amount, "$", "")
	} else if strings.Contains(amount, "%") {
		d.Type = TypePercentage
		d.Value = strings.TrimSpace(strings.ReplaceAll(amount, "%", ""))
	}

	outer, err := goquery.OuterHtml(col2)
	if err != nil {
		return fmt.Errorf("render description cell: %w", err)
	}
	rest, err := textutil.Delimited(outer, "</strong>", "</td>")
	if err != nil {
		return fmt.Errorf("description cell after the bold amount: %w", err)
	}
	rest = strings.ToLower(rest)

	if strings.Contains(rest, "off of the collection") {
		d.AppliesToType = AppliesToCollection
	} else if strings.Contains(rest, "off of") {
		d.AppliesToType = AppliesToProduct
	} else if strings.Contains(rest, "off orders equal or above") {
		d.AppliesToType = AppliesToMinimumOrderAmount
		d.MinimumOrderAmount = strings.TrimSpace(rest[strings.Index(rest, "$")+1:])
	}

	if d.AppliesToType == AppliesToProduct || d.AppliesToType == AppliesToCollection {
		anchor := col2.Find("a")
		if len(anchor.Nodes) == 0 {
			return fmt.Errorf("no link to the %s the discount applies to", strings.ToLower(d.AppliesToType))
		}
		d.AppliesToId = htmlutil.LastPathSegment(anchor.AttrOr("href", ""))
	}

	return nil
}

// Status lines render in document order; a line matches at most one pattern.
// "N uses remaining" depends on "Used N times" having already been seen,
// the row fails otherwise.
func parseStatusLine(line string, d *Discount) error {
	switch {
	case usedTimesRegex.MatchString(line):
		d.UsageCount = numberRegex.FindString(line)
	case usesRemainingRegex.MatchString(line):
		count, err := strconv.Atoi(d.UsageCount)
		if err != nil {
			return fmt.Errorf("uses remaining seen before the usage count: %w", err)
		}
		remaining, err := strconv.Atoi(numberRegex.FindString(line))
		if err != nil {
			return fmt.Errorf("uses remaining: %w", err)
		}
		d.UsageLimit = strconv.Itoa(count + remaining)
	case dateRangeRegex.MatchString(line):
		tokens := dateTokenRegex.FindAllString(line, -1)
		if len(tokens) < 2 {
			return fmt.Errorf("date range with fewer than two dates: %q", line)
		}
		start, err := normalizeDate(tokens[0])
		if err != nil {
			return err
		}
		end, err := normalizeDate(tokens[1])
		if err != nil {
			return err
		}
		d.StartsAt = start
		d.EndsAt = end
	case strings.HasPrefix(line, "Starts"):
		start, err := normalizeDate(dateTokenRegex.FindString(line))
		if err != nil {
			return err
		}
		d.StartsAt = start
	case strings.HasPrefix(line, "Ends"):
		end, err := normalizeDate(dateTokenRegex.FindString(line))
		if err != nil {
			return err
		}
		d.EndsAt = end
	}
	return nil
}

// normalizeDate turns a "Mon DD" or "Mon DD YYYY" token into ISO form.
// When the year is absent the current year is assumed, which is wrong
// for ranges straddling a year boundary; the listing gives nothing
// better to go on.
func normalizeDate(token string) (string, error) {
	t, err := time.Parse("Jan 02 2006", token)
	if err != nil {
		t, err = time.Parse("Jan 02", token)
		if err != nil {
			return "", fmt.Errorf("unparsable date %q", token)
		}
		t = time.Date(time.Now().Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	return t.Format("2006-01-02"), nil
}
