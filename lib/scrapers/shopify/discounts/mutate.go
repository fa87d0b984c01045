package discounts

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"ezsd/lib/scrapers/shopify/core"
	"ezsd/lib/textutil"

	"go.opentelemetry.io/otel/codes"
)

// RemoteError is an error the admin surfaced through its toast machinery.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string { return e.Message }

// SanityCheckFailed means the response carried no error toast, but the exact
// success toast for the operation was absent too.
var SanityCheckFailed = fmt.Errorf("success notice missing from response")

const (
	errorMarkerStart = `Messenger.error("`
	errorMarkerEnd   = `");`
)

// The admin reports the outcome of a form submission inside the response
// body, not through the status code. The success notice embeds an
// ellipsis after the code as a literal \u0026hellip; escape sequence.
func checkResponse(body, successNotice string) error {
	if strings.Contains(body, errorMarkerStart) {
		message, err := textutil.Delimited(body, errorMarkerStart, errorMarkerEnd)
		if err != nil {
			return fmt.Errorf("malformed error notice: %w", err)
		}
		return &RemoteError{Message: message}
	}
	if !strings.Contains(body, successNotice) {
		return SanityCheckFailed
	}
	return nil
}

func postForm(ctx context.Context, client *core.Client, path string, form url.Values) (string, error) {
	res, err := client.MutateRequest(ctx).
		SetHeader("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8").
		SetBody(form.Encode()).
		Post(path)
	if err != nil {
		return "", err
	}
	return res.String(), nil
}

// Create submits the discount-creation form for a single record.
func Create(ctx context.Context, client *core.Client, d Discount) error {
	ctx, span := tracer.Start(ctx, "Create")
	defer span.End()

	form := url.Values{}
	form.Set("authenticity_token", client.CsrfToken)
	form.Set("discount[code]", d.Code)
	form.Set("type", d.Type)
	form.Set("discount[value]", d.Value)
	form.Set("discount[applies_to_type]", d.AppliesToType)
	form.Set("discount[minimum_order_amount]", d.MinimumOrderAmount)
	form.Set("discount[applies_to_id]", d.AppliesToId)
	form.Set("discount[starts_at]", d.StartsAt)
	form.Set("discount[ends_at]", d.EndsAt)
	form.Set("discount[usage_limit]", d.UsageLimit)

	body, err := postForm(ctx, client, "/admin/discounts/", form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to post discount form")
		return fmt.Errorf("create discount (%s): %w", d.Code, err)
	}

	notice := fmt.Sprintf(`Messenger.notice("Successfully created the discount %s\u0026hellip;");`, d.Code)
	err = checkResponse(body, notice)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "discount was not created")
		return fmt.Errorf("create discount (%s): %w", d.Code, err)
	}
	return nil
}

// Delete removes a single discount by id through the form method override.
func Delete(ctx context.Context, client *core.Client, d Discount) error {
	ctx, span := tracer.Start(ctx, "Delete")
	defer span.End()

	form := url.Values{}
	form.Set("authenticity_token", client.CsrfToken)
	form.Set("_method", "delete")

	body, err := postForm(ctx, client, fmt.Sprintf("/admin/discounts/%s", d.Id), form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to post delete form")
		return fmt.Errorf("delete discount (%s): %w", d.Code, err)
	}

	notice := fmt.Sprintf(`Messenger.notice("Deleted discount %s\u0026hellip;");`, d.Code)
	err = checkResponse(body, notice)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "discount was not deleted")
		return fmt.Errorf("delete discount (%s): %w", d.Code, err)
	}
	return nil
}
