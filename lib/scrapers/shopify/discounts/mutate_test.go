package discounts

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"ezsd/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func TestCreateSuccess(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/shopify/discounts")
	defer cleanup()

	var gotForm map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/admin/discounts/", r.URL.Path)
		require.Equal(t, "XMLHttpRequest", r.Header.Get("X-Requested-With"))
		require.Equal(t, "1.7", r.Header.Get("X-Prototype-Version"))
		require.Equal(t, "test-csrf", r.Header.Get("X-CSRF-Token"))
		require.Equal(t,
			"application/x-www-form-urlencoded; charset=UTF-8",
			r.Header.Get("Content-Type"))

		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{}
		for k := range r.PostForm {
			gotForm[k] = r.PostForm.Get(k)
		}

		fmt.Fprint(w, `<script>Messenger.notice("Successfully created the discount SAVE10\u0026hellip;");</script>`)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	err := Create(context.Background(), client, Discount{
		Code:               "SAVE10",
		Type:               TypeFixedAmount,
		Value:              "10.00",
		AppliesToType:      AppliesToProduct,
		MinimumOrderAmount: "0",
		AppliesToId:        "998877",
		StartsAt:           "2012-06-01",
		EndsAt:             "2012-06-30",
		UsageLimit:         "10",
	})
	require.NoError(t, err)

	require.Equal(t, "test-csrf", gotForm["authenticity_token"])
	require.Equal(t, "SAVE10", gotForm["discount[code]"])
	require.Equal(t, "fixed_amount", gotForm["type"])
	require.Equal(t, "10.00", gotForm["discount[value]"])
	require.Equal(t, "Product", gotForm["discount[applies_to_type]"])
	require.Equal(t, "0", gotForm["discount[minimum_order_amount]"])
	require.Equal(t, "998877", gotForm["discount[applies_to_id]"])
	require.Equal(t, "2012-06-01", gotForm["discount[starts_at]"])
	require.Equal(t, "2012-06-30", gotForm["discount[ends_at]"])
	require.Equal(t, "10", gotForm["discount[usage_limit]"])
}

func TestCreateRemoteError(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/shopify/discounts")
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<script>Messenger.error("This discount code already exists.");</script>`)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	err := Create(context.Background(), client, Discount{Code: "DUPE"})
	require.Error(t, err)

	var remoteErr *RemoteError
	require.True(t, errors.As(err, &remoteErr))
	require.Equal(t, "This discount code already exists.", remoteErr.Message)
}

func TestCreateSanityCheckFailed(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/shopify/discounts")
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// no error toast, but no success toast either
		fmt.Fprint(w, `<html><body>ok</body></html>`)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	err := Create(context.Background(), client, Discount{Code: "NOPE"})
	require.ErrorIs(t, err, SanityCheckFailed)
}

func TestCreateSuccessNoticeMustNameTheCode(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/shopify/discounts")
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<script>Messenger.notice("Successfully created the discount OTHER\u0026hellip;");</script>`)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	err := Create(context.Background(), client, Discount{Code: "MINE"})
	require.ErrorIs(t, err, SanityCheckFailed)
}

func TestDeleteSuccess(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/shopify/discounts")
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/admin/discounts/12345", r.URL.Path)

		require.NoError(t, r.ParseForm())
		require.Equal(t, "delete", r.PostForm.Get("_method"))
		require.Equal(t, "test-csrf", r.PostForm.Get("authenticity_token"))

		fmt.Fprint(w, `<script>Messenger.notice("Deleted discount SAVE10\u0026hellip;");</script>`)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	err := Delete(context.Background(), client, Discount{Id: "12345", Code: "SAVE10"})
	require.NoError(t, err)
}

func TestDeleteRemoteError(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/shopify/discounts")
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<script>Messenger.error("Discount not found.");</script>`)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	err := Delete(context.Background(), client, Discount{Id: "404", Code: "GONE"})

	var remoteErr *RemoteError
	require.True(t, errors.As(err, &remoteErr))
	require.Equal(t, "Discount not found.", remoteErr.Message)
}

func TestCreateNoticeEllipsisIsAnEscapeSequence(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/shopify/discounts")
	defer cleanup()

	// the admin writes the ellipsis entity's ampersand as a javascript
	// unicode escape, so the raw bytes after the code are \u0026hellip;
	// and never a bare &hellip;
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<script>Messenger.notice("Successfully created the discount SAVE10&hellip;");</script>`)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	err := Create(context.Background(), client, Discount{Code: "SAVE10"})
	require.ErrorIs(t, err, SanityCheckFailed)
}
