package discounts

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"ezsd/lib/scrapers/shopify/core"
	"ezsd/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, baseUrl string) *core.Client {
	client, err := core.NewClient(context.Background(), core.ClientOptions{
		StoreName: "teststore",
		BaseUrl:   baseUrl,
	})
	require.NoError(t, err)
	client.SessionId = "test-session"
	client.CsrfToken = "test-csrf"
	return client
}

func listingPage(rows string) string {
	return fmt.Sprintf(
		`<html><body><table id="coupons"><tbody>%s</tbody></table></body></html>`,
		rows,
	)
}

const fillerRow = `<tr><td colspan="4">No discounts found</td></tr>`

func goodRow(id, code string) string {
	return fmt.Sprintf(`
		<tr id="discount-%s">
			<td><strong>%s</strong></td>
			<td><strong>$5.00</strong> off all orders</td>
			<td><ul><li>Used 1 time</li></ul></td>
			<td><a href="#">Disable discount</a></td>
		</tr>`, id, code)
}

// four cells but no bold code, so the row parses into an error
const badRow = `
	<tr id="discount-999">
		<td>BROKEN</td>
		<td><strong>$5.00</strong> off all orders</td>
		<td></td>
		<td><a href="#">Disable discount</a></td>
	</tr>`

func TestReadAllStopsAtFillerPage(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/shopify/discounts")
	defer cleanup()

	pages := map[string]string{
		"1": listingPage(goodRow("1", "ONE") + goodRow("2", "TWO")),
		"2": listingPage(goodRow("3", "THREE")),
		"3": listingPage(fillerRow),
	}
	var requested []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/marketing", r.URL.Path)
		require.Equal(t, "_secure_session_id=test-session", r.Header.Get("Cookie"))
		require.Equal(t, "test-csrf", r.Header.Get("X-CSRF-Token"))

		page := r.URL.Query().Get("page")
		requested = append(requested, page)
		body, ok := pages[page]
		require.True(t, ok, "unexpected page %s", page)
		fmt.Fprint(w, body)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	all, rowErrs, err := ReadAll(context.Background(), client)
	require.NoError(t, err)
	require.Empty(t, rowErrs)

	require.Equal(t, []string{"1", "2", "3"}, requested)
	require.Len(t, all, 3)
	require.Equal(t, "ONE", all[0].Code)
	require.Equal(t, "TWO", all[1].Code)
	require.Equal(t, "THREE", all[2].Code)
}

func TestReadAllSkipsBadRows(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/shopify/discounts")
	defer cleanup()

	pages := map[string]string{
		"1": listingPage(goodRow("1", "ONE") + badRow + goodRow("2", "TWO")),
		"2": listingPage(fillerRow),
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, pages[r.URL.Query().Get("page")])
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	all, rowErrs, err := ReadAll(context.Background(), client)
	require.NoError(t, err)

	require.Len(t, all, 2)
	require.Equal(t, "ONE", all[0].Code)
	require.Equal(t, "TWO", all[1].Code)

	require.Len(t, rowErrs, 1)
	require.Equal(t, 1, rowErrs[0].Page)
	require.Equal(t, 1, rowErrs[0].Row)
}

func TestReadAllMissingListingTable(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/shopify/discounts")
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><p>maintenance</p></body></html>")
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	_, _, err := ReadAll(context.Background(), client)
	require.Error(t, err)
}
