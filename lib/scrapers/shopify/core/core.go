package core

import (
	"bytes"
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"

	"ezsd/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

var LoginFailed = fmt.Errorf("Failed to log in to the store admin.")

// Client is an authenticated browser-style session against a store's admin
// interface. The session id and csrf token are populated by Login and are
// valid for the lifetime of the run; there is no refresh.
type Client struct {
	StoreName string
	BaseUrl   *url.URL
	Http      *resty.Client

	SessionId string
	CsrfToken string
}

type ClientOptions struct {
	StoreName string
	// overrides the default https://<store>.myshopify.com base url,
	// used by tests
	BaseUrl string
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	rawUrl := opts.BaseUrl
	if rawUrl == "" {
		rawUrl = fmt.Sprintf("https://%s.myshopify.com", opts.StoreName)
	}
	baseUrl, err := url.Parse(rawUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(rawUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/shopify/http")
	restyutilInstrument(client)

	c := &Client{
		StoreName: opts.StoreName,
		BaseUrl:   baseUrl,
		Http:      client,
	}
	return c, nil
}

// Login submits the admin login form and captures the session cookie and
// csrf token. A logout link in the response is the logged-in sanity check.
func (c *Client) Login(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"login":    username,
			"password": password,
		}).
		Post("/admin/auth/login")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to make login request")
		return err
	}

	sessionId := ""
	for _, cookie := range c.Http.GetClient().Jar.Cookies(c.BaseUrl) {
		if cookie.Name == "_secure_session_id" {
			sessionId = cookie.Value
			break
		}
	}
	if sessionId == "" {
		span.SetStatus(codes.Error, "failed to find session cookie")
		return LoginFailed
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse login response html")
		return err
	}

	// if there is a logout link, it's a safe bet to assume we are logged in
	if len(doc.Find(`a[href="/admin/auth/logout"]`).Nodes) == 0 {
		span.SetStatus(codes.Error, LoginFailed.Error())
		return LoginFailed
	}

	// goquery decodes html entities in attribute values already
	token := doc.Find(`meta[name="csrf-token"]`).AttrOr("content", "")
	if token == "" {
		span.SetStatus(codes.Error, "failed to find csrf token")
		return fmt.Errorf("could not find csrf token meta tag")
	}

	c.SessionId = sessionId
	c.CsrfToken = token
	return nil
}

// ReadRequest returns a request carrying the headers every admin page fetch
// requires.
func (c *Client) ReadRequest(ctx context.Context) *resty.Request {
	return c.Http.R().
		SetContext(ctx).
		SetHeader("Accept", "*/*").
		SetHeader("Accept-Language", "en-US").
		SetHeader("Accept-Charset", "utf-8").
		SetHeader("Cookie", fmt.Sprintf("_secure_session_id=%s", c.SessionId)).
		SetHeader("X-CSRF-Token", c.CsrfToken)
}

// MutateRequest is ReadRequest plus the xhr-identifying headers the admin
// requires on form submissions.
func (c *Client) MutateRequest(ctx context.Context) *resty.Request {
	return c.ReadRequest(ctx).
		SetHeader("X-Requested-With", "XMLHttpRequest").
		SetHeader("X-Prototype-Version", "1.7")
}
