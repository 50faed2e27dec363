package ao3

import (
	"bytes"
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"

	"ao3feed-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/ao3")

const DefaultBaseUrl = "https://archiveofourown.org"

// Client holds the outbound http session for one AO3 origin. It is
// constructed once at startup (optionally logged in) and is read-only
// afterwards, so any number of request handlers may share it.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
}

type ClientOptions struct {
	BaseUrl string
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/ao3/http")

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}, nil
}

func (c *Client) LoginUsernamePassword(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "client:LoginUsernamePassword")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get("/users/login")
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch login page")
		return err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse login page")
		return err
	}

	token := doc.Find("input[name=authenticity_token]").AttrOr("value", "")
	if token == "" {
		span.SetStatus(codes.Error, "failed to find authenticity token")
		return fmt.Errorf("could not find authenticity token")
	}

	_, err = c.Http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"authenticity_token": token,
			"user[login]":        username,
			"user[password]":     password,
		}).
		Post("/users/login")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to make login request")
		return err
	}

	// the response status of the login post itself is an unreliable
	// success signal, so probe the homepage for the logout action instead
	res, err = c.Http.R().
		SetContext(ctx).
		Get("/")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to request homepage after login")
		return err
	}
	doc, err = goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse homepage html")
		return err
	}

	if len(doc.Find(`a[href="/users/logout"]`).Nodes) == 0 {
		span.SetStatus(codes.Error, ErrLoginFailed.Error())
		return ErrLoginFailed
	}
	return nil
}

// FetchWork downloads the full, unredacted view of a work and extracts it.
func (c *Client) FetchWork(ctx context.Context, workId uint64) (Work, error) {
	ctx, span := tracer.Start(ctx, "client:FetchWork")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"view_adult":     "true",
			"view_full_work": "true",
		}).
		Get(fmt.Sprintf("/works/%d", workId))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch work")
		return Work{}, TransportError{Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse work html")
		return Work{}, TransportError{Err: err}
	}

	work, err := ExtractWork(doc, c.BaseUrl, workId)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to extract work")
		return Work{}, err
	}
	return work, nil
}
