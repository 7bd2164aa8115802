// Package workflow is the component's client for the Inngest event-workflow
// service, built on the Inngest Go SDK: it publishes events and mounts the
// SDK's serve handler that Inngest calls back into.
//
// No workflow functions are registered yet; the client exists so pipelines
// can announce progress and so the app is visible to Inngest.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/inngest/inngestgo"

	"github.com/tbourn/go-component-service/internal/apperr"
	"github.com/tbourn/go-component-service/internal/config"
	"github.com/tbourn/go-component-service/internal/correlation"
)

// ErrNoEventKey is wrapped into the configuration failure Send returns when
// no event key is set outside dev mode.
var ErrNoEventKey = errors.New("workflow: INNGEST_EVENT_KEY not configured")

// Event is a single Inngest event.
type Event struct {
	Name string
	Data map[string]any
	User map[string]any
	ID   string
	TS   int64 // unix milliseconds
}

// Client publishes events for one app through an inngestgo.Client.
type Client struct {
	sdk        inngestgo.Client
	appID      string
	eventKey   string
	signingKey string
	dev        bool

	now   func() time.Time
	newID func() string
}

type options struct {
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*options)

// WithHTTPClient replaces the default HTTP client (10s timeout). Its
// transport is wrapped so outgoing calls carry x-correlation-id.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		if hc != nil {
			o.httpClient = hc
		}
	}
}

// NewClient builds a client from configuration. INNGEST_BASE_URL, when set,
// replaces the event API base; otherwise the SDK targets the dev server in
// dev mode and Inngest Cloud elsewhere.
func NewClient(cfg config.Config, opts ...Option) (*Client, error) {
	o := options{httpClient: &http.Client{Timeout: 10 * time.Second}}
	for _, fn := range opts {
		fn(&o)
	}

	wc := cfg.Workflow
	hc := *o.httpClient
	hc.Transport = &correlationTransport{base: hc.Transport}

	dev := wc.Dev
	co := inngestgo.ClientOpts{
		AppID:      cfg.ComponentName,
		HTTPClient: &hc,
		Dev:        &dev,
	}
	if wc.EventKey != "" {
		co.EventKey = &wc.EventKey
	}
	if wc.SigningKey != "" {
		co.SigningKey = &wc.SigningKey
	}
	if base := strings.TrimRight(wc.BaseURL, "/"); base != "" {
		co.EventURL = &base
	}

	sdk, err := inngestgo.NewClient(co)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindConfiguration, "invalid workflow configuration", err)
	}
	return &Client{
		sdk:        sdk,
		appID:      cfg.ComponentName,
		eventKey:   wc.EventKey,
		signingKey: wc.SigningKey,
		dev:        wc.Dev,
		now:        time.Now,
		newID:      uuid.NewString,
	}, nil
}

// AppID returns the app id (COMPONENT_NAME).
func (c *Client) AppID() string { return c.appID }

// Dev reports whether the client targets the Inngest dev server.
func (c *Client) Dev() bool { return c.dev }

// Mode returns "dev" or "cloud".
func (c *Client) Mode() string {
	if c.dev {
		return "dev"
	}
	return "cloud"
}

// Send publishes events and returns the ids Inngest assigned (or, when the
// response carries none, the ids attached here).
//
// Each event gets a uuid id and a millisecond timestamp unless already set,
// and the correlation id from ctx is added to its data as "correlation_id".
// A missing event key outside dev mode is a configuration failure; SDK and
// transport errors are dependency failures.
func (c *Client) Send(ctx context.Context, events ...Event) ([]string, error) {
	if len(events) == 0 {
		return nil, nil
	}
	if c.eventKey == "" && !c.dev {
		return nil, apperr.Wrap(apperr.KindConfiguration, "INNGEST_EVENT_KEY not configured", ErrNoEventKey)
	}

	cid, hasCID := correlation.FromContext(ctx)
	ts := c.now().UnixMilli()
	ids := make([]string, len(events))
	batch := make([]any, len(events))
	for i, ev := range events {
		if strings.TrimSpace(ev.Name) == "" {
			return nil, apperr.Validation(fmt.Sprintf("event %d: name is required", i))
		}
		data := make(map[string]any, len(ev.Data)+1)
		for k, v := range ev.Data {
			data[k] = v
		}
		if _, set := data["correlation_id"]; hasCID && !set {
			data["correlation_id"] = cid
		}
		id := ev.ID
		if id == "" {
			id = c.newID()
		}
		if ev.TS == 0 {
			ev.TS = ts
		}
		ids[i] = id
		out := inngestgo.Event{
			ID:        &id,
			Name:      ev.Name,
			Data:      data,
			Timestamp: ev.TS,
		}
		if ev.User != nil {
			out.User = ev.User
		}
		batch[i] = out
	}

	got, err := c.sdk.SendMany(ctx, batch)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDependency, "workflow service rejected events", err)
	}
	if len(got) == len(ids) {
		return got, nil
	}
	return ids, nil
}

// correlationTransport stamps x-correlation-id on outgoing requests whose
// context carries one.
type correlationTransport struct {
	base http.RoundTripper
}

func (t *correlationTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	cid, ok := correlation.FromContext(req.Context())
	if !ok || req.Header.Get(correlation.Header) != "" {
		return base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set(correlation.Header, cid)
	return base.RoundTrip(r)
}
