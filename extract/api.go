package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/gradewatch/grades"
	"github.com/hazyhaar/gradewatch/portal"
)

// APIConfig identifies the grade data action among the portal's network
// traffic.
type APIConfig struct {
	// ActionSignature is the URL fragment of the data action call.
	ActionSignature string `yaml:"action_signature"`
	// ExcludeSignature filters out the filters-lookup call that shares the
	// action prefix but carries no grade rows.
	ExcludeSignature string `yaml:"exclude_signature"`
}

func (c *APIConfig) defaults() {
	if c.ActionSignature == "" {
		c.ActionSignature = "DataActionGetExamsAndTasks"
	}
	if c.ExcludeSignature == "" {
		c.ExcludeSignature = "Filters"
	}
}

// API is the primary strategy: it observes network responses during
// navigation and captures the JSON payload of the known data action.
type API struct {
	launcher *portal.Launcher
	flow     *portal.Flow
	cfg      APIConfig
	logger   *slog.Logger
}

// NewAPI creates the API-interception strategy.
func NewAPI(l *portal.Launcher, flow *portal.Flow, cfg APIConfig, logger *slog.Logger) *API {
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &API{launcher: l, flow: flow, cfg: cfg, logger: logger}
}

func (a *API) Name() string { return "api" }

// Attempt opens an isolated session, attaches the response observer before
// navigation, then lets the flow fight through login and interstitials
// while polling for a capture. Deadline expiry with no capture is a hard
// failure for this strategy only.
func (a *API) Attempt(ctx context.Context) ([]grades.RawRow, error) {
	sess, err := a.launcher.NewSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("extract: api: %w", err)
	}
	defer sess.Close()

	cap := attachCapture(ctx, sess.Page(), a.cfg, a.logger)
	defer cap.detach()

	err = a.flow.Drive(ctx, sess, "api_no_capture", func(context.Context) bool {
		return cap.captured()
	})
	if err != nil {
		return nil, fmt.Errorf("extract: api: %w", err)
	}

	rows, dropped := mapAPIRows(cap.items())
	if dropped > 0 {
		a.logger.Info("extract: api rows dropped without course", "dropped", dropped)
	}
	a.logger.Info("extract: api attempt done", "rows", len(rows))
	return rows, nil
}

// capture holds the most recent matching payload. Last write wins: the
// portal re-issues the data action whenever the user's filters change, and
// the final response reflects the visible state.
type capture struct {
	mu     sync.Mutex
	list   []apiItem
	got    bool
	cancel context.CancelFunc
}

func (c *capture) captured() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.got
}

func (c *capture) items() []apiItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list
}

func (c *capture) detach() {
	c.cancel()
}

// attachCapture subscribes to network responses on the page. Must be called
// before navigation so the first data action is not missed.
func attachCapture(ctx context.Context, page *rod.Page, cfg APIConfig, logger *slog.Logger) *capture {
	obsCtx, cancel := context.WithCancel(ctx)
	c := &capture{cancel: cancel}

	p := page.Context(obsCtx)
	wait := p.EachEvent(func(e *proto.NetworkResponseReceived) {
		u := e.Response.URL
		if !strings.Contains(u, cfg.ActionSignature) || strings.Contains(u, cfg.ExcludeSignature) {
			return
		}
		if e.Response.Status < 200 || e.Response.Status >= 300 {
			return
		}

		body, err := proto.NetworkGetResponseBody{RequestID: e.RequestID}.Call(p)
		if err != nil {
			logger.Debug("extract: response body unavailable", "url", u, "error", err)
			return
		}

		items, ok := decodePayload([]byte(body.Body))
		if !ok {
			logger.Debug("extract: payload shape mismatch", "url", u)
			return
		}

		c.mu.Lock()
		c.list, c.got = items, true
		c.mu.Unlock()
		logger.Info("extract: captured grade payload", "rows", len(items))
	})
	go wait()

	return c
}
