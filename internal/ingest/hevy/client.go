package hevy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/2beens/fitsync/internal/telemetry/tracing"
	"github.com/2beens/fitsync/internal/workout"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

const (
	ToolGetWorkouts = "get-workouts"

	// MaxPageSize is the largest page the Hevy MCP server hands out.
	MaxPageSize     = 10
	DefaultMaxPages = 100

	apiKeyEnv    = "HEVY_API_KEY"
	apiKeyHeader = "api-key"
)

var ErrNoTransport = errors.New("hevy mcp: neither command nor endpoint configured")

type Config struct {
	// Command and Args start the MCP server as a subprocess speaking stdio.
	Command string
	Args    []string
	Dir     string
	// Endpoint, when set, is used instead of the subprocess (streamable HTTP).
	Endpoint string
	APIKey   string

	PageSize int
	MaxPages int
	Timeout  time.Duration
}

// FetchResult holds the normalized workouts of one fetch.
type FetchResult struct {
	Workouts []workout.RawWorkout
	Pages    int
	// Skipped counts records dropped by normalization (not an object, no id).
	Skipped   int
	Truncated bool
}

type Client struct {
	newTransport func() (mcp.Transport, error)
	pageSize     int
	maxPages     int
	timeout      time.Duration
}

func NewClient(cfg Config) *Client {
	c := newClient(cfg.PageSize, cfg.MaxPages, cfg.Timeout)
	c.newTransport = func() (mcp.Transport, error) {
		return transportFromConfig(cfg)
	}
	return c
}

// NewClientWithTransport connects through the given transport factory, used with
// in-memory transports and custom deployments.
func NewClientWithTransport(newTransport func() (mcp.Transport, error), pageSize, maxPages int) *Client {
	c := newClient(pageSize, maxPages, 0)
	c.newTransport = newTransport
	return c
}

func newClient(pageSize, maxPages int, timeout time.Duration) *Client {
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Client{
		pageSize: pageSize,
		maxPages: maxPages,
		timeout:  timeout,
	}
}

func transportFromConfig(cfg Config) (mcp.Transport, error) {
	if cfg.Endpoint != "" {
		return &mcp.StreamableClientTransport{
			Endpoint: cfg.Endpoint,
			HTTPClient: &http.Client{
				Transport: &apiKeyTransport{
					apiKey: cfg.APIKey,
					next:   otelhttp.NewTransport(http.DefaultTransport),
				},
			},
		}, nil
	}

	if cfg.Command == "" {
		return nil, ErrNoTransport
	}
	cmd := exec.Command(cfg.Command, cfg.Args...)
	cmd.Dir = cfg.Dir
	cmd.Env = append(os.Environ(), apiKeyEnv+"="+cfg.APIKey)
	return &mcp.CommandTransport{Command: cmd}, nil
}

type apiKeyTransport struct {
	apiKey string
	next   http.RoundTripper
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.apiKey == "" {
		return t.next.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set(apiKeyHeader, t.apiKey)
	return t.next.RoundTrip(r)
}

// FetchWorkouts pages through get-workouts from page 1 until an empty or short page,
// the reported page count, or the MaxPages ceiling. Pages are fetched one at a time.
// Any transport failure discards what was fetched so far.
func (c *Client) FetchWorkouts(ctx context.Context) (_ *FetchResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "hevy.fetch_workouts")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	transport, err := c.newTransport()
	if err != nil {
		return nil, workout.NewTransportError("create transport", err)
	}

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "fitsync",
		Version: "1.0.0",
	}, nil)
	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, workout.NewTransportError("connect", err)
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			log.Debugf("hevy mcp: close session: %s", closeErr)
		}
	}()

	result := &FetchResult{}
	for pageNum := 1; ; pageNum++ {
		if pageNum > c.maxPages {
			result.Truncated = true
			log.Warnf("hevy mcp: stopped after %d pages, more may be available", c.maxPages)
			break
		}

		p, err := c.fetchPage(ctx, session, pageNum)
		if err != nil {
			return nil, err
		}
		result.Pages++

		raws, normErr := normalizeWorkouts(p.workouts)
		if normErr != nil {
			skipped := len(p.workouts) - len(raws)
			result.Skipped += skipped
			log.Warnf("hevy mcp: page %d: skipped %d records: %s", pageNum, skipped, normErr)
		}
		result.Workouts = append(result.Workouts, raws...)

		if len(p.workouts) < c.pageSize {
			break
		}
		if p.pageCount > 0 && pageNum >= p.pageCount {
			break
		}
	}

	span.SetAttributes(
		attribute.Int("pages", result.Pages),
		attribute.Int("workouts", len(result.Workouts)),
		attribute.Int("skipped", result.Skipped),
	)
	log.Debugf("hevy mcp: fetched %d workouts in %d pages", len(result.Workouts), result.Pages)

	return result, nil
}

func (c *Client) fetchPage(ctx context.Context, session *mcp.ClientSession, pageNum int) (*page, error) {
	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: ToolGetWorkouts,
		Arguments: map[string]any{
			"page":     pageNum,
			"pageSize": c.pageSize,
		},
	})
	if err != nil {
		return nil, workout.NewTransportError(fmt.Sprintf("call %s page %d", ToolGetWorkouts, pageNum), err)
	}

	body := resultText(res)
	if res.IsError {
		return nil, workout.NewTransportError(
			fmt.Sprintf("call %s page %d", ToolGetWorkouts, pageNum),
			fmt.Errorf("tool error: %s", body),
		)
	}

	p, err := decodePage(body)
	if err != nil {
		return nil, workout.NewTransportError(fmt.Sprintf("decode %s page %d", ToolGetWorkouts, pageNum), err)
	}
	return p, nil
}

func resultText(res *mcp.CallToolResult) string {
	var b strings.Builder
	for _, content := range res.Content {
		if tc, ok := content.(*mcp.TextContent); ok {
			b.WriteString(tc.Text)
		}
	}
	return b.String()
}
