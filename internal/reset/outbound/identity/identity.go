package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/novapos/resetd/internal/pkg/goerror"
	"github.com/novapos/resetd/internal/pkg/instrument"
	"github.com/novapos/resetd/internal/reset/entity"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrBaseURLRequired is returned when the admin API base URL is missing.
var ErrBaseURLRequired = errors.New("identity provider base url is required")

// Config configures the admin API client.
type Config struct {
	// BaseURL is the admin API root, without trailing slash.
	BaseURL string
	// ServiceKey authenticates the elevated admin credential.
	ServiceKey string
	// Timeout bounds each HTTP call.
	Timeout time.Duration
	// FilteredLookup controls whether the provider supports server-side
	// filtering by email. When false the client falls back to a bounded
	// paginated scan.
	FilteredLookup bool
	// PageSize is the per-page size used by the scan fallback.
	PageSize int
	// MaxPages caps the scan fallback so a huge user directory cannot turn
	// one lookup into thousands of requests.
	MaxPages int
}

// Client resolves identities and updates credentials through an
// admin-scoped HTTP API.
type Client struct {
	baseURL        string
	serviceKey     string
	client         *http.Client
	ins            instrument.Instrumentation
	filteredLookup bool
	pageSize       int
	maxPages       int
}

type userDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type listUsersResponse struct {
	Users []userDTO `json:"users"`
}

// New constructs an identity provider client.
func New(cfg Config, ins instrument.Instrumentation) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrBaseURLRequired
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 10
	}

	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		serviceKey:     cfg.ServiceKey,
		client:         &http.Client{Timeout: cfg.Timeout},
		ins:            ins,
		filteredLookup: cfg.FilteredLookup,
		pageSize:       cfg.PageSize,
		maxPages:       cfg.MaxPages,
	}, nil
}

func (c *Client) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return c.ins.Tracer("reset.outbound.identity").Start(ctx, name)
}

func (c *Client) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (c *Client) listUsers(ctx context.Context, query url.Values) ([]userDTO, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/admin/users?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity list users: unexpected status %d", resp.StatusCode)
	}

	var body listUsersResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	return body.Users, nil
}

func matchEmail(users []userDTO, email string) (*entity.Identity, bool) {
	u, found := lo.Find(users, func(u userDTO) bool {
		return strings.EqualFold(u.Email, email)
	})
	if !found {
		return nil, false
	}
	return &entity.Identity{ID: u.ID, Email: u.Email}, true
}

// FindByEmail resolves the identity registered under email, matching
// case-insensitively. Returns goerror.ErrNotFound when no account matches.
func (c *Client) FindByEmail(ctx context.Context, email string) (_ *entity.Identity, err error) {
	ctx, span := c.startSpan(ctx, "FindByEmail")
	defer func() { c.endSpan(span, err) }()

	if c.filteredLookup {
		q := url.Values{}
		q.Set("email", email)

		users, err := c.listUsers(ctx, q)
		if err != nil {
			return nil, err
		}
		if ident, found := matchEmail(users, email); found {
			return ident, nil
		}
		return nil, goerror.ErrNotFound
	}

	for page := 1; page <= c.maxPages; page++ {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		q.Set("per_page", strconv.Itoa(c.pageSize))

		users, err := c.listUsers(ctx, q)
		if err != nil {
			return nil, err
		}
		if ident, found := matchEmail(users, email); found {
			return ident, nil
		}
		if len(users) < c.pageSize {
			break
		}
	}

	return nil, goerror.ErrNotFound
}

// UpdatePassword sets a new credential for the identity with the given id.
func (c *Client) UpdatePassword(ctx context.Context, id, newPassword string) (err error) {
	ctx, span := c.startSpan(ctx, "UpdatePassword")
	defer func() { c.endSpan(span, err) }()

	payload, err := json.Marshal(map[string]string{"password": newPassword})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		c.baseURL+"/admin/users/"+url.PathEscape(id), bytes.NewReader(payload))
	if err != nil {
		return err
	}

	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("identity update password: unexpected status %d", resp.StatusCode)
	}
	return nil
}
