package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-task-sync/internal/config"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/utils"
	"github.com/MKhiriev/go-task-sync/models"
)

const defaultRetryWait = 200 * time.Millisecond

type httpServerAdapter struct {
	client *utils.HTTPClient

	// hasher signs request bodies; nil when no hash key is configured.
	hasher *utils.Hasher

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of [ServerAdapter].
// It normalises and validates the base URL from adapterCfg.HTTPAddress and
// configures the underlying HTTP client with the resolved base URL, request
// timeout and retry count. When appCfg.HashKey is set every request body is
// signed with the HashSHA256 header.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := utils.NewHTTPClient().WithRetries(adapterCfg.RetryCount, defaultRetryWait)
	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	a := &httpServerAdapter{client: client, logger: logger}
	if appCfg.HashKey != "" {
		a.hasher = utils.NewHasher(appCfg.HashKey)
	}

	return a, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [ServerAdapter]. It stores token (whitespace-trimmed) for
// use in the Authorization header of all subsequent authenticated requests.
func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [ServerAdapter].
func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Health implements [ServerAdapter]. GET /api/health.
func (h *httpServerAdapter) Health(ctx context.Context) (models.HealthResponse, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		Get("/api/health")
	if err != nil {
		return models.HealthResponse{}, fmt.Errorf("health request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.HealthResponse{}, err
	}

	var health models.HealthResponse
	if err = decodeBody(resp, &health); err != nil {
		return models.HealthResponse{}, err
	}
	return health, nil
}

// Register implements [ServerAdapter]. It POSTs the credentials to
// /api/user/register and stores the token from the Authorization response
// header.
func (h *httpServerAdapter) Register(ctx context.Context, user models.User) (models.User, error) {
	return h.authenticate(ctx, "/api/user/register", user)
}

// Login implements [ServerAdapter]. It POSTs the credentials to
// /api/user/login and stores the token from the Authorization response
// header.
func (h *httpServerAdapter) Login(ctx context.Context, user models.User) (models.User, error) {
	return h.authenticate(ctx, "/api/user/login", user)
}

func (h *httpServerAdapter) authenticate(ctx context.Context, path string, user models.User) (models.User, error) {
	req, err := h.signedRequest(ctx, user)
	if err != nil {
		return models.User{}, err
	}

	resp, err := req.Post(path)
	if err != nil {
		return models.User{}, fmt.Errorf("auth request %s: %w", path, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return models.User{}, fmt.Errorf("parse bearer token: %w", err)
	}
	h.SetToken(token)

	return models.User{Login: user.Login}, nil
}

// Pull implements [ServerAdapter]. POST /api/sync/pull.
func (h *httpServerAdapter) Pull(ctx context.Context, since *time.Time) (models.PullResponse, error) {
	req, err := h.signedRequest(ctx, models.PullRequest{Since: since})
	if err != nil {
		return models.PullResponse{}, err
	}

	resp, err := h.withAuth(req).Post("/api/sync/pull")
	if err != nil {
		return models.PullResponse{}, fmt.Errorf("pull request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PullResponse{}, err
	}

	var pulled models.PullResponse
	if err = decodeBody(resp, &pulled); err != nil {
		return models.PullResponse{}, err
	}
	return pulled, nil
}

// Push implements [ServerAdapter]. POST /api/sync/push.
func (h *httpServerAdapter) Push(ctx context.Context, pushReq models.PushRequest) (models.PushResponse, error) {
	req, err := h.signedRequest(ctx, pushReq)
	if err != nil {
		return models.PushResponse{}, err
	}

	resp, err := h.withAuth(req).Post("/api/sync/push")
	if err != nil {
		return models.PushResponse{}, fmt.Errorf("push request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PushResponse{}, err
	}

	var pushed models.PushResponse
	if err = decodeBody(resp, &pushed); err != nil {
		return models.PushResponse{}, err
	}
	return pushed, nil
}

// Resolve implements [ServerAdapter]. POST /api/sync/resolve.
func (h *httpServerAdapter) Resolve(ctx context.Context, resolveReq models.ResolveRequest) error {
	req, err := h.signedRequest(ctx, resolveReq)
	if err != nil {
		return err
	}

	resp, err := h.withAuth(req).Post("/api/sync/resolve")
	if err != nil {
		return fmt.Errorf("resolve request: %w", err)
	}

	return mapHTTPError(resp)
}

// signedRequest encodes body as JSON and, with a hash key configured,
// attaches its HMAC in the HashSHA256 header.
func (h *httpServerAdapter) signedRequest(ctx context.Context, body any) (*resty.Request, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}

	req := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload)
	if h.hasher != nil {
		req.SetHeader(utils.HashHeader, h.hasher.HexSum(payload))
	}

	return req, nil
}

func (h *httpServerAdapter) withAuth(req *resty.Request) *resty.Request {
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

func decodeBody(resp *resty.Response, v any) error {
	if err := json.Unmarshal(resp.Body(), v); err != nil {
		return fmt.Errorf("decode %s response: %w", resp.Request.URL, err)
	}
	return nil
}
