package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// HTTPConfig holds the connection settings for the workspace service.
type HTTPConfig struct {
	BaseURL  string
	Token    string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// HTTPProvider fetches workspaces from GET {BaseURL}/workspaces/{id}.
type HTTPProvider struct {
	cfg        HTTPConfig
	httpClient *http.Client

	cache      map[string]*cacheEntry
	cacheMutex sync.Mutex
	now        func() time.Time
}

type cacheEntry struct {
	Value      Context
	Expiration time.Time
}

func NewHTTPProvider(cfg HTTPConfig) *HTTPProvider {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &HTTPProvider{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cache: make(map[string]*cacheEntry),
		now:   time.Now,
	}
}

func (p *HTTPProvider) getFromCache(id string) (*Context, bool) {
	p.cacheMutex.Lock()
	defer p.cacheMutex.Unlock()

	entry, ok := p.cache[id]
	if !ok {
		return nil, false
	}
	if p.now().After(entry.Expiration) {
		delete(p.cache, id)
		return nil, false
	}
	log.Debug().Str("workspace", id).Msg("Workspace cache hit")

	// Hand out a copy so callers cannot mutate the cached snapshot.
	ws := entry.Value.Clone()
	return &ws, true
}

func (p *HTTPProvider) addToCache(ws *Context) {
	if p.cfg.CacheTTL <= 0 {
		return
	}
	p.cacheMutex.Lock()
	defer p.cacheMutex.Unlock()

	p.cache[ws.ID] = &cacheEntry{
		Value:      ws.Clone(),
		Expiration: p.now().Add(p.cfg.CacheTTL),
	}
}

func (p *HTTPProvider) Get(ctx context.Context, id string) (*Context, error) {
	if !ValidID(id) {
		return nil, fmt.Errorf("%w: invalid id %q", ErrNotFound, id)
	}
	if ws, ok := p.getFromCache(id); ok {
		return ws, nil
	}

	endpoint := fmt.Sprintf("%s/workspaces/%s", p.cfg.BaseURL, url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build workspace request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if p.cfg.Token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.cfg.Token))
	}

	log.Debug().Str("url", endpoint).Msg("Requesting workspace")
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case resp.StatusCode == http.StatusTooManyRequests:
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			return nil, fmt.Errorf("%w: rate limited (429), retry after %s seconds", ErrUnreachable, retryAfter)
		}
		return nil, fmt.Errorf("%w: rate limited (429)", ErrUnreachable)
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: workspace service returned %d, check WORKSPACE_TOKEN", ErrUnauthorized, resp.StatusCode)
	default:
		return nil, fmt.Errorf("%w: workspace service returned status %d", ErrUnreachable, resp.StatusCode)
	}

	var ws Context
	if err := json.NewDecoder(resp.Body).Decode(&ws); err != nil {
		return nil, fmt.Errorf("%w: failed to decode workspace response: %v", ErrUnreachable, err)
	}
	if ws.ID == "" {
		ws.ID = id
	}

	p.addToCache(&ws)
	return &ws, nil
}
