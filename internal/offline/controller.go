package offline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// Phase is the controller lifecycle: Installing while the manifest is being
// primed, Updating once installed but before this version has claimed the
// cache, Active afterwards.
type Phase string

const (
	PhaseInstalling Phase = "installing"
	PhaseUpdating   Phase = "updating"
	PhaseActive     Phase = "active"
)

// Source says where a fetch is served from.
type Source string

const (
	SourceCache   Source = "cache"
	SourceNetwork Source = "network"
)

// ActionSkipWaiting asks a waiting controller to activate immediately instead
// of sitting out the normal update lifecycle.
const ActionSkipWaiting = "skipWaiting"

var ErrUnknownAction = errors.New("unknown control message action")

// Request describes one intercepted resource request. Destination is
// "document" for top-level navigations, matching how fallback policy keys off
// the request kind.
type Request struct {
	URL         string `json:"url"`
	Destination string `json:"destination,omitempty"`
}

// Decision is the cache policy for one request, computable without touching
// the network.
type Decision struct {
	Source    Source `json:"source"`
	WriteBack bool   `json:"write_back"`
}

// Message is the lifecycle control message.
type Message struct {
	Action string `json:"action"`
}

type Status struct {
	Phase        Phase  `json:"phase"`
	Version      string `json:"version"`
	CachedAssets int    `json:"cached_assets"`
}

// Decide is the pure fetch policy: cached requests are served from cache with
// no network call; everything else goes to the network, and only same-origin
// responses are written back.
func Decide(req Request, cached bool, appOrigin string) Decision {
	if cached {
		return Decision{Source: SourceCache}
	}
	return Decision{Source: SourceNetwork, WriteBack: sameOrigin(req.URL, appOrigin)}
}

func sameOrigin(rawURL, appOrigin string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	o, err := url.Parse(appOrigin)
	if err != nil {
		return false
	}
	return u.Scheme == o.Scheme && u.Host == o.Host
}

// Controller owns one versioned asset cache and the fetch policy over it.
type Controller struct {
	version   string
	manifest  []string
	store     AssetStore
	client    *http.Client
	appOrigin string
	rootDoc   string

	mu    sync.Mutex
	phase Phase
}

// NewController wires the cache-first policy over the given store. The first
// manifest entry is the root document used as the offline fallback for
// top-level navigations.
func NewController(version string, manifest []string, store AssetStore, client *http.Client, appOrigin string) *Controller {
	if client == nil {
		client = http.DefaultClient
	}
	root := appOrigin + "/"
	if len(manifest) > 0 {
		root = manifest[0]
	}
	return &Controller{
		version:   version,
		manifest:  manifest,
		store:     store,
		client:    client,
		appOrigin: appOrigin,
		rootDoc:   root,
		phase:     PhaseInstalling,
	}
}

func (c *Controller) Version() string { return c.version }

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Install primes the cache with every manifest asset. Fetches run
// concurrently and Install waits for all of them; a failed asset is logged
// and skipped rather than failing the install, so a flaky CDN cannot hold the
// whole version hostage. Missing assets heal later through fetch write-back.
func (c *Controller) Install(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, asset := range c.manifest {
		wg.Add(1)
		go func(asset string) {
			defer wg.Done()
			if err := c.fetchAndStore(ctx, asset); err != nil {
				log.Printf("Install: failed to cache %s: %v", asset, err)
			}
		}(asset)
	}
	wg.Wait()

	c.mu.Lock()
	if c.phase == PhaseInstalling {
		c.phase = PhaseUpdating
	}
	c.mu.Unlock()
	return nil
}

func (c *Controller) fetchAndStore(ctx context.Context, asset string) error {
	resp, err := c.fetchNetwork(ctx, asset)
	if err != nil {
		return err
	}
	if resp.Status < 200 || resp.Status >= 300 {
		return fmt.Errorf("unexpected status %d", resp.Status)
	}
	return c.store.Put(ctx, c.version, *resp)
}

// Activate deletes every cache version other than the current one and claims
// control immediately. It waits for all evictions before reporting the phase
// complete.
func (c *Controller) Activate(ctx context.Context) error {
	versions, err := c.store.Versions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list cache versions: %w", err)
	}
	for _, v := range versions {
		if v == c.version {
			continue
		}
		if err := c.store.DeleteVersion(ctx, v); err != nil {
			return fmt.Errorf("failed to evict cache %s: %w", v, err)
		}
		log.Printf("Evicted stale cache version %s", v)
	}

	c.mu.Lock()
	c.phase = PhaseActive
	c.mu.Unlock()
	return nil
}

// HandleMessage processes the lifecycle control message. skipWaiting
// activates a waiting update right away.
func (c *Controller) HandleMessage(ctx context.Context, msg Message) error {
	if msg.Action != ActionSkipWaiting {
		return ErrUnknownAction
	}
	return c.Activate(ctx)
}

// Fetch applies the cache-first policy: a cache hit never touches the
// network; misses fall through to the network, with successful same-origin
// responses written back fire-and-forget. If the network itself fails, a
// top-level document request falls back to the cached root document and any
// other failure propagates.
func (c *Controller) Fetch(ctx context.Context, req Request) (*CachedResponse, error) {
	cached, hit, err := c.store.Match(ctx, c.version, req.URL)
	if err != nil {
		return nil, err
	}
	if hit {
		return cached, nil
	}

	resp, err := c.fetchNetwork(ctx, req.URL)
	if err != nil {
		if req.Destination == "document" {
			if root, ok, matchErr := c.store.Match(ctx, c.version, c.rootDoc); matchErr == nil && ok {
				return root, nil
			}
		}
		return nil, err
	}

	if resp.Status < 200 || resp.Status >= 300 {
		return resp, nil
	}

	if Decide(req, false, c.appOrigin).WriteBack {
		go func(stored CachedResponse) {
			// The response is already on its way back; a write failure
			// only costs the next request a network trip.
			if err := c.store.Put(context.Background(), c.version, stored); err != nil {
				log.Printf("Cache write-back failed for %s: %v", stored.URL, err)
			}
		}(*resp)
	}
	return resp, nil
}

func (c *Controller) fetchNetwork(ctx context.Context, rawURL string) (*CachedResponse, error) {
	target := rawURL
	if strings.HasPrefix(rawURL, "/") {
		target = c.appOrigin + rawURL
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}
	return &CachedResponse{
		URL:         rawURL,
		Status:      httpResp.StatusCode,
		ContentType: httpResp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// Status reports the lifecycle phase and how much of the manifest is cached.
func (c *Controller) StatusReport(ctx context.Context) (Status, error) {
	count, err := c.store.Count(ctx, c.version)
	if err != nil {
		return Status{}, err
	}
	return Status{Phase: c.Phase(), Version: c.version, CachedAssets: count}, nil
}
