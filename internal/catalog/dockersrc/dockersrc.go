// Package dockersrc discovers catalog entries from a container engine.
//
// Every Entries call lists the engine's images over its HTTP API and
// offers one entry per tag matching the configured pattern. A secondary
// best-effort probe of a local GPU endpoint enriches each entry's bundle
// with device and volume parameters; the probe failing, timing out, or
// being absent degrades the entries to no GPU enrichment rather than
// failing the listing.
package dockersrc

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/conn-castle/spawn-layer/internal/catalog"
	"github.com/conn-castle/spawn-layer/internal/messages"
	"github.com/conn-castle/spawn-layer/internal/spawner"
)

// Defaults applied by New.
const (
	DefaultHost       = "unix:///var/run/docker.sock"
	DefaultTagPattern = `^.*jupyterhub$`
	DefaultEnrichURL  = "http://localhost:3476/v1.0/docker/cli/json"
	DefaultSpawnerID  = "docker"
)

// enrichTimeout bounds the best-effort GPU probe so a dead endpoint
// cannot stall catalog listing.
const enrichTimeout = 2 * time.Second

// Config configures a Source. Zero fields take the package defaults.
type Config struct {
	// Host is the engine endpoint: a unix:// socket path or an http(s)
	// base URL.
	Host string

	// TagPattern selects which image tags become entries.
	TagPattern string

	// EnrichURL is the GPU parameter endpoint. Empty disables the probe.
	EnrichURL string

	// SpawnerID is the implementation entries resolve to.
	SpawnerID string

	// Extra is merged into every entry's bundle.
	Extra spawner.Config
}

// Source lists engine images as catalog entries.
type Source struct {
	baseURL   string
	tagRe     *regexp.Regexp
	enrichURL string
	spawnerID string
	extra     spawner.Config

	client       *http.Client
	enrichClient *http.Client
}

// image is the subset of the engine's image listing the source reads.
type image struct {
	RepoTags []string `json:"RepoTags"`
}

// gpuArgs is the GPU endpoint's response shape.
type gpuArgs struct {
	Volumes      []string `json:"Volumes"`
	VolumeDriver string   `json:"VolumeDriver"`
	Devices      []string `json:"Devices"`
}

// New returns a source listing images from cfg.Host.
func New(cfg Config) (*Source, error) {
	host := cfg.Host
	if host == "" {
		host = DefaultHost
	}
	pattern := cfg.TagPattern
	if pattern == "" {
		pattern = DefaultTagPattern
	}
	tagRe, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	spawnerID := cfg.SpawnerID
	if spawnerID == "" {
		spawnerID = DefaultSpawnerID
	}

	s := &Source{
		tagRe:        tagRe,
		enrichURL:    cfg.EnrichURL,
		spawnerID:    spawnerID,
		extra:        cfg.Extra,
		enrichClient: &http.Client{Timeout: enrichTimeout},
	}
	if socket, ok := strings.CutPrefix(host, "unix://"); ok {
		// The engine ignores the URL host when dialing a socket; any
		// placeholder works.
		s.baseURL = "http://docker"
		s.client = &http.Client{
			Transport: &http.Transport{
				DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
					var d net.Dialer
					return d.DialContext(ctx, "unix", socket)
				},
			},
		}
	} else {
		s.baseURL = strings.TrimRight(host, "/")
		s.client = &http.Client{}
	}
	return s, nil
}

func (s *Source) Name() string {
	return "docker"
}

// Entries lists matching image tags. Engine failures are returned so the
// catalog layer can degrade them to a warning.
func (s *Source) Entries(ctx context.Context) ([]catalog.Entry, error) {
	tags, err := s.listTags(ctx)
	if err != nil {
		return nil, err
	}
	gpu := s.probeGPU(ctx)

	var entries []catalog.Entry
	for _, tag := range tags {
		entries = append(entries, s.entry(tag, gpu))
	}
	return entries, nil
}

// listTags fetches the engine's images and filters their tags.
func (s *Source) listTags(ctx context.Context) ([]string, error) {
	url := s.baseURL + "/images/json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf(messages.DockersrcListImagesFmt, url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(messages.DockersrcBadStatusFmt, url, resp.Status)
	}

	var images []image
	if err := json.NewDecoder(resp.Body).Decode(&images); err != nil {
		return nil, fmt.Errorf(messages.DockersrcDecodeImagesFmt, url, err)
	}
	var tags []string
	for _, img := range images {
		for _, tag := range img.RepoTags {
			if s.tagRe.MatchString(tag) {
				tags = append(tags, tag)
			}
		}
	}
	return tags, nil
}

// probeGPU queries the GPU endpoint. Any failure yields nil: the probe
// is advisory and its absence only downgrades the offered entries.
func (s *Source) probeGPU(ctx context.Context) *gpuArgs {
	if s.enrichURL == "" {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.enrichURL, nil)
	if err != nil {
		return nil
	}
	resp, err := s.enrichClient.Do(req)
	if err != nil {
		return nil
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil
	}
	var args gpuArgs
	if err := json.NewDecoder(resp.Body).Decode(&args); err != nil {
		return nil
	}
	return &args
}

// entry builds the catalog entry for one image tag.
func (s *Source) entry(tag string, gpu *gpuArgs) catalog.Entry {
	cfg := spawner.Config{"image": tag}
	for k, v := range s.extra {
		cfg[k] = v
	}
	display := fmt.Sprintf(messages.DockersrcDisplayNoGPU, tag)
	if gpu != nil {
		display = fmt.Sprintf(messages.DockersrcDisplayGPU, tag)
		volumes := map[string]string{}
		for _, vol := range gpu.Volumes {
			if src, dst, ok := strings.Cut(vol, ":"); ok {
				volumes[src] = dst
			}
		}
		cfg["read_only_volumes"] = volumes
		cfg["volume_driver"] = gpu.VolumeDriver
		cfg["devices"] = gpu.Devices
	}
	return catalog.Entry{
		Display:   display,
		Key:       messages.DockersrcKeyPrefix + tag,
		SpawnerID: s.spawnerID,
		Config:    cfg,
	}
}
