package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/avast/retry-go/v3"

	"weeklydinner/internal/domain"
)

// DefaultBaseURL is the public Nominatim search endpoint.
const DefaultBaseURL = "https://nominatim.openstreetmap.org/search"

// Config configures the Nominatim client. Zero values fall back to defaults.
type Config struct {
	BaseURL   string
	UserAgent string
	Attempts  uint
	Delay     time.Duration
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type nominatimClient struct {
	client *http.Client
	cfg    Config
	logger *slog.Logger
}

// NewNominatimClient returns a Geocoder backed by the Nominatim search API.
// Server errors and rate limiting are retried; other failures are returned at once.
func NewNominatimClient(client *http.Client, cfg Config, logger *slog.Logger) domain.Geocoder {
	if client == nil {
		client = http.DefaultClient
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "weeklydinner-geocoder/1.0"
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = 3
	}
	if cfg.Delay == 0 {
		cfg.Delay = time.Second
	}
	return &nominatimClient{client: client, cfg: cfg, logger: logger}
}

func (c *nominatimClient) Geocode(ctx context.Context, query string) (*domain.Location, error) {
	var places []nominatimPlace
	err := retry.Do(
		func() error {
			var err error
			places, err = c.search(ctx, query)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(c.cfg.Attempts),
		retry.Delay(c.cfg.Delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.WarnContext(ctx, "geocode request failed, retrying", "query", query, "attempt", n+1, "err", err)
		}),
	)
	if err != nil {
		return nil, err
	}
	if len(places) == 0 {
		return nil, fmt.Errorf("%w: no geocoding result for %q", domain.ErrNotFound, query)
	}

	first := places[0]
	lat, err := strconv.ParseFloat(first.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", first.Lat, err)
	}
	lng, err := strconv.ParseFloat(first.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", first.Lon, err)
	}
	return &domain.Location{Name: query, Lat: lat, Lng: lng}, nil
}

func (c *nominatimClient) search(ctx context.Context, query string) ([]nominatimPlace, error) {
	u := c.cfg.BaseURL + "?format=json&q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, retry.Unrecoverable(err)
		}
		return nil, fmt.Errorf("failed to fetch from nominatim: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("nominatim returned status: %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, retry.Unrecoverable(fmt.Errorf("nominatim returned status: %d", resp.StatusCode))
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("failed to decode nominatim response: %w", err))
	}
	return places, nil
}
