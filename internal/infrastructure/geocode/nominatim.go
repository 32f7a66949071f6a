package geocode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/Syed-Ali-7/civicfix-backend/internal/api/metrics"
	"github.com/Syed-Ali-7/civicfix-backend/internal/core/domain"
)

const (
	defaultBaseURL     = "https://nominatim.openstreetmap.org"
	defaultUserAgent   = "CivicFixApp/1.0"
	defaultZoom        = 18
	defaultTimeout     = 5 * time.Second
	defaultMinInterval = time.Second
)

// Config captures the settings for the Nominatim reverse-geocoding client.
type Config struct {
	BaseURL   string
	UserAgent string
	Zoom      int
	// Timeout bounds a single lookup end-to-end, including the time spent
	// waiting for a pacer slot.
	Timeout time.Duration
	// MinInterval is the enforced global spacing between outgoing requests.
	MinInterval time.Duration
}

// Client resolves coordinates through the Nominatim reverse endpoint. It
// cooperates with the service's informal 1-request/second limit through a
// shared Pacer, and degrades every internal failure to a sentinel string.
type Client struct {
	baseURL    string
	userAgent  string
	zoom       int
	timeout    time.Duration
	httpClient *http.Client
	pacer      *Pacer
	log        zerolog.Logger
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Zoom <= 0 {
		cfg.Zoom = defaultZoom
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = defaultMinInterval
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		zoom:       cfg.Zoom,
		timeout:    cfg.Timeout,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		pacer:      NewPacer(cfg.MinInterval),
		log:        log,
	}
}

// reverseResponse is the subset of the Nominatim reverse payload we read.
type reverseResponse struct {
	Error       string   `json:"error"`
	DisplayName string   `json:"display_name"`
	Address     *address `json:"address"`
}

// ReverseGeocode resolves point to a best-effort postal address. It never
// fails: a caller that cannot be served within the timeout gets
// AddressPending and the submission proceeds without an address.
func (c *Client) ReverseGeocode(ctx context.Context, point domain.Point) string {
	if !point.Valid() {
		return AddressUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	if err := c.pacer.Wait(ctx); err != nil {
		c.log.Debug().Err(err).Msg("geocode request gave up waiting for rate-limit slot")
		metrics.GeocodeLookupsTotal.WithLabelValues("pending").Inc()
		return AddressPending
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("lat", strconv.FormatFloat(point.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(point.Lng, 'f', -1, 64))
	params.Set("zoom", strconv.Itoa(c.zoom))
	params.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+params.Encode(), nil)
	if err != nil {
		metrics.GeocodeLookupsTotal.WithLabelValues("pending").Inc()
		return AddressPending
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "en")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Msg("geocode request failed")
		metrics.GeocodeLookupsTotal.WithLabelValues("pending").Inc()
		return AddressPending
	}
	defer resp.Body.Close()

	metrics.GeocodeRequestDuration.Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		c.log.Warn().Int("status", resp.StatusCode).Msg("geocode service returned non-200")
		metrics.GeocodeLookupsTotal.WithLabelValues("pending").Inc()
		return AddressPending
	}

	var payload reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.log.Warn().Err(err).Msg("failed to parse geocode response")
		metrics.GeocodeLookupsTotal.WithLabelValues("pending").Inc()
		return AddressPending
	}
	if payload.Error != "" {
		c.log.Warn().Str("error", payload.Error).Msg("geocode service returned error")
		metrics.GeocodeLookupsTotal.WithLabelValues("pending").Inc()
		return AddressPending
	}
	if payload.Address == nil {
		metrics.GeocodeLookupsTotal.WithLabelValues("no_details").Inc()
		return NoDetails
	}

	metrics.GeocodeLookupsTotal.WithLabelValues("ok").Inc()
	return formatAddress(*payload.Address, payload.DisplayName)
}
