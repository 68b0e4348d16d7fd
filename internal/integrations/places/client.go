// Package places looks up gyms near a location through a Places-compatible
// nearby search API. Results are cached per rounded location and radius.
package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultRadius = 1500 // meters
	MaxRadius     = 50000
	searchKeyword = "gym"
)

var (
	ErrNotConfigured   = errors.New("places: API key not configured")
	ErrInvalidLocation = errors.New("places: latitude must be within [-90, 90] and longitude within [-180, 180]")
)

// APIError is a failed nearby search, either an HTTP error or a non-OK status field.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("places: %d %s: %s", e.StatusCode, e.Status, e.Message)
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Place struct {
	PlaceID          string  `json:"place_id"`
	Name             string  `json:"name"`
	Vicinity         string  `json:"vicinity,omitempty"`
	Rating           float64 `json:"rating,omitempty"`
	UserRatingsTotal int     `json:"user_ratings_total,omitempty"`
	Geometry         struct {
		Location Location `json:"location"`
	} `json:"geometry"`
	OpeningHours *struct {
		OpenNow bool `json:"open_now"`
	} `json:"opening_hours,omitempty"`
}

type nearbyResponse struct {
	Results      []Place `json:"results"`
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message,omitempty"`
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      *freecache.Cache
	cacheTTL   time.Duration

	defaultRadius int
}

// NewClient creates a client with a cache of cacheSizeMB megabytes. A zero
// cacheTTL disables caching.
func NewClient(baseURL, apiKey string, timeout time.Duration, cacheSizeMB int, cacheTTL time.Duration) *Client {
	megabyte := 1024 * 1024
	if cacheSizeMB <= 0 {
		cacheSizeMB = 1
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		cache:      freecache.NewCache(cacheSizeMB * megabyte),
		cacheTTL:   cacheTTL,

		defaultRadius: DefaultRadius,
	}
}

// SetDefaultRadius changes the radius used when a search gives none.
func (c *Client) SetDefaultRadius(meters int) {
	if meters > 0 {
		c.defaultRadius = meters
	}
}

func (c *Client) IsAvailable() bool {
	return c.apiKey != ""
}

// validCoordinate rejects NaN and infinities along with out-of-range values.
func validCoordinate(v, limit float64) bool {
	return !math.IsNaN(v) && v >= -limit && v <= limit
}

// NearbyGyms searches for gyms within radius meters of lat/lng. A radius <= 0
// means the client's default radius.
func (c *Client) NearbyGyms(ctx context.Context, lat, lng float64, radius int) ([]Place, error) {
	if !c.IsAvailable() {
		return nil, ErrNotConfigured
	}
	if !validCoordinate(lat, 90) || !validCoordinate(lng, 180) {
		return nil, ErrInvalidLocation
	}
	if radius <= 0 {
		radius = c.defaultRadius
	}
	if radius > MaxRadius {
		radius = MaxRadius
	}

	// ~11m precision; nearby requests from the same spot share a cache entry.
	cacheKey := fmt.Sprintf("gyms::%.4f,%.4f::%d", lat, lng, radius)
	if cached, err := c.cache.Get([]byte(cacheKey)); err == nil {
		var places []Place
		if err = json.Unmarshal(cached, &places); err == nil {
			log.Tracef("places: cache hit for %s", cacheKey)
			return places, nil
		}
		log.Errorf("places: unmarshal cached entry %s: %s", cacheKey, err)
	}

	places, err := c.fetch(ctx, lat, lng, radius)
	if err != nil {
		return nil, err
	}

	if c.cacheTTL > 0 {
		if data, err := json.Marshal(places); err == nil {
			if err = c.cache.Set([]byte(cacheKey), data, int(c.cacheTTL.Seconds())); err != nil {
				log.Warnf("places: cache set %s: %s", cacheKey, err)
			}
		}
	}
	return places, nil
}

func (c *Client) fetch(ctx context.Context, lat, lng float64, radius int) ([]Place, error) {
	q := url.Values{}
	q.Set("keyword", searchKeyword)
	q.Set("name", searchKeyword)
	q.Set("location", strconv.FormatFloat(lat, 'f', -1, 64)+","+strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("radius", strconv.Itoa(radius))
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/maps/api/place/nearbysearch/json?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("places: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places: request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, fmt.Errorf("places: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode), Message: strings.TrimSpace(string(body))}
	}

	var nr nearbyResponse
	if err := json.Unmarshal(body, &nr); err != nil {
		return nil, fmt.Errorf("places: decode response: %w", err)
	}
	switch nr.Status {
	case "OK", "ZERO_RESULTS", "":
	default:
		return nil, &APIError{StatusCode: resp.StatusCode, Status: nr.Status, Message: nr.ErrorMessage}
	}

	if nr.Results == nil {
		nr.Results = []Place{}
	}
	return nr.Results, nil
}
