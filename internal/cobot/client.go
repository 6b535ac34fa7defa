package cobot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultAPIBase is the production API endpoint.
const DefaultAPIBase = "https://api.cobot.me"

// Client talks to the booking API for a single space using a static
// bearer token. It is safe for concurrent use.
type Client struct {
	apiBase    string
	spaceID    string
	token      string
	httpClient *http.Client
}

// NewClient creates a Client. apiBase falls back to DefaultAPIBase when
// empty. timeout bounds each request; zero means no timeout.
func NewClient(apiBase, spaceID, token string, timeout time.Duration) *Client {
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	return &Client{
		apiBase:    apiBase,
		spaceID:    spaceID,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchBookings returns the space's bookings between from and to. When
// resourceID is non-empty, the result is filtered to that resource.
// Records are returned verbatim, in the order the API sent them.
func (c *Client) FetchBookings(ctx context.Context, from, to time.Time, resourceID string) ([]Booking, error) {
	params := url.Values{}
	params.Set("filter[from]", from.Format(time.RFC3339))
	params.Set("filter[to]", to.Format(time.RFC3339))

	endpoint := fmt.Sprintf("%s/spaces/%s/bookings?%s", c.apiBase, c.spaceID, params.Encode())

	var payload struct {
		Data []Booking `json:"data"`
	}
	if err := c.get(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("fetching bookings: %w", err)
	}

	if resourceID == "" {
		return payload.Data, nil
	}

	var filtered []Booking
	for _, b := range payload.Data {
		if BookingResource(b) == resourceID {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}

// FetchResources returns the space's bookable resources.
func (c *Client) FetchResources(ctx context.Context) ([]Resource, error) {
	endpoint := fmt.Sprintf("%s/spaces/%s/resources", c.apiBase, c.spaceID)

	var payload struct {
		Data []struct {
			ID         string `json:"id"`
			Attributes struct {
				Name     string `json:"name"`
				Capacity int    `json:"capacity"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := c.get(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("fetching resources: %w", err)
	}

	resources := make([]Resource, len(payload.Data))
	for i, d := range payload.Data {
		resources[i] = Resource{
			ID:       d.ID,
			Name:     d.Attributes.Name,
			Capacity: d.Attributes.Capacity,
		}
	}
	return resources, nil
}

// get performs an authenticated GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.api+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
