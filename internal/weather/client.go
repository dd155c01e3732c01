// Package weather fetches current conditions from OpenWeatherMap for the
// landing page widget.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrFetch covers every way a lookup can fail; the widget shows one message.
var ErrFetch = errors.New("failed to fetch weather data")

type Report struct {
	City        string  `json:"city"`
	Country     string  `json:"country"`
	TempC       float64 `json:"temp_c"`
	Humidity    int     `json:"humidity"`
	Description string  `json:"description"`
}

// RoundedTemp rounds half up, as the widget displays it.
func (r Report) RoundedTemp() int {
	return int(math.Floor(r.TempC + 0.5))
}

type apiResponse struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// Current looks up the weather in city, in metric units.
func (c *Client) Current(ctx context.Context, city string) (*Report, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("units", "metric")
	q.Set("appid", c.apiKey)
	endpoint := c.baseURL + "/data/2.5/weather?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d for %q", ErrFetch, resp.StatusCode, city)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %w", ErrFetch, err)
	}

	r := &Report{
		City:     body.Name,
		Country:  body.Sys.Country,
		TempC:    body.Main.Temp,
		Humidity: body.Main.Humidity,
	}
	if len(body.Weather) > 0 {
		r.Description = body.Weather[0].Description
	}
	return r, nil
}
