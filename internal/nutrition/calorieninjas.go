// ABOUTME: CalorieNinjas nutrition provider (primary source).
// ABOUTME: Sums calories and macros across every item matched by a free-text query.
package nutrition

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// DefaultCalorieNinjasURL is the public nutrition endpoint.
const DefaultCalorieNinjasURL = "https://api.calorieninjas.com/v1/nutrition"

// CalorieNinjas queries the CalorieNinjas nutrition API.
type CalorieNinjas struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

// NewCalorieNinjas creates a provider using the default endpoint.
func NewCalorieNinjas(apiKey string, client *http.Client) *CalorieNinjas {
	return &CalorieNinjas{APIKey: apiKey, BaseURL: DefaultCalorieNinjasURL, Client: client}
}

type calorieNinjasItem struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbohydrates_total_g"`
	FatG     float64 `json:"fat_total_g"`
}

type calorieNinjasResponse struct {
	Items []calorieNinjasItem `json:"items"`
}

// Name returns the provenance tag.
func (c *CalorieNinjas) Name() string { return SourceCalorieNinjas }

// Resolve looks up query and sums all matched items.
func (c *CalorieNinjas) Resolve(ctx context.Context, query string) (*Result, error) {
	if c.APIKey == "" {
		return nil, sourceErr(c.Name(), ErrNotConfigured, "")
	}

	u, err := url.Parse(c.baseURL())
	if err != nil {
		return nil, sourceErr(c.Name(), ErrNotConfigured, "base url: %v", err)
	}
	q := u.Query()
	q.Set("query", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, sourceErr(c.Name(), ErrTransport, "build request: %v", err)
	}
	req.Header.Set("X-Api-Key", c.APIKey)

	var body calorieNinjasResponse
	if err := getJSON(httpClient(c.Client), req, &body); err != nil {
		return nil, &SourceError{Source: c.Name(), Err: err}
	}
	if len(body.Items) == 0 {
		return nil, sourceErr(c.Name(), ErrNoMatch, "")
	}

	res := &Result{Source: c.Name()}
	for _, item := range body.Items {
		res.Calories += item.Calories
		res.ProteinG += item.ProteinG
		res.CarbsG += item.CarbsG
		res.FatG += item.FatG
	}
	return res, nil
}

func (c *CalorieNinjas) baseURL() string {
	if c.BaseURL == "" {
		return DefaultCalorieNinjasURL
	}
	return c.BaseURL
}

// getJSON performs req and decodes a 200 response into v.
// Errors wrap ErrTransport, ErrStatus or ErrMalformed.
func getJSON(client *http.Client, req *http.Request, v any) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("%w: %d %s", ErrStatus, resp.StatusCode, snippet)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

func httpClient(c *http.Client) *http.Client {
	if c == nil {
		return http.DefaultClient
	}
	return c
}
