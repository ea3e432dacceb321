// ABOUTME: Edamam nutrition-data provider (secondary source).
// ABOUTME: Reads top-level calories and PROCNT/CHOCDF/FAT quantities from totalNutrients.
package nutrition

import (
	"context"
	"net/http"
	"net/url"
)

// DefaultEdamamURL is the public nutrition-data endpoint.
const DefaultEdamamURL = "https://api.edamam.com/api/nutrition-data"

// Edamam nutrient codes.
const (
	nutrientProtein = "PROCNT"
	nutrientCarbs   = "CHOCDF"
	nutrientFat     = "FAT"
)

// Edamam queries the Edamam nutrition-data API.
type Edamam struct {
	AppID   string
	AppKey  string
	BaseURL string
	Client  *http.Client
}

// NewEdamam creates a provider using the default endpoint.
func NewEdamam(appID, appKey string, client *http.Client) *Edamam {
	return &Edamam{AppID: appID, AppKey: appKey, BaseURL: DefaultEdamamURL, Client: client}
}

type edamamNutrient struct {
	Quantity float64 `json:"quantity"`
}

type edamamResponse struct {
	Calories       float64                   `json:"calories"`
	TotalNutrients map[string]edamamNutrient `json:"totalNutrients"`
}

// Name returns the provenance tag.
func (e *Edamam) Name() string { return SourceEdamam }

// Resolve analyzes query as a single ingredient line.
func (e *Edamam) Resolve(ctx context.Context, query string) (*Result, error) {
	if e.AppID == "" || e.AppKey == "" {
		return nil, sourceErr(e.Name(), ErrNotConfigured, "")
	}

	base := e.BaseURL
	if base == "" {
		base = DefaultEdamamURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, sourceErr(e.Name(), ErrNotConfigured, "base url: %v", err)
	}
	q := u.Query()
	q.Set("app_id", e.AppID)
	q.Set("app_key", e.AppKey)
	q.Set("ingr", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, sourceErr(e.Name(), ErrTransport, "build request: %v", err)
	}

	var body edamamResponse
	if err := getJSON(httpClient(e.Client), req, &body); err != nil {
		return nil, &SourceError{Source: e.Name(), Err: err}
	}

	return &Result{
		Calories: body.Calories,
		ProteinG: body.TotalNutrients[nutrientProtein].Quantity,
		CarbsG:   body.TotalNutrients[nutrientCarbs].Quantity,
		FatG:     body.TotalNutrients[nutrientFat].Quantity,
		Source:   e.Name(),
	}, nil
}
