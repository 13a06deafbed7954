package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/atlastravel/atlas/internal/domain"
	"github.com/atlastravel/atlas/internal/llm"
)

// WeatherReport is the payload returned to the model for one city/date.
type WeatherReport struct {
	City             string  `json:"city"`
	Date             string  `json:"date"`
	TempHighC        float64 `json:"temp_high_c"`
	TempLowC         float64 `json:"temp_low_c"`
	Conditions       string  `json:"conditions"`
	PrecipitationPct int     `json:"precipitation_pct"`
}

// WeatherTool fetches a daily forecast from an OpenWeather-compatible
// endpoint. Forecasts only cover the next few days, so a date past the
// horizon is a degraded result, not a failure.
type WeatherTool struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewWeatherTool builds the tool. An empty apiKey is allowed at
// construction; invocation then classifies as unauthenticated.
func NewWeatherTool(apiKey, baseURL string, client *http.Client) *WeatherTool {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &WeatherTool{apiKey: apiKey, baseURL: baseURL, client: client}
}

func (t *WeatherTool) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Name:        "get_weather",
		Description: "Get the weather forecast for a city on a specific date. Only works for dates within roughly five days of today.",
		Parameters: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"city": {Type: jsonschema.String, Description: "City name, e.g. \"Kyoto\""},
				"date": {Type: jsonschema.String, Description: "Date in YYYY-MM-DD format"},
			},
			Required: []string{"city", "date"},
		},
	}
}

// forecastResponse is the subset of the OpenWeather 5-day/3-hour
// forecast payload this tool reads.
type forecastResponse struct {
	List []struct {
		DtTxt string `json:"dt_txt"`
		Main  struct {
			TempMax float64 `json:"temp_max"`
			TempMin float64 `json:"temp_min"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Pop float64 `json:"pop"`
	} `json:"list"`
}

func (t *WeatherTool) Invoke(ctx context.Context, args map[string]any) (any, error) {
	city, err := requireString("get_weather", args, "city")
	if err != nil {
		return nil, err
	}
	date, err := requireString("get_weather", args, "date")
	if err != nil {
		return nil, err
	}
	if _, err := domain.ParseDate(date); err != nil {
		return nil, &domain.ToolError{Tool: "get_weather", Kind: domain.FailInvalidInput, Err: err}
	}
	if t.apiKey == "" {
		return nil, &domain.ToolError{
			Tool: "get_weather",
			Kind: domain.FailUnauthenticated,
			Err:  fmt.Errorf("no weather API key configured"),
		}
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", t.apiKey)
	q.Set("units", "metric")
	reqURL := t.baseURL + "/forecast?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &domain.ToolError{Tool: "get_weather", Kind: domain.FailUpstreamError, Err: err}
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &domain.ToolError{Tool: "get_weather", Kind: domain.FailUnavailable, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &domain.ToolError{
			Tool: "get_weather",
			Kind: domain.FailUnauthenticated,
			Err:  fmt.Errorf("weather service rejected the API key (status %d)", resp.StatusCode),
		}
	case resp.StatusCode == http.StatusNotFound:
		return nil, &Degradation{Reason: fmt.Sprintf("no forecast data for city %q", city)}
	case resp.StatusCode != http.StatusOK:
		return nil, &domain.ToolError{
			Tool: "get_weather",
			Kind: domain.FailUpstreamError,
			Err:  fmt.Errorf("weather service returned status %d", resp.StatusCode),
		}
	}

	var forecast forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&forecast); err != nil {
		return nil, &domain.ToolError{Tool: "get_weather", Kind: domain.FailUpstreamError, Err: err}
	}

	report, ok := summarizeDay(forecast, city, date)
	if !ok {
		return nil, &Degradation{Reason: fmt.Sprintf("forecast for %s is reachable but has no data for %s", city, date)}
	}
	return report, nil
}

// summarizeDay folds the 3-hourly forecast entries for one date into a
// daily report.
func summarizeDay(forecast forecastResponse, city, date string) (WeatherReport, bool) {
	report := WeatherReport{City: city, Date: date}
	condCounts := make(map[string]int)
	matched := false

	for _, entry := range forecast.List {
		if len(entry.DtTxt) < len(date) || entry.DtTxt[:len(date)] != date {
			continue
		}
		if !matched {
			report.TempHighC = entry.Main.TempMax
			report.TempLowC = entry.Main.TempMin
			matched = true
		} else {
			if entry.Main.TempMax > report.TempHighC {
				report.TempHighC = entry.Main.TempMax
			}
			if entry.Main.TempMin < report.TempLowC {
				report.TempLowC = entry.Main.TempMin
			}
		}
		if len(entry.Weather) > 0 {
			condCounts[entry.Weather[0].Description]++
		}
		if pct := int(entry.Pop * 100); pct > report.PrecipitationPct {
			report.PrecipitationPct = pct
		}
	}
	if !matched {
		return WeatherReport{}, false
	}

	best := 0
	for cond, n := range condCounts {
		if n > best || (n == best && cond < report.Conditions) {
			report.Conditions = cond
			best = n
		}
	}
	return report, true
}
