// Package weather fetches the campsite forecast from open-meteo and
// turns it into the header snapshot plus clothing advice.
package weather

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"
)

const cacheTTL = 30 * time.Minute

// Config holds campsite coordinates.
type Config struct {
	Latitude  string
	Longitude string
}

// Forecast is the current conditions at the campsite.
type Forecast struct {
	Temp       float64
	Code       int
	Desc       string
	Icon       string
	HighTemp   float64
	LowTemp    float64
	Advice     string
	Available  bool
	Configured bool
}

// Service fetches and caches the campsite forecast. Results are cached
// for 30 minutes; a fetch failure serves the stale copy.
type Service struct {
	config    Config
	client    *http.Client
	baseURL   string
	mu        sync.RWMutex
	cached    Forecast
	lastFetch time.Time
}

// NewService creates a weather service for the given coordinates.
func NewService(cfg Config) *Service {
	configured := cfg.Latitude != "" && cfg.Longitude != ""
	return &Service{
		config:  cfg,
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: "https://api.open-meteo.com/v1/forecast",
		cached:  Forecast{Configured: configured},
	}
}

// GetForecast returns the campsite forecast, refetching when the cache
// is stale.
func (s *Service) GetForecast() Forecast {
	if !s.cached.Configured {
		return s.cached
	}

	s.mu.RLock()
	if time.Since(s.lastFetch) < cacheTTL && s.cached.Available {
		data := s.cached
		s.mu.RUnlock()
		return data
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring write lock.
	if time.Since(s.lastFetch) < cacheTTL && s.cached.Available {
		return s.cached
	}

	data, err := s.fetch()
	if err != nil {
		// Return stale data on error rather than clearing it.
		return s.cached
	}

	s.cached = data
	s.lastFetch = time.Now()
	return s.cached
}

type apiResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
	Daily struct {
		TempMax []float64 `json:"temperature_2m_max"`
		TempMin []float64 `json:"temperature_2m_min"`
	} `json:"daily"`
}

func (s *Service) fetch() (Forecast, error) {
	url := fmt.Sprintf(
		"%s?latitude=%s&longitude=%s&current=temperature_2m,weather_code&daily=temperature_2m_max,temperature_2m_min&timezone=auto&forecast_days=1&temperature_unit=celsius",
		s.baseURL, s.config.Latitude, s.config.Longitude,
	)

	resp, err := s.client.Get(url)
	if err != nil {
		return Forecast{}, fmt.Errorf("weather API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Forecast{}, fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return Forecast{}, fmt.Errorf("decode weather response: %w", err)
	}

	desc, icon := WMOCodeToDescIcon(apiResp.Current.WeatherCode)

	data := Forecast{
		Temp:       apiResp.Current.Temperature,
		Code:       apiResp.Current.WeatherCode,
		Desc:       desc,
		Icon:       icon,
		Advice:     ClothingAdvice(apiResp.Current.Temperature),
		Available:  true,
		Configured: true,
	}

	if len(apiResp.Daily.TempMax) > 0 {
		data.HighTemp = apiResp.Daily.TempMax[0]
	}
	if len(apiResp.Daily.TempMin) > 0 {
		data.LowTemp = apiResp.Daily.TempMin[0]
	}

	return data, nil
}

// ClothingAdvice maps a temperature in Celsius to packing advice for
// the trip header.
func ClothingAdvice(temp float64) string {
	switch {
	case math.IsNaN(temp):
		return "請根據當地天氣預報穿著。"
	case temp < 10:
		return "寒流警報！請準備發熱衣、羽絨外套、毛帽與暖暖包。洋蔥式穿法最保暖。"
	case temp < 18:
		return "稍有涼意，建議穿著長袖、薄外套或背心。早晚溫差大，注意保暖。"
	case temp < 25:
		return "舒適的氣溫！短袖搭配薄外套即可，活動方便為主。"
	default:
		return "天氣炎熱，請穿著透氣排汗的短袖衣物，並注意防曬與補充水分。"
	}
}

// WMOCodeToDescIcon maps a WMO weather code to a description and emoji
// icon.
func WMOCodeToDescIcon(code int) (string, string) {
	switch code {
	case 0:
		return "晴朗", "☀️"
	case 1:
		return "大致晴朗", "🌤️"
	case 2:
		return "多雲時晴", "⛅"
	case 3:
		return "陰天", "☁️"
	case 45, 48:
		return "起霧", "🌫️"
	case 51, 53:
		return "毛毛雨", "🌦️"
	case 55, 56, 57:
		return "細雨", "🌧️"
	case 61, 80:
		return "小雨", "🌦️"
	case 63, 81:
		return "陣雨", "🌧️"
	case 65, 82:
		return "大雨", "⛈️"
	case 66, 67:
		return "凍雨", "🌧️"
	case 71, 73, 85:
		return "降雪", "🌨️"
	case 75, 77, 86:
		return "大雪", "❄️"
	case 95, 96, 99:
		return "雷雨", "⛈️"
	default:
		return "未知", "🌡️"
	}
}
