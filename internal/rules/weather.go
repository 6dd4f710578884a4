package rules

import (
	"context"
	"fmt"

	"schedule-engine/internal/collab"
	"schedule-engine/internal/constraint"
	"schedule-engine/internal/domain"
)

var outdoorSports = map[domain.Sport]bool{
	domain.SportFootball: true,
	domain.SportBaseball: true,
	domain.SportSoftball: true,
	domain.SportSoccer:   true,
	domain.SportTennis:   true,
}

// WeatherParams configures the weather-risk rule.
type WeatherParams struct {
	// MaxPrecipRisk is the precipitation probability above which an
	// outdoor game is flagged.
	MaxPrecipRisk float64 `json:"maxPrecipRisk"`
}

func (p WeatherParams) Validate() error {
	if p.MaxPrecipRisk <= 0 || p.MaxPrecipRisk > 1 {
		return fmt.Errorf("maxPrecipRisk must be in (0,1], got %v", p.MaxPrecipRisk)
	}
	return nil
}

// DefaultWeatherParams flags outdoor games with >70% precipitation risk.
var DefaultWeatherParams = WeatherParams{MaxPrecipRisk: 0.7}

// WeatherRisk returns the advisory rule consulting the weather
// collaborator for outdoor games. Forecasts shift, so results are not
// cached and confidence is reported low.
func WeatherRisk(params WeatherParams, weather collab.WeatherService) constraint.Definition {
	return constraint.Definition{
		ID:             "weather-risk",
		Name:           "Weather Risk",
		Hardness:       constraint.Soft,
		Weight:         2,
		Tags:           []string{"weather"},
		Params:         params,
		Cacheable:      false,
		Parallelizable: true,
		Evaluate: func(ctx context.Context, s *domain.Schedule, p constraint.Params) (*constraint.Result, error) {
			wp, ok := p.(WeatherParams)
			if !ok {
				wp = DefaultWeatherParams
			}
			return evaluateWeatherRisk(ctx, s, wp, weather)
		},
	}
}

func evaluateWeatherRisk(ctx context.Context, s *domain.Schedule, p WeatherParams, weather collab.WeatherService) (*constraint.Result, error) {
	result := &constraint.Result{Confidence: 0.5}

	outdoor, risky := 0, 0
	for _, g := range s.Games {
		if !outdoorSports[g.Sport] {
			continue
		}
		venue, ok := s.VenueByID(g.VenueID)
		if !ok {
			continue
		}
		outdoor++

		forecast, err := weather.Forecast(ctx, venue, g.DateTime())
		if err != nil {
			return nil, fmt.Errorf("weather lookup for game %s: %w", g.ID, err)
		}
		if forecast.Precipitation <= p.MaxPrecipRisk {
			continue
		}
		risky++
		result.Suggestions = append(result.Suggestions, constraint.Suggestion{
			Type:                "weather_exposure",
			Priority:            constraint.PriorityMedium,
			Description:         fmt.Sprintf("game %s at %s has %.0f%% precipitation risk (%s)", g.ID, venue.Name, forecast.Precipitation*100, forecast.Condition),
			Implementation:      "hold a makeup date or shift start time",
			ExpectedImprovement: 3,
		})
	}

	result.Score = fractionClean(outdoor, risky)
	result.Message = fmt.Sprintf("%d of %d outdoor games at acceptable weather risk", outdoor-risky, outdoor)
	return result, nil
}
