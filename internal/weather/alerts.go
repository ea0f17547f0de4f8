package weather

import (
	"fmt"
	"time"
)

// AlertThresholds holds the heuristic trigger values for derived alerts.
// They are not sourced from any meteorological standard; keep them as
// configuration so tests can pin the documented behavior.
type AlertThresholds struct {
	WindModerateMS float64 // wind above this raises an alert
	WindSevereMS   float64 // wind above this upgrades it to severe
	HeatC          float64
	ColdC          float64
	RainProb       float64 // 0..1 probability threshold
	RainLookahead  int     // number of leading forecast samples inspected

	WindValidity time.Duration
	TempValidity time.Duration
	RainValidity time.Duration
}

// DefaultAlertThresholds returns the stock trigger values.
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{
		WindModerateMS: 10,
		WindSevereMS:   15,
		HeatC:          35,
		ColdC:          -10,
		RainProb:       0.7,
		RainLookahead:  8,
		WindValidity:   6 * time.Hour,
		TempValidity:   8 * time.Hour,
		RainValidity:   12 * time.Hour,
	}
}

// DeriveAlerts evaluates stateless threshold rules against the current
// observation and the near-term forecast window. Heat and cold alerts are
// mutually exclusive per fetch.
func DeriveAlerts(now time.Time, obs CurrentObservation, samples []ForecastSample, th AlertThresholds) []Alert {
	var alerts []Alert

	if obs.WindSpeedMS > th.WindModerateMS {
		severity := SeverityModerate
		if obs.WindSpeedMS > th.WindSevereMS {
			severity = SeveritySevere
		}
		alerts = append(alerts, Alert{
			ID:    "wind-alert",
			Title: "High Wind Warning",
			Description: fmt.Sprintf(
				"Strong winds detected with speeds up to %d km/h. Secure loose objects and exercise caution outdoors.",
				roundInt(MSToKMH(obs.WindSpeedMS))),
			Severity:  severity,
			StartTime: now,
			EndTime:   now.Add(th.WindValidity),
		})
	}

	switch {
	case obs.TemperatureC > th.HeatC:
		alerts = append(alerts, Alert{
			ID:          "heat-alert",
			Title:       "Extreme Heat Warning",
			Description: "Very high temperatures detected. Stay hydrated, avoid prolonged sun exposure, and seek air-conditioned spaces.",
			Severity:    SeveritySevere,
			StartTime:   now,
			EndTime:     now.Add(th.TempValidity),
		})
	case obs.TemperatureC < th.ColdC:
		alerts = append(alerts, Alert{
			ID:          "cold-alert",
			Title:       "Extreme Cold Warning",
			Description: "Very low temperatures detected. Dress warmly, limit outdoor exposure, and watch for signs of frostbite.",
			Severity:    SeveritySevere,
			StartTime:   now,
			EndTime:     now.Add(th.TempValidity),
		})
	}

	window := samples
	if len(window) > th.RainLookahead {
		window = window[:th.RainLookahead]
	}
	for _, s := range window {
		if s.Condition == "Rain" && s.PrecipProb > th.RainProb {
			alerts = append(alerts, Alert{
				ID:          "rain-alert",
				Title:       "Heavy Rain Expected",
				Description: "Significant rainfall expected in the coming hours. Plan accordingly and avoid flood-prone areas.",
				Severity:    SeverityModerate,
				StartTime:   now,
				EndTime:     now.Add(th.RainValidity),
			})
			break
		}
	}

	return alerts
}
