package httpapi

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/observability"
	"github.com/i474232898/weather-dashboard/internal/prefs"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var validate = validator.New()

// Deps bundles everything the HTTP handlers need.
type Deps struct {
	Service   *weather.Service
	Prefs     *prefs.Store
	Snapshots *store.SnapshotStore
	Metrics   *observability.Metrics
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather", getWeather(deps))
	v1.Get("/weather/latest", getLatestWeather(deps))
	v1.Get("/locations/search", searchLocations(deps))

	v1.Get("/preferences", getPreferences(deps))
	v1.Patch("/preferences", patchPreferences(deps))

	v1.Post("/session/login", login(deps))
	v1.Post("/session/logout", logout(deps))
	v1.Put("/session/location", updateLocation(deps))
}

func getWeather(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		location := c.Query("location")
		if location == "" {
			return fiber.NewError(fiber.StatusBadRequest, "location query parameter is required")
		}

		start := time.Now()
		snapshot, err := deps.Service.GetSnapshot(c.UserContext(), location)
		deps.Metrics.SnapshotDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			deps.Metrics.SnapshotRequests.WithLabelValues(snapshotOutcome(err)).Inc()
			return mapSnapshotError(err)
		}
		deps.Metrics.SnapshotRequests.WithLabelValues("success").Inc()

		// Keep the last good snapshot around for /weather/latest.
		deps.Snapshots.Put(location, snapshot)

		return c.JSON(snapshot)
	}
}

func getLatestWeather(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		location := c.Query("location")
		if location == "" {
			return fiber.NewError(fiber.StatusBadRequest, "location query parameter is required")
		}

		snapshot, err := deps.Snapshots.Latest(location)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no stored snapshot for requested location")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read stored snapshot")
		}
		return c.JSON(snapshot)
	}
}

func searchLocations(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		locations, err := deps.Service.SearchLocations(c.UserContext(), c.Query("q"))
		if err != nil {
			return mapSnapshotError(err)
		}
		if locations == nil {
			locations = []weather.Location{}
		}
		return c.JSON(fiber.Map{"locations": locations})
	}
}

func getPreferences(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(deps.Prefs.State())
	}
}

// preferencesRequest carries any subset of preference updates.
type preferencesRequest struct {
	TemperatureUnit *string            `json:"temperatureUnit" validate:"omitempty,oneof=celsius fahrenheit"`
	Theme           *string            `json:"theme" validate:"omitempty,oneof=light dark"`
	Background      *backgroundRequest `json:"background"`
}

type backgroundRequest struct {
	Page    string `json:"page" validate:"required,oneof=login dashboard"`
	StyleID string `json:"styleId" validate:"required"`
}

func patchPreferences(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req preferencesRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.Background != nil {
			if err := validate.Struct(req.Background); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
		}

		var actions []prefs.Action
		if req.TemperatureUnit != nil {
			actions = append(actions, prefs.SetTemperatureUnit{Unit: prefs.TemperatureUnit(*req.TemperatureUnit)})
		}
		if req.Theme != nil {
			actions = append(actions, prefs.SetTheme{Theme: prefs.Theme(*req.Theme)})
		}
		if req.Background != nil {
			actions = append(actions, prefs.SetBackground{
				Page:    prefs.Page(req.Background.Page),
				StyleID: req.Background.StyleID,
			})
		}

		state := deps.Prefs.State()
		for _, action := range actions {
			var err error
			state, err = deps.Prefs.Dispatch(action)
			if err != nil {
				return mapPrefsError(err)
			}
		}
		return c.JSON(state)
	}
}

type loginRequest struct {
	DisplayName   string `json:"displayName" validate:"required"`
	Email         string `json:"email" validate:"omitempty,email"`
	LocationQuery string `json:"locationQuery"`
}

func login(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		state, err := deps.Prefs.Dispatch(prefs.Login{Profile: prefs.Session{
			DisplayName:   req.DisplayName,
			Email:         req.Email,
			LocationQuery: req.LocationQuery,
		}})
		if err != nil {
			return mapPrefsError(err)
		}
		return c.JSON(state)
	}
}

func logout(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		state, err := deps.Prefs.Dispatch(prefs.Logout{})
		if err != nil {
			return mapPrefsError(err)
		}
		return c.JSON(state)
	}
}

type locationRequest struct {
	LocationQuery string `json:"locationQuery" validate:"required"`
}

func updateLocation(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req locationRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		state, err := deps.Prefs.Dispatch(prefs.UpdateLocation{LocationQuery: req.LocationQuery})
		if err != nil {
			return mapPrefsError(err)
		}
		return c.JSON(state)
	}
}

func mapSnapshotError(err error) *fiber.Error {
	var malformed *weather.MalformedResponseError
	var provider *weather.ProviderError

	switch {
	case errors.Is(err, weather.ErrLocationNotFound):
		return fiber.NewError(fiber.StatusNotFound, "location not found")
	case errors.As(err, &malformed):
		return fiber.NewError(fiber.StatusBadGateway, "weather provider returned an unexpected response")
	case errors.As(err, &provider):
		return fiber.NewError(fiber.StatusBadGateway, "weather provider unavailable")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
	}
}

func snapshotOutcome(err error) string {
	var malformed *weather.MalformedResponseError
	var provider *weather.ProviderError

	switch {
	case errors.Is(err, weather.ErrLocationNotFound):
		return "not_found"
	case errors.As(err, &malformed):
		return "malformed"
	case errors.As(err, &provider):
		return "provider_error"
	default:
		return "error"
	}
}

func mapPrefsError(err error) *fiber.Error {
	if errors.Is(err, prefs.ErrInvalidTransition) {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, "failed to update preferences")
}
