// Package prefs is the single source of truth for user-visible settings and
// the login/location session. State changes go through a pure reducer over a
// closed set of actions; the persisting Store wrapper serializes the result
// after every successful transition.
package prefs

import (
	"errors"
	"strings"
)

// TemperatureUnit selects the presentation unit for temperatures.
type TemperatureUnit string

const (
	UnitCelsius    TemperatureUnit = "celsius"
	UnitFahrenheit TemperatureUnit = "fahrenheit"
)

// Theme selects the UI color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Page identifies which view's background an action targets.
type Page string

const (
	PageLogin     Page = "login"
	PageDashboard Page = "dashboard"
)

// ErrInvalidTransition is returned when an action's precondition does not
// hold (e.g. updating the location while logged out). State is unchanged.
var ErrInvalidTransition = errors.New("invalid preference transition")

// Session is the logged-in user's identity and chosen location.
// LocationQuery may be empty; the UI then still prompts for a location.
type Session struct {
	DisplayName   string `json:"displayName"`
	Email         string `json:"email"`
	LocationQuery string `json:"locationQuery"`
}

// State is the full preference/session record. Session is either nil
// (logged out) or carries a non-empty DisplayName.
type State struct {
	TemperatureUnit     TemperatureUnit `json:"temperatureUnit"`
	Theme               Theme           `json:"theme"`
	LoginBackground     string          `json:"loginBackground"`
	DashboardBackground string          `json:"dashboardBackground"`
	Session             *Session        `json:"session,omitempty"`
}

// DefaultState returns the record used at first start and after a failed hydration.
func DefaultState() State {
	return State{
		TemperatureUnit:     UnitCelsius,
		Theme:               ThemeLight,
		LoginBackground:     "gradient-sunrise",
		DashboardBackground: "gradient-sky",
	}
}

// Action is one member of the closed transition set.
type Action interface {
	isAction()
}

// SetTemperatureUnit replaces the temperature unit.
type SetTemperatureUnit struct {
	Unit TemperatureUnit
}

// SetTheme replaces the theme.
type SetTheme struct {
	Theme Theme
}

// SetBackground replaces the background of exactly one page.
type SetBackground struct {
	Page    Page
	StyleID string
}

// Login starts a session with the given profile.
type Login struct {
	Profile Session
}

// UpdateLocation replaces the session's location query. Requires a session.
type UpdateLocation struct {
	LocationQuery string
}

// Logout drops the session; all non-session preferences are retained.
type Logout struct{}

func (SetTemperatureUnit) isAction() {}
func (SetTheme) isAction()           {}
func (SetBackground) isAction()      {}
func (Login) isAction()              {}
func (UpdateLocation) isAction()     {}
func (Logout) isAction()             {}

// Reduce applies one action to the state and returns the new state. It never
// mutates its input; on ErrInvalidTransition the returned state equals the
// input state.
func Reduce(state State, action Action) (State, error) {
	switch a := action.(type) {
	case SetTemperatureUnit:
		if a.Unit != UnitCelsius && a.Unit != UnitFahrenheit {
			return state, ErrInvalidTransition
		}
		state.TemperatureUnit = a.Unit
		return state, nil

	case SetTheme:
		if a.Theme != ThemeLight && a.Theme != ThemeDark {
			return state, ErrInvalidTransition
		}
		state.Theme = a.Theme
		return state, nil

	case SetBackground:
		switch a.Page {
		case PageLogin:
			state.LoginBackground = a.StyleID
		case PageDashboard:
			state.DashboardBackground = a.StyleID
		default:
			return state, ErrInvalidTransition
		}
		return state, nil

	case Login:
		if strings.TrimSpace(a.Profile.DisplayName) == "" {
			return state, ErrInvalidTransition
		}
		profile := a.Profile
		state.Session = &profile
		return state, nil

	case UpdateLocation:
		if state.Session == nil {
			return state, ErrInvalidTransition
		}
		session := *state.Session
		session.LocationQuery = a.LocationQuery
		state.Session = &session
		return state, nil

	case Logout:
		state.Session = nil
		return state, nil

	default:
		return state, ErrInvalidTransition
	}
}
