// Package messages holds the tea.Msg types exchanged between the app and
// its views.
package messages

import (
	"github.com/custodia-labs/acqscope/internal/core/domain"
)

// ViewType identifies a screen. The zero value is the builder, which is
// where the app starts.
type ViewType int

const (
	ViewBuilder ViewType = iota
	ViewResults
	ViewHelp
	ViewSettings
)

var viewNames = [...]string{
	ViewBuilder:  "builder",
	ViewResults:  "results",
	ViewHelp:     "help",
	ViewSettings: "settings",
}

func (v ViewType) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return "unknown"
	}
	return viewNames[v]
}

// ViewChanged asks the app to switch screens.
type ViewChanged struct {
	View ViewType
}

// FiltersChanged is sent after the filter state was edited and the
// location replaced.
type FiltersChanged struct {
	Location domain.Location
}

// ResultsRequested is sent when the builder pushed the results location.
type ResultsRequested struct {
	Location domain.Location
	State    domain.FilterState
}

// WindowLoaded carries a panel window back to the results view.
// Request is the sequence number of the navigation that produced it;
// replies to superseded requests are dropped.
type WindowLoaded struct {
	Request int
	Window  *domain.PanelWindow
	Err     error
}

// ImageResolved carries the outcome of resolving a photo link.
type ImageResolved struct {
	Result domain.ImageResult
}

// ErrorOccurred reports a failure to whichever view is showing.
type ErrorOccurred struct {
	Err error
}

// Quit exits the program.
type Quit struct{}

// SettingsLoaded carries the settings read for the settings view.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved reports the outcome of saving the field named Key.
type SettingsSaved struct {
	Key string
	Err error
}

// SettingsChanged is sent when config.toml was edited outside acqscope.
type SettingsChanged struct{}
