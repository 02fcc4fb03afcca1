// Package domain holds the acqscope data model: the FilterState a user
// builds, its QueryParams form, the LinkDoc records the search API
// returns, the AcquisitionGroup they are folded into, and the PanelWindow
// a front end displays.
//
// It imports nothing outside the standard library.
package domain
