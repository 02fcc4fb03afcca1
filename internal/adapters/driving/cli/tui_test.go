package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/acqscope/internal/adapters/driving/tui"
	"github.com/custodia-labs/acqscope/internal/adapters/driving/tui/messages"
)

func TestTUICmd_Registered(t *testing.T) {
	found := false
	for _, c := range rootCmd.Commands() {
		if c.Name() == "tui" {
			found = true
		}
	}
	assert.True(t, found)
	assert.NotNil(t, tuiCmd.Flags().Lookup("results"))
	assert.NotNil(t, tuiCmd.Flags().Lookup("filter"))
}

func TestNewTUIApp_RequiresServices(t *testing.T) {
	setupTestServices(t)
	SetServices(nil)
	tuiCmd.SetContext(context.Background())

	_, err := newTUIApp(tuiCmd)

	assert.ErrorIs(t, err, tui.ErrMissingFilterService)
}

func TestNewTUIApp_StartsOnBuilder(t *testing.T) {
	setupTestServices(t)
	tuiCmd.SetContext(context.Background())

	app, err := newTUIApp(tuiCmd)

	require.NoError(t, err)
	assert.Equal(t, messages.ViewBuilder, app.CurrentView())
}

func TestNewTUIApp_SeedsFilters(t *testing.T) {
	ts := setupTestServices(t)
	tuiCmd.SetContext(context.Background())
	tuiFlags.assign = []string{"speed=20..", "building=low"}

	app, err := newTUIApp(tuiCmd)

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, "/build?c.v=20..&s.building=..0", ts.location.Current().String())
}

func TestNewTUIApp_ResultsLocationOpensResults(t *testing.T) {
	ts := setupTestServices(t)
	tuiCmd.SetContext(context.Background())
	tuiFlags.query = "/results?o.oneway=yes"

	app, err := newTUIApp(tuiCmd)
	require.NoError(t, err)

	msg := app.Init()()
	require.NotNil(t, msg)
	assert.Equal(t, "/build?o.oneway=yes", ts.location.Current().String())
}

func TestNewTUIApp_InvalidSeed(t *testing.T) {
	setupTestServices(t)
	tuiCmd.SetContext(context.Background())
	tuiFlags.assign = []string{"colour=red"}

	_, err := newTUIApp(tuiCmd)

	assert.Error(t, err)
}
