package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/acqscope/internal/core/domain"
	"github.com/custodia-labs/acqscope/internal/core/filters"
)

// filterFlags are the filter selection flags shared by filters encode and
// search.
type filterFlags struct {
	assign []string
	query  string
}

func (f *filterFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.assign, "filter", "f", nil,
		"facet assignment KEY=VALUE (repeatable), e.g. speed=20.. or building=low,high")
	cmd.Flags().StringVarP(&f.query, "query", "q", "", "query string to start from, e.g. c.v=20..&o.highway=primary")
}

func (f *filterFlags) reset() {
	f.assign = nil
	f.query = ""
}

// state builds a FilterState from the query string first, then applies each
// --filter assignment in order.
func (f *filterFlags) state() (domain.FilterState, error) {
	var state domain.FilterState
	if q := strings.TrimSpace(f.query); q != "" {
		loc := domain.ParseLocation(q)
		if err := filters.ApplyQuery(&state, loc.Query.String()); err != nil {
			return state, err
		}
	}
	for _, a := range f.assign {
		key, value, ok := strings.Cut(a, "=")
		if !ok {
			return state, fmt.Errorf("%w: filter %q must be KEY=VALUE", domain.ErrInvalidInput, a)
		}
		if err := filters.Assign(&state, key, value); err != nil {
			return state, err
		}
	}
	return state, nil
}

var (
	encodeFlags   filterFlags
	encodeResults bool
	decodeJSON    bool
)

var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "Encode, decode and list filter facets",
}

var filtersEncodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode filter selections as a query string",
	Long: `Builds a filter state from --query and --filter flags and prints the
canonical query string. Banded facets accept chip keys or raw ranges:

  acqscope filters encode -f speed=20.. -f building=high,low
  c.v=20..&s.building=..0,28.72..`,
	Args: cobra.NoArgs,
	RunE: runFiltersEncode,
}

var filtersDecodeCmd = &cobra.Command{
	Use:   "decode <url|query>",
	Short: "Decode a query string or results URL into filter selections",
	Args:  cobra.ExactArgs(1),
	RunE:  runFiltersDecode,
}

var filtersKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the facet keys and chip bands",
	Args:  cobra.NoArgs,
	RunE:  runFiltersKeys,
}

func init() {
	encodeFlags.bind(filtersEncodeCmd)
	filtersEncodeCmd.Flags().BoolVar(&encodeResults, "results", false, "print the results location instead of the bare query")
	filtersDecodeCmd.Flags().BoolVar(&decodeJSON, "json", false, "output the filter state as JSON")

	filtersCmd.AddCommand(filtersEncodeCmd, filtersDecodeCmd, filtersKeysCmd)
	rootCmd.AddCommand(filtersCmd)
}

func runFiltersEncode(cmd *cobra.Command, _ []string) error {
	state, err := encodeFlags.state()
	if err != nil {
		return err
	}

	if !encodeResults {
		cmd.Println(filters.Encode(state).String())
		return nil
	}

	if filterService == nil {
		return fmt.Errorf("filters: %w", errNotConfigured)
	}
	if err := filterService.Update(func(s *domain.FilterState) { *s = state }); err != nil {
		return err
	}
	loc, err := filterService.ViewResults()
	if err != nil {
		return err
	}
	cmd.Println(loc.String())
	return nil
}

func runFiltersDecode(cmd *cobra.Command, args []string) error {
	loc := domain.ParseLocation(args[0])
	state := filters.Decode(loc.Query)

	if decodeJSON {
		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal filters: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	described := filters.Describe(state)
	if len(described) == 0 {
		cmd.Println("No active filters.")
		return nil
	}

	cmd.Printf("Route: %s\n\n", loc.Route)
	for _, fv := range described {
		cmd.Printf("  %-14s %-18s %s\n", fv.Facet.Key, fv.Facet.Name, describeValue(fv, state))
	}
	cmd.Printf("\nCanonical: %s\n", filters.Encode(state).String())
	return nil
}

// describeValue shows chip labels for banded facets and the raw value for
// everything else.
func describeValue(fv filters.FacetValue, state domain.FilterState) string {
	if fv.Facet.Kind != filters.KindBanded {
		return fv.Value
	}
	var banded domain.BandedRange
	switch fv.Facet.Name {
	case "steering":
		banded = state.Steering
	case "building":
		banded = state.Building
	case "vegetation":
		banded = state.Vegetation
	case "confidence":
		banded = state.Confidence
	}
	return fmt.Sprintf("%s (%s)", strings.Join(filters.BandLabels(banded), ", "), fv.Value)
}

func runFiltersKeys(cmd *cobra.Command, _ []string) error {
	for _, f := range filters.Facets {
		cmd.Printf("%-14s %-18s %s\n", f.Key, f.Name, f.Kind)
		if f.Table == nil {
			continue
		}
		for _, b := range f.Table.Bands {
			cmd.Printf("    %-13s %s\n", b.Key, b.Token())
		}
	}
	return nil
}
