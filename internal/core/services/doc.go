// Package services implements the driving ports.
//
// A search flows FilterSession -> BrowseService -> SearchAPI (optionally
// through CachedSearchAPI) -> ResponseNormaliser -> Aggregator, and the
// Controller slices the aggregated groups into panel pages.
package services
