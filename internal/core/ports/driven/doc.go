// Package driven lists what the core needs from the outside world.
//
// SearchAPI, ResponseNormaliser, Location and ConfigStore must be supplied.
// PageCache and ImageProber may be nil: without a cache every page goes to
// the network, and without a prober the first image candidate is used.
//
// Interfaces here may only mention domain types.
package driven
