// Package normalisers turns raw upstream payloads into domain values.
//
// The response subpackage recognises the search endpoint's payload shapes
// and extracts link documents, pagination metadata and counters.
package normalisers
