// Package classify decides whether a participant, performance or match is a team
// entry, and whether a participant row is a team header.
//
// The decision follows a fixed priority: per-entry metadata (participants per
// sub-item, performers per music piece), then category metadata, then a text
// heuristic over the normalized content names. Results carry the Source that
// decided them so callers can log when data quality forced the heuristic.
package classify
