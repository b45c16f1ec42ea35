// Package units parses the loosely formatted quantities that appear in reel
// command sentences (sizes, bitrates, time specs, speed factors, layouts,
// positions, colors) and normalizes them into strongly typed values. All
// parsers are case-insensitive and whitespace-tolerant; invalid input is
// rejected here so downstream components only ever see concrete numbers.
package units
