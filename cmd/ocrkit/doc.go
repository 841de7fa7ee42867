// Package main hosts the ocrkit CLI entrypoint and command graph.
//
// The Cobra-based command tree covers a capability probe, single-image and
// batch recognition, document aggregation, traineddata management and
// configuration scaffolding. It centralizes configuration resolution and
// logging setup so subcommands can focus on user experience instead of
// wiring; recognition itself lives in the library packages.
package main
