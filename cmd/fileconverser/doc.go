// Package main hosts the fileconverser CLI entrypoint and command graph.
//
// Processing commands (convert, compress, resize) run an in-process engine
// over files on disk and write results into the output directory. serve
// exposes the same engine over the loopback HTTP API. config, tour and
// doctor cover configuration scaffolding, onboarding flags and environment
// checks.
//
// Keep this package lean: new behaviour belongs in the internal packages and
// is surfaced here through flags.
package main
