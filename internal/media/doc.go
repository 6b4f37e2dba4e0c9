// Package media holds the vocabulary shared by the job engine and the codec
// layer: file categories, the enumerated output formats, pixel dimensions and
// the download naming rules.
//
// Nothing in this package performs I/O. Classification and naming are pure
// functions so intake, the runners, the CLI and the HTTP API agree on the same
// rules without sharing state.
package media
