// Package textutil provides text helpers for file names and display labels.
//
// Names arriving from drops or the command line are normalised to Unicode
// NFC before they become part of a job, so that visually identical names
// produce identical download names. Labels turn hyphenated identifiers such
// as queue kinds into title-cased text for tables.
package textutil
