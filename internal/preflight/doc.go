// Package preflight provides readiness checks for the filesystem paths and
// listen address fileconverser depends on.
//
// These checks run in two contexts:
//   - "fileconverser serve" calls RunAll before binding and refuses to start
//     when a check fails.
//   - "fileconverser doctor" prints every result as a table.
package preflight
