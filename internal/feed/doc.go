// Package feed is the client side of a running server's change feed and
// status endpoint.
//
// The CLI uses it to watch queue activity from another terminal: Fetch reads
// one page of events after a cursor, Follow polls until the context ends.
package feed
