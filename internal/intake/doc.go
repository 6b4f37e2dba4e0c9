// Package intake turns dropped files into queued jobs.
//
// The Router classifies each file, probes image dimensions, renders preview
// thumbnails, and appends the resulting jobs to the store chosen by the
// destination screen the files were dropped on. Probing runs concurrently
// for a single drop; the appends happen afterwards, one contiguous append per
// store, in input order.
package intake
