// Package blobstore keeps codec outputs and preview thumbnails in memory
// behind opaque handles.
//
// Jobs only ever store handles. The engine releases a handle when the job it
// belongs to is cleared, reset, or superseded by a newer result, so the
// registry never outlives the queues that reference it.
package blobstore
