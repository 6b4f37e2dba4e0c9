// Package workshop assembles the job engine.
//
// An Engine owns the five queue stores, the blob registry holding results
// and previews, the change feed, the intake router, the job runner and the
// per-screen reorder controllers. It carries no presentation state: the
// active screen is passed to Ingest by the caller, and the selected job of
// each store lives in the store itself.
//
// Engine methods translate domain sentinels into services markers so the
// HTTP API and the CLI can classify failures the same way.
package workshop
