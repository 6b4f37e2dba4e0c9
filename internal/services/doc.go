// Package services defines shared utilities consumed by the job runners, the
// intake router, and the API server.
//
// Key responsibilities:
//   - Context helpers that stamp job ids, queue kinds, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper so failures crossing a
//     package boundary can be classified (validation, not found, conflict,
//     unsupported, external codec) without string matching.
//
// Use these helpers when wiring new components so error handling and
// observability stay uniform.
package services
