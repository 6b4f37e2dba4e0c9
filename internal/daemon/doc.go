// Package daemon hosts the engine behind a loopback JSON API.
//
// A Daemon holds a file lock in the state directory so only one server runs
// per state directory. Routes:
//
//	GET    /api/status
//	POST   /api/intake?screen=&tab=             multipart "files"
//	GET    /api/queues/{kind}
//	DELETE /api/queues/{kind}
//	POST   /api/queues/{kind}/select             {"id"}
//	PATCH  /api/queues/{kind}/jobs/{id}          settings patch
//	POST   /api/queues/{kind}/jobs/{id}/run
//	POST   /api/queues/{kind}/jobs/{id}/reset
//	POST   /api/queues/{kind}/run-all
//	POST   /api/queues/{kind}/drag               {"index"}
//	POST   /api/queues/{kind}/drop               {"index"}
//	GET    /api/queues/{kind}/export.zip
//	GET    /api/blobs/{handle}?name=
//	GET    /api/events?since=
//	GET    /api/onboarding
//	PUT    /api/onboarding/{flag}                {"completed"}
//
// Handlers decode and validate requests, call the workshop engine, and map
// services error markers to status codes.
package daemon
