// Package workflow runs queued jobs through the codec and reconciles the
// outcome back into their stores.
//
// The Runner offers three entry points: Run processes one job, RunAll
// processes every job of the resize queue using the selected job as a
// template, and Reset returns a finished job to pending so it can be
// reconfigured. Each run reads the job's configuration once when it starts,
// invokes the codec outside any store lock, and commits the outcome with a
// single read-modify-write against the live store. Codec failures are recorded
// on the job and logged; they are never returned to the caller.
//
// Runs are not cancellable. Callers may pass request-scoped contexts; the
// runner detaches them before invoking the codec.
package workflow
