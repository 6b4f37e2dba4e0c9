// Package queue models queued files and the ordered stores that hold them.
//
// A Job is a tagged record: every job carries the common lifecycle fields and
// exactly one of the Image or Document extensions, selected by its Category.
// A Store keeps the ordered sequence of jobs for one queue kind together with
// the optional selected job id.
//
// Stores never hand out the jobs they hold. Every mutation copies the affected
// job, applies the change and installs a new sequence under the store lock,
// so a writer that resumes after a slow codec call always works against the
// current contents rather than a stale snapshot. Readers receive clones.
//
// Treat this package as the single source of truth for job status semantics;
// runners and intake only change jobs through the Store API.
package queue
