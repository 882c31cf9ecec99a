// Package retry queues and executes single-job content regeneration.
//
// The Coordinator is the request-side half: it validates ownership and
// entitlement, infers the plan a project was originally processed under
// from its populated content slots, and enqueues retry requests. The
// Executor is the daemon-side half: the workflow's retry lane drains the
// queue and re-runs one generation job per request, persisting the outcome
// as a single-column patch so sibling slots and concurrent writers are
// never touched. Requests for projects still moving through the pipeline
// are deferred until the run settles. A retry clears only its own job
// error entry; the full-pass replace semantics stay with the pipeline.
package retry
