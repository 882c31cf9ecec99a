// Package workflow coordinates pipeline processing for uploaded projects.
//
// The manager runs two lanes against the store. The pipeline lane claims
// the oldest project still owed work and drives it through transcription
// and generation; the retry lane drains queued single-job retry requests.
// Both lanes poll, sleep when idle, and back off after store errors.
//
// Progress is tracked per phase on the project's job status ledger, so a
// project re-claimed after a crash or a bounded retry resumes at its first
// incomplete phase instead of re-running completed work.
package workflow
