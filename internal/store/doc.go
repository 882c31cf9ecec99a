// Package store persists projects and retry requests in SQLite.
//
// It is the single persistence collaborator for the pipeline: the workflow
// manager claims work from it, stages write phase transitions through it,
// and the retry coordinator queues single-job retries in it. The pipeline
// lane writes projects as whole rows while it owns a non-terminal project;
// retry outcomes land through SaveJobContent and SaveJobError, which patch
// a single content column and the job error map in one statement so they
// can never clobber another writer's columns.
package store
