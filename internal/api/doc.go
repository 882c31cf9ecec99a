// Package api implements the user-facing project operations: create, get,
// list, rename, and delete.
//
// Every operation takes the acting user and re-verifies ownership against
// stored state; client-supplied claims are never trusted. Create enforces
// the upload contract (audio MIME allow-list, plan limits on project count,
// file size, and duration) before a row exists, so the pipeline only ever
// sees admissible projects.
package api
