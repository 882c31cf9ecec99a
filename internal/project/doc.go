// Package project defines the aggregate root for one uploaded audio file
// and its derived artifacts: lifecycle status, per-phase job status, the
// canonical transcript shape, and the per-job generated content slots.
package project
