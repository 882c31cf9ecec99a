// Package services holds cross-cutting helpers shared by the pipeline
// stages and provider clients: sentinel error markers with wrapping
// helpers, and context annotation for correlation of log output.
package services
