// Package jobs declares the closed set of content generation job names and
// the static mapping between plan features and jobs.
package jobs
