// Package generation produces derived content from a project's transcript.
//
// Six jobs exist: summary, social posts, titles, and hashtags prompt the
// chat model with transcript text; key moments map provider chapters
// directly; YouTube timestamps ask the model for short chapter titles and
// fall back to the chapter headline per index when the model's answer is
// unusable.
//
// Stage.Execute fans the entitled jobs out concurrently. Jobs are isolated:
// one failure never cancels a sibling, and the stage returns a settled
// partition of per-job results and per-job error messages instead of an
// error of its own.
package generation
