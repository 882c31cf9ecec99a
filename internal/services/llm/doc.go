// Package llm provides an OpenAI-compatible chat client for content
// generation.
//
// Every generation job that needs a model (summary, social posts, titles,
// hashtags, YouTube chapter titles) goes through Client.CompleteJSON: a
// system/user prompt pair with a JSON-only response format. Callers decode
// the payload with DecodeJSON, which tolerates code fences and prose
// wrapping around the JSON body.
//
// The client retries HTTP 408/429/5xx and network timeouts with exponential
// backoff; anything else fails immediately so malformed requests surface as
// job errors rather than burning the retry budget. Context cancellation
// aborts retries.
package llm
