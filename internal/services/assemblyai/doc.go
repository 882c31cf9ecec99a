// Package assemblyai provides a client for the AssemblyAI transcription API.
//
// Transcribe submits an audio URL, then polls the transcript resource until
// the provider reports a terminal status. Speaker labels and auto chapters
// are always requested; downstream generation jobs depend on both. All
// offsets in the returned payload are milliseconds, exactly as the provider
// reports them; normalization to seconds happens in the transcription stage.
//
// A provider-reported failure (status "error") is returned as
// ErrTranscriptFailed and is not retried here: the whole-pipeline retry
// budget owns that decision. Transport-level failures and HTTP 429/5xx are
// retried with exponential backoff.
package assemblyai
