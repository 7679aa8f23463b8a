// Package tasks runs the long-lived jobs behind the offline cache with real-time progress reporting.
//
// # Precache
//
// [Precacher.Run] downloads a manifest of asset URLs with a bounded worker pool. Requests are paced by a
// token-bucket limiter ([rate.Limiter]) so a large manifest does not hammer the origin. Every asset is attempted
// even when an earlier one fails; the caller decides what a partial result means.
//
// # Progress Reporting
//
// Jobs accept an optional progress channel. The [ProgressUpdate] struct contains phase, step counters, messages,
// and optional data for richer UIs. Updates use select with default to prevent blocking, so a slow or absent
// reader never stalls a job.
package tasks
