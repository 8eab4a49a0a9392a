// Package tasks orchestrates long-running record operations with real-time progress reporting.
//
// # Core Operations
//
//  1. [Engine.Sync] : Full repository snapshot
//     - Pages through the user's meditation session and preset collections
//     - Rate-limits listing requests to stay inside the server's budget
//     - Replaces the local sqlite snapshot wholesale with the fetched records
//
//  2. [Engine.Export] : Bulk export of fetched records
//     - Renders sessions and presets to JSON, CSV, Markdown, or plain text
//     - Writes one file per collection plus a manifest into the output directory
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, and messages for
// UI rendering. Updates use select with default to prevent blocking.
package tasks
