// package pipeline implements the vibe-to-playlist search and extraction flow.
//
// The core abstraction is Engine, which composes the stages: optimize the
// casual query, search across fallback endpoints, filter candidate URLs,
// scrape the first workable page, extract structured songs, and top up the
// yield from alternate sources when the first pass comes back thin. Stages
// emit progress updates via channels for non-blocking status reporting to
// CLI/UI layers.
//
// Every stage tolerates partial failure; a run always ends in a single
// discriminated Result, never a panic or a half-built draft.
package pipeline
