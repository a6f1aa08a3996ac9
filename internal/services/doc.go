// Package services wraps the external collaborators the pipeline consumes
// through narrow interfaces.
//
// # Providers
//
// [Completer] is the language-model completion service ([LLMService] backed by
// llmkit). [SearchProvider] wraps one web-search backend endpoint
// ([SearxProvider]); multiple instances exist, one per configured endpoint,
// and the pipeline's search orchestrator owns the fallback order.
// [ScrapeProvider] turns a URL into markdown; [FirecrawlService] delegates to
// a hosted scraping API while [ReaderService] fetches the page directly and
// converts the HTML locally.
//
// # Enrichment
//
// [LastFMService] looks up album metadata for extracted songs. [VideoService]
// resolves songs to playable videos across interchangeable endpoints with the
// same rate-limit circuit breaking the search orchestrator uses.
//
// Providers classify failures with the sentinel errors in internal/shared:
// rate-limit signatures wrap [shared.ErrRateLimited] and the
// unsatisfiable-query signal wraps [shared.ErrTerminalSearch]. Callers decide
// whether a classification means skip-and-continue or abort.
package services
