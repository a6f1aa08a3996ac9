package pipeline

import "fmt"

// ProgressUpdate represents a progress event during a pipeline run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Pipeline phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Pipeline phase enumeration
type Phase int

const (
	Optimize Phase = iota
	Search
	Filter
	Scrape
	Extract
	Supplement
	Persist
)

func (p Phase) String() string {
	switch p {
	case Optimize:
		return "optimize"
	case Search:
		return "search"
	case Filter:
		return "filter"
	case Scrape:
		return "scrape"
	case Extract:
		return "extract"
	case Supplement:
		return "supplement"
	case Persist:
		return "persist"
	default:
		return ""
	}
}

func optimizeUpdate(query string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Optimize,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Rewriting request: %q...", query),
	}
}

func searchUpdate(step, total int, endpoint string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Search,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Searching via %s...", step, total, endpoint),
	}
}

func filterUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Filter,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Ranking %d candidate pages...", count),
	}
}

func scrapeUpdate(step, total int, url string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Scrape,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Reading %s...", step, total, url),
	}
}

func extractUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   Extract,
		Step:    1,
		Total:   1,
		Message: "Extracting songs from page content...",
	}
}

func supplementUpdate(step, total int, url string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Supplement,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Thin result, trying %s for more songs...", step, total, url),
	}
}

func persistUpdate(title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Persist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Saving playlist: %s...", title),
	}
}
