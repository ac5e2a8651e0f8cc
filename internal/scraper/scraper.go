// Job record and extraction contracts shared across the pipeline.

package scraper

// Job is a single job posting extracted from the rendered careers page.
// A Job is built once by the extractor and never mutated afterwards.
type Job struct {
	Title       string
	Link        string
	Location    string
	Department  string
	Description string
}

// Strategy identifies which extraction heuristic produced the candidates of
// a run. The strategies form a fixed-priority fallback chain: a later one
// runs only when every earlier one found nothing.
type Strategy int

const (
	// StrategyNone means no heuristic found any candidate.
	StrategyNone Strategy = iota
	// StrategyClassKeyword matches block elements whose class names a job card.
	StrategyClassKeyword
	// StrategyRequisitionLink matches anchors pointing at requisition URLs.
	StrategyRequisitionLink
	// StrategyStructural matches containers holding a heading plus a link.
	StrategyStructural
)

func (s Strategy) String() string {
	switch s {
	case StrategyClassKeyword:
		return "class-keyword"
	case StrategyRequisitionLink:
		return "requisition-link"
	case StrategyStructural:
		return "structural"
	default:
		return "none"
	}
}
