package domain

// Candidate is a ranked catalog entry, scoped to a single resolution call.
type Candidate struct {
	ID    string
	Title string
	Score float64
}

// ResolvedItem is one catalog item the engine decided the user needs.
// ID is always drawn from the candidate whitelist of the call.
type ResolvedItem struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Quantity    float64 `json:"estimatedQuantity"`
}

// ResolutionResult is the final structured answer of a resolution call.
// A degraded resolution is an empty but well-formed result, never a nil.
type ResolutionResult struct {
	Items   []ResolvedItem `json:"items"`
	Summary string         `json:"summary"`
	Notes   string         `json:"notes"`
}

// NoMatchSummary is the summary used when ranking yields no candidates.
const NoMatchSummary = "No matching services found for this request."

// EmptyResult returns a well-formed result with no items.
func EmptyResult(summary string) ResolutionResult {
	return ResolutionResult{Items: []ResolvedItem{}, Summary: summary, Notes: ""}
}
