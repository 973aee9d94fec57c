package search

// Result is a single proposal search hit returned to the caller.
type Result struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ClientName   string `json:"clientName"`
	Organization string `json:"organization"`
	Status       string `json:"status"`
	Snippet      string `json:"snippet,omitempty"`
}

// Query describes a proposal search request.
type Query struct {
	Text         string
	FilterStatus string // empty = all statuses
	Limit        int
	Offset       int
}

// Response is the envelope returned by the search endpoint.
type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
}

// Searcher can execute a full-text search over proposals.
type Searcher interface {
	Search(q Query) ([]Result, int, error)
	Healthy() bool
}

// ProposalRecord is the data we index for a proposal.
type ProposalRecord struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ClientName   string `json:"clientName"`
	Organization string `json:"organization"`
	Status       string `json:"status"`
}
