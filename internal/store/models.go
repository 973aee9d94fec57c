package store

import "time"

// ProposalRow is the listing view of a stored proposal. The scalar columns
// mirror fields inside the JSON document so lists and search never have to
// unpack every blob.
type ProposalRow struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ClientName   string    `json:"clientName"`
	Organization string    `json:"organization"`
	Status       string    `json:"status"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BriefRow is the listing view of a stored client brief.
type BriefRow struct {
	ID           string    `json:"id"`
	ClientName   string    `json:"clientName"`
	Organization string    `json:"organization"`
	CreatedAt    time.Time `json:"createdAt"`
}
