package licitacao

import "time"

type ProcessStatus string

const (
	ProcessDraft       ProcessStatus = "draft"
	ProcessPublished   ProcessStatus = "published"
	ProcessUnderReview ProcessStatus = "under_review"
	ProcessAwarded     ProcessStatus = "awarded"
	ProcessCancelled   ProcessStatus = "cancelled"
)

type Process struct {
	ID          string        `json:"id"`
	Number      string        `json:"number"`
	Object      string        `json:"object"`
	Modality    string        `json:"modality"`
	Budget      float64       `json:"budget"`
	Status      ProcessStatus `json:"status"`
	OpeningDate time.Time     `json:"openingDate"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

type Proposal struct {
	ID        string    `json:"id"`
	ProcessID string    `json:"processId"`
	Supplier  string    `json:"supplier"`
	Document  string    `json:"document"`
	Amount    float64   `json:"amount"`
	Winner    bool      `json:"winner"`
	CreatedAt time.Time `json:"createdAt"`
}

type Contract struct {
	ID         string    `json:"id"`
	ProcessID  string    `json:"processId"`
	ProposalID string    `json:"proposalId"`
	Supplier   string    `json:"supplier"`
	Amount     float64   `json:"amount"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	CreatedAt  time.Time `json:"createdAt"`
}
