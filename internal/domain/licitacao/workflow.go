package licitacao

import "errors"

var (
	ErrInvalidTransition = errors.New("invalid process status transition")
	ErrNoWinner          = errors.New("awarding requires a winning proposal")
)

// transitions encodes the procurement workflow. Cancellation is
// allowed from any non-terminal status; awarded and cancelled are
// terminal.
var transitions = map[ProcessStatus][]ProcessStatus{
	ProcessDraft:       {ProcessPublished, ProcessCancelled},
	ProcessPublished:   {ProcessUnderReview, ProcessCancelled},
	ProcessUnderReview: {ProcessAwarded, ProcessCancelled},
}

func CanTransition(from, to ProcessStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition advances a process, enforcing the workflow. Awarding
// additionally requires that a winner has been picked among the
// proposals.
func Transition(proc *Process, to ProcessStatus, proposals []Proposal) error {
	if !CanTransition(proc.Status, to) {
		return ErrInvalidTransition
	}
	if to == ProcessAwarded && !hasWinner(proposals) {
		return ErrNoWinner
	}
	proc.Status = to
	return nil
}

func hasWinner(proposals []Proposal) bool {
	for _, p := range proposals {
		if p.Winner {
			return true
		}
	}
	return false
}

// LowestProposal returns the index of the cheapest proposal, or -1
// when there are none. Ties keep the earliest submission.
func LowestProposal(proposals []Proposal) int {
	best := -1
	for i, p := range proposals {
		if best == -1 || p.Amount < proposals[best].Amount {
			best = i
		}
	}
	return best
}
