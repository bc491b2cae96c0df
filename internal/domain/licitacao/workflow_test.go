package licitacao

import "testing"

func TestWorkflowHappyPath(t *testing.T) {
	proc := &Process{Status: ProcessDraft}
	proposals := []Proposal{{Supplier: "Construtora A", Amount: 100, Winner: true}}

	for _, next := range []ProcessStatus{ProcessPublished, ProcessUnderReview, ProcessAwarded} {
		if err := Transition(proc, next, proposals); err != nil {
			t.Fatalf("transition to %s failed: %v", next, err)
		}
	}
	if proc.Status != ProcessAwarded {
		t.Fatalf("expected awarded, got %s", proc.Status)
	}
}

func TestWorkflowRejectsSkips(t *testing.T) {
	proc := &Process{Status: ProcessDraft}
	if err := Transition(proc, ProcessAwarded, nil); err != ErrInvalidTransition {
		t.Fatalf("draft cannot award directly, got %v", err)
	}
	if proc.Status != ProcessDraft {
		t.Fatalf("failed transition must not mutate status, got %s", proc.Status)
	}
}

func TestAwardedAndCancelledAreTerminal(t *testing.T) {
	for _, terminal := range []ProcessStatus{ProcessAwarded, ProcessCancelled} {
		proc := &Process{Status: terminal}
		for _, next := range []ProcessStatus{ProcessDraft, ProcessPublished, ProcessUnderReview, ProcessAwarded, ProcessCancelled} {
			if CanTransition(proc.Status, next) {
				t.Fatalf("%s must be terminal, allowed %s", terminal, next)
			}
		}
	}
}

func TestAwardRequiresWinner(t *testing.T) {
	proc := &Process{Status: ProcessUnderReview}
	proposals := []Proposal{{Supplier: "Construtora A", Amount: 100}}
	if err := Transition(proc, ProcessAwarded, proposals); err != ErrNoWinner {
		t.Fatalf("expected ErrNoWinner, got %v", err)
	}
}

func TestCancelAllowedBeforeAward(t *testing.T) {
	for _, from := range []ProcessStatus{ProcessDraft, ProcessPublished, ProcessUnderReview} {
		proc := &Process{Status: from}
		if err := Transition(proc, ProcessCancelled, nil); err != nil {
			t.Fatalf("cancel from %s failed: %v", from, err)
		}
	}
}

func TestLowestProposal(t *testing.T) {
	proposals := []Proposal{
		{Supplier: "A", Amount: 300},
		{Supplier: "B", Amount: 150},
		{Supplier: "C", Amount: 150},
	}
	if got := LowestProposal(proposals); got != 1 {
		t.Fatalf("ties keep earliest submission, got index %d", got)
	}
	if got := LowestProposal(nil); got != -1 {
		t.Fatalf("no proposals should return -1, got %d", got)
	}
}
