package dialogue

import (
	"context"
	"time"

	"github.com/tbxark/pageagent/intent"
)

type Outcome string

const (
	Generated     Outcome = "generated"
	Edited        Outcome = "edited"
	Undone        Outcome = "undone"
	NothingToUndo Outcome = "nothing_to_undo"
	Reset         Outcome = "reset"
	Failed        Outcome = "failed"
)

// Request describes a finished turn.
type Request struct {
	Outcome     Outcome
	Instruction string
	Intent      intent.Intent
	Applied     int
	Skipped     int
	Lines       int
	Elapsed     time.Duration
	Err         error
}

type Generator interface {
	GenerateDialogue(ctx context.Context, req *Request) (string, error)
}
