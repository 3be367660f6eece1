package types

import (
	"github.com/tbxark/pageagent/intent"
	"github.com/tbxark/pageagent/style"
)

// EditRequest carries everything an edit strategy needs to build its prompt.
type EditRequest struct {
	Intent      intent.Classification
	Document    string
	Instruction string

	// Excerpt is verbatim text copied from Document that the model may use as
	// replace targets. Nil when the strategy does not ship an excerpt.
	Excerpt []string
	// Style is the profile of the page before the edit. Nil when the strategy
	// is allowed to change the look.
	Style *style.Profile
	// MaxOps is the operation cap stated in the prompt. Zero means unstated.
	MaxOps int
	// Directive is the closing line of the user prompt.
	Directive string
	// Model overrides the router's model name for this request.
	Model string
}
