package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/tbxark/pageagent/command"
	"github.com/tbxark/pageagent/dialogue"
	"github.com/tbxark/pageagent/generate"
	"github.com/tbxark/pageagent/intent"
	"github.com/tbxark/pageagent/patch"
	"github.com/tbxark/pageagent/strategy"
	"github.com/tbxark/pageagent/style"
	"github.com/tbxark/pageagent/types"
)

const defaultMaxRevisions = 20

var ErrEmptyInput = errors.New("empty user input")

// EditRouter turns a classified edit request into edit operations. It must
// never return nil.
type EditRouter interface {
	Route(ctx context.Context, req *types.EditRequest) *patch.Response
}

type flowOptions struct {
	recognizer        intent.Recognizer
	modelIntent       bool
	dialogueGenerator dialogue.Generator
	commandParser     command.Parser
	maxRevisions      int
	now               func() time.Time
}

type FlowOption func(*flowOptions)

// WithRecognizer replaces the recognizer passed to NewPageFlow.
func WithRecognizer(r intent.Recognizer) FlowOption {
	return func(o *flowOptions) {
		o.recognizer = r
	}
}

// WithModelIntent makes NewToolBasedPageFlow ask the model to classify edits
// before falling back to the local rule tables. Each edit then costs an extra
// model call.
func WithModelIntent() FlowOption {
	return func(o *flowOptions) {
		o.modelIntent = true
	}
}

func WithDialogueGenerator(g dialogue.Generator) FlowOption {
	return func(o *flowOptions) {
		o.dialogueGenerator = g
	}
}

func WithCommandParser(p command.Parser) FlowOption {
	return func(o *flowOptions) {
		o.commandParser = p
	}
}

// WithMaxRevisions bounds the undo history. Zero or less disables undo.
func WithMaxRevisions(n int) FlowOption {
	return func(o *flowOptions) {
		o.maxRevisions = n
	}
}

func withClock(now func() time.Time) FlowOption {
	return func(o *flowOptions) {
		o.now = now
	}
}

// PageFlow runs one chat turn against a page: control commands, full
// generation for an empty page, or classify, route and patch for an existing
// one.
type PageFlow struct {
	recognizer        intent.Recognizer
	router            EditRouter
	generator         generate.Generator
	dialogueGenerator dialogue.Generator
	commandParser     command.Parser
	maxRevisions      int
	now               func() time.Time
}

func NewPageFlow(
	recognizer intent.Recognizer,
	router EditRouter,
	generator generate.Generator,
	opts ...FlowOption,
) *PageFlow {
	o := flowOptions{
		dialogueGenerator: &dialogue.LocalDialogueGenerator{},
		commandParser:     command.NewLocalCommandParser(),
		maxRevisions:      defaultMaxRevisions,
		now:               time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.recognizer != nil {
		recognizer = o.recognizer
	}
	return &PageFlow{
		recognizer:        recognizer,
		router:            router,
		generator:         generator,
		dialogueGenerator: o.dialogueGenerator,
		commandParser:     o.commandParser,
		maxRevisions:      o.maxRevisions,
		now:               o.now,
	}
}

// NewToolBasedPageFlow wires the router and generator to chatModel. Edits are
// classified by the local rule tables unless WithModelIntent is given.
func NewToolBasedPageFlow(chatModel model.ToolCallingChatModel, opts ...FlowOption) (*PageFlow, error) {
	var o flowOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	var recognizer intent.Recognizer = intent.NewLocalRecognizer()
	if o.modelIntent && o.recognizer == nil {
		toolRecognizer, err := intent.NewToolBasedRecognizer(chatModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create tool-based intent recognizer: %w", err)
		}
		recognizer = intent.NewFailbackRecognizer(toolRecognizer, recognizer)
	}
	return NewPageFlow(
		recognizer,
		strategy.NewRouter(chatModel),
		generate.NewModelGenerator(chatModel),
		opts...,
	), nil
}

func (f *PageFlow) Invoke(ctx context.Context, input *Request) (*Response, error) {
	if input == nil {
		return nil, errors.New("nil request")
	}
	if input.State == nil {
		input.State = &State{}
	}
	ctx = callbacks.EnsureRunInfo(ctx, "PageFlow", "Agent")
	ctx = callbacks.OnStart(ctx, input)

	response, err := f.runInternal(ctx, input)
	if err != nil {
		callbacks.OnError(ctx, err)
		return nil, err
	}
	if response.err != nil {
		callbacks.OnError(ctx, response.err)
		return response, nil
	}
	callbacks.OnEnd(ctx, response)
	return response, nil
}

func (f *PageFlow) runInternal(ctx context.Context, input *Request) (*Response, error) {
	start := f.now()
	state := input.State

	settings, instruction, err := ApplyEnvelope(state.Settings, input.UserInput)
	if err != nil {
		slog.Warn("Ignoring settings envelope", "error", err)
	}
	state.Settings = settings
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return f.handleError(ctx, ErrEmptyInput, input, SelectMode(state.Document))
	}

	cmd, err := f.commandParser.ParseCommand(ctx, instruction)
	if err != nil {
		slog.Warn("Command parsing failed, treating input as a page request", "error", err)
		cmd = command.None
	}
	slog.Debug("Parsed command", "command", cmd)
	if cmd == command.Undo || cmd == command.Reset {
		return f.handleCommand(ctx, cmd, input)
	}

	switch SelectMode(state.Document) {
	case ModeGenerate:
		return f.runGenerate(ctx, input, instruction, start)
	default:
		return f.runEdit(ctx, input, instruction, start)
	}
}

func (f *PageFlow) runGenerate(ctx context.Context, input *Request, instruction string, start time.Time) (*Response, error) {
	state := input.State
	slog.Debug("Generating page", "instruction", instruction)
	document, err := f.generator.Generate(ctx, &generate.Request{
		Instruction: instruction,
		History:     input.ChatHistory,
		Style:       state.Style,
		Model:       state.Settings.Model,
	})
	if err != nil {
		return f.handleError(ctx, fmt.Errorf("failed to generate page: %w", err), input, ModeGenerate)
	}
	f.commit(state, document)
	state.LastIntent = nil

	lines := generate.LineCount(document)
	message, err := f.dialogueGenerator.GenerateDialogue(ctx, &dialogue.Request{
		Outcome:     dialogue.Generated,
		Instruction: instruction,
		Lines:       lines,
		Elapsed:     f.now().Sub(start),
	})
	if err != nil {
		return f.handleError(ctx, fmt.Errorf("failed to generate dialogue: %w", err), input, ModeGenerate)
	}
	slog.Info("Generated page", "lines", lines)
	return &Response{
		Message: message,
		Mode:    ModeGenerate,
		State:   state,
	}, nil
}

func (f *PageFlow) runEdit(ctx context.Context, input *Request, instruction string, start time.Time) (*Response, error) {
	state := input.State
	classification, err := f.recognizer.Recognize(ctx, instruction)
	if err != nil {
		slog.Warn("Intent recognition failed, using local rules", "error", err)
		classification = intent.Classify(instruction)
	}
	slog.Debug("Classified edit", "intent", classification.Intent, "confidence", classification.Confidence, "reasoning", classification.Reasoning)

	resp := f.router.Route(ctx, &types.EditRequest{
		Intent:      classification,
		Document:    state.Document,
		Instruction: instruction,
		Style:       state.Style,
		Model:       state.Settings.Model,
	})
	if resp == nil {
		resp = patch.Empty()
	}
	document, report := patch.Apply(state.Document, resp.Ops)
	if document != state.Document {
		f.commit(state, document)
	}
	state.LastIntent = &classification

	message, err := f.dialogueGenerator.GenerateDialogue(ctx, &dialogue.Request{
		Outcome:     dialogue.Edited,
		Instruction: instruction,
		Intent:      classification.Intent,
		Applied:     report.Applied,
		Skipped:     len(report.Skipped),
		Elapsed:     f.now().Sub(start),
	})
	if err != nil {
		return f.handleError(ctx, fmt.Errorf("failed to generate dialogue: %w", err), input, ModeEdit)
	}
	slog.Info("Edited page", "intent", classification.Intent, "applied", report.Applied, "skipped", len(report.Skipped))
	return &Response{
		Message:      message,
		Mode:         ModeEdit,
		Intent:       &classification,
		EditsApplied: report.Applied,
		EditsSkipped: len(report.Skipped),
		State:        state,
	}, nil
}

// commit replaces the document, remembering the previous one for undo.
func (f *PageFlow) commit(state *State, document string) {
	if state.Document != "" && f.maxRevisions > 0 {
		state.Revisions = append(state.Revisions, state.Document)
		if over := len(state.Revisions) - f.maxRevisions; over > 0 {
			state.Revisions = append([]string(nil), state.Revisions[over:]...)
		}
	}
	state.Document = document
	profile := style.Extract(document)
	state.Style = &profile
}

func (f *PageFlow) handleCommand(ctx context.Context, cmd command.Command, input *Request) (*Response, error) {
	state := input.State
	req := &dialogue.Request{Instruction: input.UserInput}
	switch cmd {
	case command.Undo:
		if len(state.Revisions) == 0 {
			req.Outcome = dialogue.NothingToUndo
			break
		}
		last := len(state.Revisions) - 1
		state.Document = state.Revisions[last]
		state.Revisions = state.Revisions[:last]
		profile := style.Extract(state.Document)
		state.Style = &profile
		state.LastIntent = nil
		req.Outcome = dialogue.Undone
	case command.Reset:
		input.State = &State{Settings: state.Settings}
		req.Outcome = dialogue.Reset
	}
	message, err := f.dialogueGenerator.GenerateDialogue(ctx, req)
	if err != nil {
		return f.handleError(ctx, fmt.Errorf("failed to generate dialogue: %w", err), input, ModeCommand)
	}
	return &Response{
		Message:  message,
		Mode:     ModeCommand,
		State:    input.State,
		Metadata: map[string]string{"command": string(cmd)},
	}, nil
}

func (f *PageFlow) handleError(ctx context.Context, err error, input *Request, mode Mode) (*Response, error) {
	slog.Error("Page flow failed", "mode", mode, "error", err)
	message, _ := (&dialogue.LocalDialogueGenerator{}).GenerateDialogue(ctx, &dialogue.Request{
		Outcome: dialogue.Failed,
		Err:     err,
	})
	return &Response{
		Message: message,
		Mode:    mode,
		State:   input.State,
		Metadata: map[string]string{
			"error": err.Error(),
		},
		err: err,
	}, nil
}
