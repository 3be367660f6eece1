package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tbxark/pageagent/agent"
)

func newChatCmd(a *app) *cobra.Command {
	var session string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Build a page interactively in the terminal.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if session == "" {
				session = uuid.NewString()
			}
			ctx := agent.WithStateKey(cmd.Context(), session)
			cm, err := newChatModel(ctx, a.config)
			if err != nil {
				return err
			}
			flow, err := newFlow(cm, a.config)
			if err != nil {
				return err
			}
			r := &repl{
				store:   agent.NewMemoryStateStore(),
				history: agent.NewMemoryHistoryStore(agent.HistoryWindow{MaxMessages: a.config.HistoryMessages, MaxBytes: 64 << 10}),
				in:      cmd.InOrStdin(),
				out:     cmd.OutOrStdout(),
			}
			r.runner = adk.NewRunner(ctx, adk.RunnerConfig{
				Agent: agent.NewAgent(
					"PageBuilder",
					"An agent that builds and edits a single-file HTML page via conversation",
					flow,
					r.store,
				),
			})
			slog.Debug("Chat session started", "session", session)
			return r.run(ctx)
		},
	}
	cmd.Flags().StringVar(&session, "session", "", "session key (default is a random UUID)")
	return cmd
}

type repl struct {
	runner  *adk.Runner
	store   agent.StateReadWriter
	history agent.HistoryReadWriter
	in      io.Reader
	out     io.Writer
}

func (r *repl) run(ctx context.Context) error {
	reader := bufio.NewReader(r.in)
	fmt.Fprintln(r.out, "Describe the page you want to build. Commands: /show, /save <file>, /exit")
	for {
		fmt.Fprint(r.out, "you: ")
		line, err := reader.ReadString('\n')
		input := strings.TrimSpace(line)
		if input != "" {
			if done, cErr := r.handle(ctx, input); cErr != nil {
				return cErr
			} else if done {
				return nil
			}
		}
		if err != nil {
			fmt.Fprintln(r.out)
			return nil
		}
	}
}

func (r *repl) handle(ctx context.Context, input string) (bool, error) {
	switch {
	case input == "/exit":
		return true, nil
	case input == "/show":
		state, err := r.store.Load(ctx)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(r.out, state.Document)
		return false, nil
	case strings.HasPrefix(input, "/save"):
		return false, r.save(ctx, strings.TrimSpace(strings.TrimPrefix(input, "/save")))
	}

	history, err := r.history.Append(ctx, schema.UserMessage(input))
	if err != nil {
		return false, err
	}
	iter := r.runner.Run(ctx, history)
	for {
		event, ok := iter.Next()
		if !ok {
			break
		}
		if event.Err != nil {
			return false, event.Err
		}
		msg, mErr := event.Output.MessageOutput.GetMessage()
		if mErr != nil {
			return false, mErr
		}
		if _, apErr := r.history.Append(ctx, msg); apErr != nil {
			return false, apErr
		}
		if resp, ok := event.Output.CustomizedOutput.(*agent.Response); ok && resp.Mode == agent.ModeCommand && resp.Metadata["command"] == "reset" {
			_ = r.history.Clear(ctx)
		}
		fmt.Fprintf(r.out, "\nassistant: %v\n======\n", msg.Content)
	}
	return false, nil
}

func (r *repl) save(ctx context.Context, path string) error {
	if path == "" {
		fmt.Fprintln(r.out, "usage: /save <file>")
		return nil
	}
	state, err := r.store.Load(ctx)
	if err != nil {
		return err
	}
	if state.Document == "" {
		fmt.Fprintln(r.out, "Nothing to save yet.")
		return nil
	}
	if err := os.WriteFile(path, []byte(state.Document), 0o644); err != nil {
		fmt.Fprintf(r.out, "Could not save: %v\n", err)
		return nil
	}
	fmt.Fprintf(r.out, "Saved %s\n", path)
	return nil
}
