package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tbxark/pageagent/agent"
	"github.com/tbxark/pageagent/command"
	"github.com/tbxark/pageagent/dialogue"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type app struct {
	config *Config
	closer io.Closer
}

func newRootCmd() *cobra.Command {
	var cfgFile string
	a := &app{}
	root := &cobra.Command{
		Use:           "pagebuilder",
		Short:         "Build and edit single-file HTML pages by chatting with a model.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(viper.New(), cfgFile)
			if err != nil {
				return err
			}
			logger, closer := newLogger(cmd.ErrOrStderr(), cfg.LogFile, cfg.LogLevel)
			slog.SetDefault(logger)
			a.config = cfg
			a.closer = closer
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.closer != nil {
				return a.closer.Close()
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.json)")
	root.AddCommand(newChatCmd(a), newServeCmd(a))
	return root
}

func newChatModel(ctx context.Context, cfg *Config) (model.ToolCallingChatModel, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api_key is not set (config file or PAGEBUILDER_API_KEY)")
	}
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}
	return cm, nil
}

func newFlow(cm model.ToolCallingChatModel, cfg *Config) (*agent.PageFlow, error) {
	opts := []agent.FlowOption{agent.WithMaxRevisions(cfg.MaxRevisions)}
	if cfg.LLMIntent {
		opts = append(opts, agent.WithModelIntent())
	}
	if cfg.LLMDialogue {
		opts = append(opts, agent.WithDialogueGenerator(dialogue.NewFailbackDialogueGenerator(
			dialogue.NewToolBasedDialogueGenerator(cm),
			&dialogue.LocalDialogueGenerator{},
		)))
	}
	if cfg.LLMCommands {
		parser, err := command.NewToolBasedCommandParser(cm)
		if err != nil {
			return nil, err
		}
		opts = append(opts, agent.WithCommandParser(command.NewFailbackCommandParser(
			parser,
			command.NewLocalCommandParser(),
		)))
	}
	return agent.NewToolBasedPageFlow(cm, opts...)
}
