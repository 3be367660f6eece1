package testcases

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/tbxark/pageagent/agent"
)

type Config struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
}

func loadConfig(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var conf Config
	err = json.Unmarshal(file, &conf)
	if err != nil {
		return nil, err
	}
	return &conf, nil
}

func InitChatModel(t *testing.T) *openai.ChatModel {
	if os.Getenv("PAGEAGENT_RUN_LIVE_TESTS") != "1" {
		t.Skip("set PAGEAGENT_RUN_LIVE_TESTS=1 to run live LLM tests")
		return nil
	}

	ctx := context.Background()
	conf, err := loadConfig("../config.json")
	if err != nil {
		t.Skipf("failed to load config: %v", err)
		return nil
	}
	if conf.APIKey == "" {
		t.Skip("config.json api_key is empty")
		return nil
	}
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  conf.APIKey,
		Model:   conf.Model,
		BaseURL: conf.BaseURL,
	})
	if err != nil {
		t.Fatalf("failed to init chat model: %v", err)
		return nil
	}
	return chatModel
}

// Session drives one page across several turns.
type Session struct {
	t     *testing.T
	flow  *agent.PageFlow
	State *agent.State
}

func NewTestSession(t *testing.T, opts ...agent.FlowOption) *Session {
	chatModel := InitChatModel(t)
	if chatModel == nil {
		return nil
	}
	flow, err := agent.NewToolBasedPageFlow(chatModel, opts...)
	if err != nil {
		t.Fatalf("create page flow failed: %v", err)
	}
	return &Session{t: t, flow: flow, State: &agent.State{}}
}

// Say sends one user turn and fails the test on a flow error.
func (s *Session) Say(ctx context.Context, input string) *agent.Response {
	s.t.Helper()
	resp, err := s.flow.Invoke(ctx, &agent.Request{State: s.State, UserInput: input})
	if err != nil {
		s.t.Fatalf("invoke %q failed: %v", input, err)
	}
	if rErr := resp.Err(); rErr != nil {
		s.t.Fatalf("turn %q failed: %v", input, rErr)
	}
	s.State = resp.State
	s.t.Logf("%s turn: %s", resp.Mode, resp.Message)
	return resp
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{BaseURL:%q, Model:%q}", c.BaseURL, c.Model)
}
