package agent

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	jsonpatch "github.com/evanphx/json-patch/v5"
)

// ApplyEnvelope unwraps a user turn sent as {"message": "...", ...}. Every
// field other than message is applied to settings as a JSON merge patch, so
// {"message": "hi", "model": null} clears the model override. Input that is
// not such an object is returned unchanged as the instruction.
func ApplyEnvelope(settings Settings, input string) (Settings, string, error) {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "{") {
		return settings, input, nil
	}
	var fields map[string]any
	if err := sonic.UnmarshalString(trimmed, &fields); err != nil {
		return settings, input, nil
	}
	message, ok := fields["message"].(string)
	if !ok || strings.TrimSpace(message) == "" {
		return settings, input, nil
	}
	delete(fields, "message")
	if len(fields) == 0 {
		return settings, message, nil
	}

	patch, err := sonic.Marshal(fields)
	if err != nil {
		return settings, message, fmt.Errorf("encode settings patch: %w", err)
	}
	current, err := sonic.Marshal(settings)
	if err != nil {
		return settings, message, fmt.Errorf("encode settings: %w", err)
	}
	merged, err := jsonpatch.MergePatch(current, patch)
	if err != nil {
		return settings, message, fmt.Errorf("merge settings: %w", err)
	}
	var next Settings
	if err := sonic.Unmarshal(merged, &next); err != nil {
		return settings, message, fmt.Errorf("decode settings: %w", err)
	}
	return next, message, nil
}
