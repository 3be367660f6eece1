package dialogue

import (
	"fmt"
	"strings"
)

func formatUserInputSection(instruction string) string {
	if instruction == "" {
		return ""
	}
	return fmt.Sprintf("# User request:\n%s", instruction)
}

func formatResultSection(req *Request) string {
	var sb strings.Builder
	sb.WriteString("# Result:\n")
	sb.WriteString(fmt.Sprintf("- outcome: %s\n", req.Outcome))
	if req.Intent != "" {
		sb.WriteString(fmt.Sprintf("- edit kind: %s\n", req.Intent))
	}
	if req.Outcome == Edited {
		sb.WriteString(fmt.Sprintf("- changes applied: %d\n", req.Applied))
		sb.WriteString(fmt.Sprintf("- changes skipped: %d\n", req.Skipped))
	}
	if req.Lines > 0 {
		sb.WriteString(fmt.Sprintf("- page lines: %d\n", req.Lines))
	}
	if req.Err != nil {
		sb.WriteString(fmt.Sprintf("- error: %s\n", req.Err))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatRequest(req *Request) string {
	sections := make([]string, 0, 2)
	if s := formatUserInputSection(req.Instruction); s != "" {
		sections = append(sections, s)
	}
	sections = append(sections, formatResultSection(req))
	return strings.Join(sections, "\n\n")
}
