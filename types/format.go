package types

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/tbxark/pageagent/style"
)

func formatExcerptSection(excerpt []string) string {
	if len(excerpt) == 0 {
		return ""
	}
	var buf strings.Builder
	buf.WriteString("# Verbatim text in the document:\n")
	for _, text := range excerpt {
		buf.WriteString("- ")
		buf.WriteString(text)
		buf.WriteString("\n")
	}
	return strings.TrimRight(buf.String(), "\n")
}

func formatStyleSection(profile *style.Profile) string {
	if profile == nil || profile.IsZero() {
		return ""
	}
	var buf strings.Builder
	buf.WriteString("# Style consistency requirements:\n")
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Attribute", "Keep")
	for _, attr := range profile.Attributes() {
		_ = table.Append(attr[0], attr[1])
	}
	_ = table.Render()
	for _, hint := range profile.Hints() {
		buf.WriteString("- ")
		buf.WriteString(hint)
		buf.WriteString("\n")
	}
	return strings.TrimRight(buf.String(), "\n")
}

// FormatEditRequest renders the user prompt of an edit request.
func FormatEditRequest(req *EditRequest) string {
	sections := []string{
		fmt.Sprintf("# Current HTML:\n```html\n%s\n```", req.Document),
	}
	if s := formatExcerptSection(req.Excerpt); s != "" {
		sections = append(sections, s)
	}
	if s := formatStyleSection(req.Style); s != "" {
		sections = append(sections, s)
	}
	if req.Intent.Intent != "" {
		sections = append(sections, fmt.Sprintf("# Edit intent:\n%s (confidence %.2f)", req.Intent.Intent, req.Intent.Confidence))
	}
	sections = append(sections, fmt.Sprintf("# User request:\n%s", req.Instruction))
	if req.MaxOps > 0 {
		sections = append(sections, fmt.Sprintf("# Limits:\nReturn at most %d operations.", req.MaxOps))
	}
	if req.Directive != "" {
		sections = append(sections, req.Directive)
	}
	return strings.Join(sections, "\n\n")
}
