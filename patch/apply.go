package patch

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Apply runs ops against document in order. Each operation either applies
// completely or leaves the document untouched; failures are logged, reported
// and skipped, and processing continues with the next operation.
func Apply(document string, ops []Operation) (string, Report) {
	var report Report
	result := document
	for i, op := range ops {
		next, err := applyOne(result, op)
		if err != nil {
			slog.Warn("Skipping edit operation",
				"index", i,
				"op", op.Op,
				"target", preview(op.Target),
				"error", err)
			report.Skipped = append(report.Skipped, Skip{Index: i, Op: op.Op, Target: op.Target, Err: err})
			continue
		}
		result = next
		report.Applied++
	}
	slog.Debug("Applied edit operations", "applied", report.Applied, "skipped", len(report.Skipped))
	return result, report
}

func applyOne(document string, op Operation) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = document, fmt.Errorf("recover from panic: %v", r)
		}
	}()

	if op.Target == "" {
		return document, ErrEmptyTarget
	}
	if op.Op != OpDelete && op.Value == nil {
		if !op.Op.Valid() {
			return document, fmt.Errorf("%w: %q", ErrUnknownOperation, op.Op)
		}
		return document, ErrMissingValue
	}

	switch op.Op {
	case OpReplace:
		return applyReplace(document, op.Target, *op.Value)
	case OpReplaceAll:
		return applyReplaceAll(document, op.Target, *op.Value)
	case OpInsertBefore:
		return applyInsert(document, op.Target, *op.Value, false)
	case OpInsertAfter:
		return applyInsert(document, op.Target, *op.Value, true)
	case OpDelete:
		return applyDelete(document, op.Target)
	case OpSetCSS:
		return applySetCSS(document, op.Target, *op.Value)
	default:
		return document, fmt.Errorf("%w: %q", ErrUnknownOperation, op.Op)
	}
}

func applyReplace(document, target, value string) (string, error) {
	start, end, err := locate(document, target)
	if errors.Is(err, ErrTargetNotFound) {
		// Whitespace-normalized matching can only widen the match set, so an
		// exact ambiguity is never resolved by it.
		start, end, err = locateFlexible(document, target)
	}
	if err != nil {
		return document, err
	}
	return document[:start] + value + document[end:], nil
}

func applyReplaceAll(document, target, value string) (string, error) {
	if !strings.Contains(document, target) {
		return document, ErrTargetNotFound
	}
	return strings.Join(strings.Split(document, target), value), nil
}

func applyInsert(document, target, value string, after bool) (string, error) {
	start, end, err := locate(document, target)
	if err != nil {
		return document, err
	}
	at := start
	if after {
		at = end
	}
	return document[:at] + value + document[at:], nil
}

func applyDelete(document, target string) (string, error) {
	start, end, err := locate(document, target)
	if err != nil {
		return document, err
	}
	return document[:start] + document[end:], nil
}

func preview(s string) string {
	const limit = 50
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
