package patch

import "errors"

type OpType string

const (
	OpReplace      OpType = "replace"
	OpReplaceAll   OpType = "replace_all"
	OpInsertBefore OpType = "insert_before"
	OpInsertAfter  OpType = "insert_after"
	OpDelete       OpType = "delete"
	OpSetCSS       OpType = "set_css"
)

func (t OpType) Valid() bool {
	switch t {
	case OpReplace, OpReplaceAll, OpInsertBefore, OpInsertAfter, OpDelete, OpSetCSS:
		return true
	default:
		return false
	}
}

// Operation is one edit instruction. Target is an exact substring of the
// document, or a CSS selector for set_css. Value is absent only for delete.
type Operation struct {
	Op     OpType  `json:"op"`
	Target string  `json:"target"`
	Value  *string `json:"value,omitempty"`
}

// Response is the edit command payload produced by the model. Operations are
// applied in order, each against the result of the previous one.
type Response struct {
	Ops []Operation `json:"ops"`
}

func Empty() *Response {
	return &Response{Ops: []Operation{}}
}

func Replace(target, value string) Operation {
	return Operation{Op: OpReplace, Target: target, Value: &value}
}

func ReplaceAll(target, value string) Operation {
	return Operation{Op: OpReplaceAll, Target: target, Value: &value}
}

func InsertBefore(target, value string) Operation {
	return Operation{Op: OpInsertBefore, Target: target, Value: &value}
}

func InsertAfter(target, value string) Operation {
	return Operation{Op: OpInsertAfter, Target: target, Value: &value}
}

func Delete(target string) Operation {
	return Operation{Op: OpDelete, Target: target}
}

func SetCSS(selector, declarations string) Operation {
	return Operation{Op: OpSetCSS, Target: selector, Value: &declarations}
}

var (
	ErrInvalidResponse  = errors.New("invalid edit response")
	ErrEmptyTarget      = errors.New("empty target")
	ErrTargetNotFound   = errors.New("target not found")
	ErrAmbiguousTarget  = errors.New("target matches multiple locations")
	ErrMissingValue     = errors.New("missing value")
	ErrUnknownOperation = errors.New("unknown operation")
	ErrNoStyleAnchor    = errors.New("no <style> block or <head> tag")
	ErrInvalidCSS       = errors.New("invalid css rule")
)

type Skip struct {
	Index  int    `json:"index"`
	Op     OpType `json:"op"`
	Target string `json:"target"`
	Err    error  `json:"-"`
}

type Report struct {
	Applied int    `json:"applied"`
	Skipped []Skip `json:"skipped,omitempty"`
}
