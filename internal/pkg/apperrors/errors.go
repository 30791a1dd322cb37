// Package apperrors defines the error taxonomy shared by the chat pipeline and
// the bulk Q&A generator. Callers match on Kind with errors.As / KindOf instead
// of string comparison.
package apperrors

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	// KindNotFound: session / user / portfolio absent or not accessible.
	// Surfaced to the caller, request aborted, no partial state written.
	KindNotFound
	// KindUpstream: embedding / generation / store call failed or timed out.
	// Fatal for the current conversation turn; isolated per item in bulk generation.
	KindUpstream
	// KindParse: structured generation output did not conform to the schema,
	// even after the single self-correction retry.
	KindParse
	// KindCompaction: context summarization failed. Non-fatal; the turn is
	// kept and compaction is retried on a later turn.
	KindCompaction
	// KindConflict: the operation is not valid for the current state of the
	// record, e.g. starting bulk generation on an unconfirmed portfolio.
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUpstream:
		return "upstream_failure"
	case KindParse:
		return "parse_failure"
	case KindCompaction:
		return "compaction_failure"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Error wraps an underlying cause with a taxonomy kind.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

func Conflict(msg string) error {
	return &Error{Kind: KindConflict, Msg: msg}
}

func Upstream(msg string, err error) error {
	return &Error{Kind: KindUpstream, Msg: msg, Err: err}
}

func Parse(msg string, err error) error {
	return &Error{Kind: KindParse, Msg: msg, Err: err}
}

func Compaction(msg string, err error) error {
	return &Error{Kind: KindCompaction, Msg: msg, Err: err}
}

// KindOf returns the taxonomy kind of err, or KindUnknown if err does not
// carry one anywhere in its chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
