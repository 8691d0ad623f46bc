// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package fault defines the error taxonomy shared by every pipeline stage.
//
// Stages never panic or exit on a broken assumption. They return an *Error
// carrying a Kind so the caller (the CLI, a test, or an orchestrator) can
// decide what to do with it.
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	// Config marks input that does not match the expected shape: an unknown
	// style/size/scale directory, an unparsable group name, a bad setting.
	Config Kind = iota + 1
	// Lookup marks a missing join target between two stage artifacts.
	Lookup
	// Invariant marks a violated hard invariant such as a placement rectangle
	// outside the canvas or a missing secondary identifier.
	Invariant
	// Transient marks a failure that may succeed when retried.
	Transient
	// Exhausted marks a transient failure that outlived its retry budget.
	Exhausted
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case Config:
		return "config"
	case Lookup:
		return "lookup"
	case Invariant:
		return "invariant"
	case Transient:
		return "transient"
	case Exhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is a classified pipeline failure.
type Error struct {
	Kind    Kind
	Op      string // stage or operation, e.g. "layout.place"
	Subject string // what the operation was working on, e.g. a page path
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Kind.String() + " error"
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Subject != "" {
		msg += " (" + e.Subject + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind && t.Op == "" && t.Subject == "" && t.Err == nil
	}
	return false
}

// New creates a classified error from a formatted message.
func New(kind Kind, op, subject, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Subject: subject, Err: fmt.Errorf(format, args...)}
}

// Wrap classifies an existing error. It returns nil when err is nil.
func Wrap(kind Kind, op, subject string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Subject: subject, Err: err}
}

// Is reports whether any error in err's chain is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	return errors.Is(err, &Error{Kind: kind})
}

// KindOf returns the kind of the first *Error in err's chain, or zero.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}
