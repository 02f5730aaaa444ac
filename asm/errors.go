package asm

import (
	"errors"
	"fmt"
)

// Sentinel error kinds, one per row of the error taxonomy: malformed input is
// never silently tolerated, and every failure can be matched with errors.Is.
var (
	// ErrMalformedClassFile is returned when the reader detects an invalid
	// magic number, a corrupt constant pool, a truncated attribute, or an
	// out-of-range branch offset.
	ErrMalformedClassFile = errors.New("malformed class file")

	// ErrMalformedMethod is returned when a transformer detects a RET not
	// reachable from any subroutine, a recursive JSR, a return before the
	// super constructor call, or an otherwise ill-shaped method body.
	ErrMalformedMethod = errors.New("malformed method")

	// ErrUnsupportedFeature is returned when an event uses a construct
	// introduced after the visitor's declared API version.
	ErrUnsupportedFeature = errors.New("unsupported feature")

	// ErrBadDescriptor is returned when the descriptor or signature parser
	// fails on malformed input.
	ErrBadDescriptor = errors.New("bad descriptor")

	// ErrBadArgument is returned for programmer errors: out-of-range switch
	// keys, reversed tableswitch keys, incompatible casts.
	ErrBadArgument = errors.New("bad argument")

	// ErrFrameInconsistency is returned when stack-map computation cannot
	// reconcile two predecessors of the same basic block.
	ErrFrameInconsistency = errors.New("frame inconsistency")
)

// ClassFormatError wraps ErrMalformedClassFile with the byte offset at which
// the problem was detected, per spec: reader failures carry their offset.
type ClassFormatError struct {
	Offset int
	Reason string
}

func (e *ClassFormatError) Error() string {
	return fmt.Sprintf("malformed class file at offset %d: %s", e.Offset, e.Reason)
}

func (e *ClassFormatError) Unwrap() error {
	return ErrMalformedClassFile
}

func classFormatError(offset int, reason string) error {
	return &ClassFormatError{Offset: offset, Reason: reason}
}

// MethodFormatError wraps ErrMalformedMethod with the method that failed.
type MethodFormatError struct {
	Owner, Name, Descriptor string
	Reason                  string
}

func (e *MethodFormatError) Error() string {
	return fmt.Sprintf("malformed method %s.%s%s: %s", e.Owner, e.Name, e.Descriptor, e.Reason)
}

func (e *MethodFormatError) Unwrap() error {
	return ErrMalformedMethod
}

func methodFormatError(owner, name, descriptor, reason string) error {
	return &MethodFormatError{Owner: owner, Name: name, Descriptor: descriptor, Reason: reason}
}
