package services

import (
	"errors"
	"fmt"
)

// Parse error kinds. Match with errors.Is.
var (
	ErrInvalidItemFormat = errors.New("invalid item format")
	ErrInvalidExterior   = errors.New("invalid exterior")
	ErrInvalidNumber     = errors.New("invalid number")
)

// ErrInconsistentStore means a key returned by ListKeys could not be loaded.
var ErrInconsistentStore = errors.New("listing not found in store")

const (
	expectedItemFormat = "expected `name | kind (exterior) #id` or `name (Vanilla) #id` or `(売約済み) #id`"
	expectedPrice      = "expected `販売価格: 1,234円`"
	expectedExterior   = "expected `FN`, `MW`, `FT`, `WW` or `BS`"
)

// ParseError describes why one catalog block could not be parsed.
type ParseError struct {
	Kind     error
	Input    string
	expected string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v `%s`: %v", e.Kind, e.Input, e.Err)
	}
	return fmt.Sprintf("%v (%s, found `%s`)", e.Kind, e.expected, e.Input)
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func invalidItemFormat(line string) error {
	return &ParseError{Kind: ErrInvalidItemFormat, Input: line, expected: expectedItemFormat}
}

func invalidPrice(line string) error {
	return &ParseError{Kind: ErrInvalidItemFormat, Input: line, expected: expectedPrice}
}

func invalidExterior(value string) error {
	return &ParseError{Kind: ErrInvalidExterior, Input: value, expected: expectedExterior}
}

func invalidNumber(digits string, err error) error {
	return &ParseError{Kind: ErrInvalidNumber, Input: digits, Err: err}
}
