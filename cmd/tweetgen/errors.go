package main

import "errors"

const (
	numArgsError       = "Usage: invalid number of arguments"
	filePathError      = "Error: incorrect file path"
	positiveIntError   = "Error: tweets_to_generate and max_words must be positive integers."
	seedError          = "Error: seed must be an unsigned integer."
	noStartNodeError   = "Error: No valid starting node found in the database."
	allocationErrorMsg = "Allocation failure: Failed to allocate new memory, exiting..."
)

// cliError carries the one-line message shown to the user while keeping the
// underlying cause available to errors.Is.
type cliError struct {
	msg string
	err error
}

func (e *cliError) Error() string {
	return e.msg
}

func (e *cliError) Unwrap() error {
	return e.err
}

func newCLIError(msg string, cause error) error {
	if cause == nil {
		cause = errors.New(msg)
	}
	return &cliError{msg: msg, err: cause}
}
