package main

import "errors"

var (
	// ErrStorageFull indicates a record could not be persisted even after
	// stripping its oversized payload.
	ErrStorageFull = errors.New("storage quota exceeded")
	// ErrAlreadyContributed indicates a duplicate contribution to a study.
	ErrAlreadyContributed = errors.New("you have already contributed to this study")
	// ErrBountyNotFound indicates an unknown bounty id.
	ErrBountyNotFound = errors.New("study not found")
	// ErrPredicateNotMet occurs when a proof predicate does not hold.
	ErrPredicateNotMet = errors.New("proof generation failed: condition not met")
	// ErrAttributeNotFound occurs when a credential lacks the attribute a
	// proof asks about.
	ErrAttributeNotFound = errors.New("attribute not found in credential")
	// ErrStressTooLow occurs when a distress signal is posted below the
	// required stress level.
	ErrStressTooLow = errors.New("proof failed: stress level too low for distress signal")
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
)
