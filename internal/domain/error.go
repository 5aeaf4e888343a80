package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")

	// Access gate outcomes
	ErrNotMember          = errors.New("user is not a member of the required channel")
	ErrChannelUnavailable = errors.New("membership check unavailable (bot not admin in channel?)")

	// Command handling
	ErrEmptyInput       = errors.New("command requires a non-empty argument")
	ErrUnauthorized     = errors.New("command restricted to the administrator")
	ErrGenerationFailed = errors.New("text generation failed")
)
