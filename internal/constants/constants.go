package constants

import "time"

// Context keys used to pass loaded resources between middleware and handlers.
const (
	ContextKeyProject = "project"
	ContextKeyTask    = "task"
)

// Pagination bounds
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Invite code settings. Codes are drawn from an alphanumeric alphabet and
// must be unique among live invites only; redeemed or expired invites free
// their code.
const (
	InviteCodeLength   = 10
	InviteCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	DefaultInviteTTL          = 24 * time.Hour
	DefaultInviteReapInterval = 15 * time.Minute

	// MaxInviteCodeAttempts bounds regeneration when a generated code
	// collides with a live invite.
	MaxInviteCodeAttempts = 5
)
