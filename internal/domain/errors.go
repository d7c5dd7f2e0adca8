package domain

import "errors"

// Domain errors are returned to the caller as-is and never retried
// internally; only ErrStoreUnavailable signals a transient condition.
var (
	ErrSelfMatch         = errors.New("you cannot request a match with yourself")
	ErrDuplicatePending  = errors.New("a pending match with this teacher for this skill already exists")
	ErrNotAuthorized     = errors.New("you are not allowed to perform this action")
	ErrInvalidTransition = errors.New("the match state does not allow this transition")
	ErrNotParticipant    = errors.New("you are not a participant of this match")
	ErrChannelNotOpen    = errors.New("messaging opens once the teacher has accepted the match")
	ErrNotFound          = errors.New("requested record not found")
	ErrStoreUnavailable  = errors.New("data store unavailable, please retry shortly")
)
