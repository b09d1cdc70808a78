package draft

import (
	"errors"
	"fmt"
)

// ErrConstraintViolation is the umbrella for configuration the admin has to
// fix. Every rule-specific sentinel below wraps it so callers can match the
// class with errors.Is while the message still names the broken rule.
var ErrConstraintViolation = errors.New("constraint violation")

var (
	ErrTeamCountTooSmall     = fmt.Errorf("%w: team count must be at least 2", ErrConstraintViolation)
	ErrTeamSizeTooSmall      = fmt.Errorf("%w: team size must be at least 1", ErrConstraintViolation)
	ErrUnknownParticipant    = fmt.Errorf("%w: referenced participant is not in the draft pool", ErrConstraintViolation)
	ErrDuplicatePin          = fmt.Errorf("%w: participant is pinned more than once", ErrConstraintViolation)
	ErrPinOutOfRange         = fmt.Errorf("%w: pinned team index does not exist", ErrConstraintViolation)
	ErrPinSeparationConflict = fmt.Errorf("%w: participants marked as a pair to separate cannot be pinned to the same team", ErrConstraintViolation)
	ErrInvalidSeparationPair = fmt.Errorf("%w: separation pair must reference two distinct participants", ErrConstraintViolation)
	ErrInvalidScoreWeights   = fmt.Errorf("%w: score weights must be non-negative with a positive sum", ErrConstraintViolation)
	ErrParticipantPinned     = fmt.Errorf("%w: pinned participants cannot be moved", ErrConstraintViolation)
	ErrSeparationBroken      = fmt.Errorf("%w: participants marked to separate would land on the same team", ErrConstraintViolation)
	ErrTeamFull              = fmt.Errorf("%w: team is already at capacity", ErrConstraintViolation)
)

// ErrCapacityExceeded fires when the pinned assignments alone overflow a
// team, i.e. the configuration can never produce a usable draft. A pool
// merely larger than teamCount*teamSize is not an error: the overflow
// degrades to reserves so a live admin session always gets a result.
var ErrCapacityExceeded = errors.New("capacity exceeded")

// ErrStaleVersion is the optimistic-concurrency conflict: the caller's
// last-seen version no longer matches the session. Expected under concurrent
// admin usage; refetch and retry.
var ErrStaleVersion = errors.New("stale draft version")

// ErrIncompleteDraft blocks publish while unacknowledged reserves remain.
var ErrIncompleteDraft = errors.New("draft has unacknowledged reserves")

// ErrInvalidTransition covers lifecycle misuse (e.g. swapping on a session
// that was never computed).
var ErrInvalidTransition = errors.New("invalid draft status transition")

// ErrSessionImmutable rejects any mutation after publish.
var ErrSessionImmutable = errors.New("published draft is immutable")
