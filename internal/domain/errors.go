package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every specific error below wraps exactly one of them so callers
// can match either the precise failure or its category.
var (
	ErrNotFound             = errors.New("not found")
	ErrCapacityExceeded     = errors.New("capacity exceeded")
	ErrAlreadyParticipating = errors.New("already participating")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrDuplicateName        = errors.New("duplicate name")
	ErrDuplicatePending     = errors.New("duplicate pending request")
	ErrInvalidInput         = errors.New("invalid input")
)

var (
	ErrUserNotFound         = fmt.Errorf("user %w", ErrNotFound)
	ErrHackathonNotFound    = fmt.Errorf("hackathon %w", ErrNotFound)
	ErrTeamNotFound         = fmt.Errorf("team %w", ErrNotFound)
	ErrCodeNotFound         = fmt.Errorf("team code %w", ErrNotFound)
	ErrNotificationNotFound = fmt.Errorf("notification %w", ErrNotFound)
	ErrInviteNotFound       = fmt.Errorf("pending invite %w", ErrNotFound)

	ErrTeamFull = fmt.Errorf("team is full: %w", ErrCapacityExceeded)

	ErrAlreadyOnTeam = fmt.Errorf("user is already on a team for this hackathon: %w", ErrAlreadyParticipating)

	ErrCreatorCannotLeave = fmt.Errorf("team creator cannot leave the team: %w", ErrPermissionDenied)
	ErrNotCreator         = fmt.Errorf("only the team creator can do this: %w", ErrPermissionDenied)
	ErrNotTeamMember      = fmt.Errorf("user is not a member of this team: %w", ErrPermissionDenied)
	ErrNotAdmin           = fmt.Errorf("admin role required: %w", ErrPermissionDenied)

	ErrTeamNameTaken = fmt.Errorf("team name is already used in this hackathon: %w", ErrDuplicateName)

	ErrJoinRequestPending = fmt.Errorf("a join request for this team is already pending: %w", ErrDuplicatePending)
	ErrInvitePending      = fmt.Errorf("an invite from this team is already pending: %w", ErrDuplicatePending)

	ErrInvalidStatus     = fmt.Errorf("invalid status: %w", ErrInvalidInput)
	ErrInvalidTransition = fmt.Errorf("status transition not allowed: %w", ErrInvalidInput)
	ErrEmptyTeamName     = fmt.Errorf("team name is required: %w", ErrInvalidInput)
)
