package party

import "errors"

var (
	// ErrPartyNotFound - the referenced party does not exist.
	ErrPartyNotFound = errors.New("party not found")
	// ErrNotInParty - the session is not a member of any party.
	ErrNotInParty = errors.New("not in a party")
)
