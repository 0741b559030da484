package service

import "errors"

// Error taxonomy shared by all operations. Read paths degrade to
// empty/nil results on ErrUnauthenticated and ErrNotAMember; write paths
// surface every condition to the caller.
var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrNotAMember       = errors.New("not a member of this workspace")
	ErrInsufficientRole = errors.New("insufficient role")
	ErrNotAuthor        = errors.New("not the author of this resource")
	ErrNotFound         = errors.New("not found")
	ErrParentNotFound   = errors.New("parent message not found")
)

// failSoft reports whether a read should swallow the error and return an
// empty result instead.
func failSoft(err error) bool {
	return errors.Is(err, ErrUnauthenticated) || errors.Is(err, ErrNotAMember)
}
