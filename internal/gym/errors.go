package gym

import "errors"

// Precondition errors. These are caller bugs, never runtime conditions.
var (
	ErrMissingOwnerID    = errors.New("missing owner id")
	ErrMissingTemplateID = errors.New("missing template id")
	ErrMissingSessionID  = errors.New("missing session id")
	ErrMissingPlanID     = errors.New("missing plan id")
)
