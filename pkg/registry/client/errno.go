package client

import "errors"

type Errno struct {
	Code    int
	Message string
}

func (err Errno) Error() string {
	return err.Message
}

// IsUnavailable reports whether err means the registry has no manifest to
// offer, as opposed to a failure reaching it.
func IsUnavailable(err error) bool {
	var e *Errno
	if errors.As(err, &e) {
		return e.Code != OK.Code
	}
	return false
}
