// Package payload holds error types shared by the inbound payload parsers.
package payload

import "fmt"

// LookupError reports a required payload key that was absent. It indicates a
// malformed upstream payload and is not meant to be shown to users.
type LookupError struct {
	Key string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("required key %q not found", e.Key)
}
