package chat

import "fmt"

// ValidationError rejects a turn before any collaborator is called.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConfigurationError means a required API key is missing for the requested
// operation. It is reported before any network call and names the key.
type ConfigurationError struct {
	Key string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing API key: %s", e.Key)
}
