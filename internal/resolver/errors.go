package resolver

// BadInputError means the scanned URL itself is unusable: malformed, from a
// foreign domain, or carrying no recognizable product identifier.
type BadInputError struct {
	Reason string
}

func (e *BadInputError) Error() string {
	return e.Reason
}
