package viewmodel

// UserError carries a message fit for a dialog alongside the underlying error.
type UserError struct {
	Title   string
	Message string
	Err     error
}

func (e *UserError) Error() string {
	if e.Err == nil {
		return e.Message
	}

	return e.Message + ": " + e.Err.Error()
}

func (e *UserError) Unwrap() error {
	return e.Err
}
