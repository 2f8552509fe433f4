package view

import (
	"context"
	"time"
)

const (
	dbTimeout = 5 * time.Second
	// interactiveTimeout bounds operations that may wait for a dialog answer.
	interactiveTimeout = 10 * time.Minute
)

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

func interactiveCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), interactiveTimeout)
}
