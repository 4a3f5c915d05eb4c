// Package workers runs the client's background jobs for as long as a
// context lives.
package workers

import "context"

// Worker is a background job. Run blocks until ctx is cancelled or the job
// gives up, and must release everything it started before returning.
type Worker interface {
	Run(ctx context.Context) error
}
