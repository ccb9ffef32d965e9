package core

import "context"

// Module is a service started by the run command. Run blocks until the context is done.
type Module interface {
	Run(ctx context.Context) error
}
