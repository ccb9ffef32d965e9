package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/contracts"
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/runtime"
)

// Execute runs the call and commits its effects.
func (u *Usecase) Execute(ctx context.Context, call runtime.Call) (*contracts.CallResponse, error) {
	response, err := u.runtime.Execute(ctx, call)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return response, nil
}

// Simulate runs the call without committing its effects.
func (u *Usecase) Simulate(ctx context.Context, call runtime.Call) (*contracts.CallResponse, error) {
	response, err := u.runtime.Simulate(ctx, call)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return response, nil
}
