package usecase

import (
	"github.com/gaze-network/alkanes-indexer/modules/alkanes/runtime"
)

type Usecase struct {
	runtime *runtime.Runtime
}

func New(runtime *runtime.Runtime) *Usecase {
	return &Usecase{
		runtime: runtime,
	}
}
