package worker

import (
	"context"
	"time"

	Logger "github.com/Luismorlan/tunemux/utils/log"
)

const (
	GracefulRetryDelay = 3 * time.Second
)

// RunModuleWithGracefulRestart keeps a module running until it returns
// without error or ctx is done.
func RunModuleWithGracefulRestart(ctx context.Context, module Module) {
	for {
		err := module.RunModule(ctx)
		if err == nil || ctx.Err() != nil {
			break
		}
		Logger.Log.Errorf(
			"Module %s exited with error %v, retry in %s",
			module.Name(),
			err,
			GracefulRetryDelay)

		// Wait for a small amount of time and restart.
		select {
		case <-time.After(GracefulRetryDelay):
		case <-ctx.Done():
			return
		}
	}
}

type Module interface {
	// RunModule contains the customized logic of the module. It takes in a
	// context object by which its lifecycle is managed. Return error if
	// encountered any error during execution.
	RunModule(ctx context.Context) error

	// Return name of the Module. Uniquely identifies the module instance. Note
	// that if there are multiple instances of the same module, each instance
	// should have a unique name instead of using the same name.
	Name() string

	// Shutdown waits for in flight work after the module's context is
	// cancelled.
	Shutdown()
}
