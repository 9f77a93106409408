// Package flock provides cross-platform file locking utilities.
//
// The run history file and the engine artifact are shared between every
// process working on the same workspace: the CLI, the serve loop and the
// scheduled cleanup. Writers take an exclusive advisory lock on a sibling
// ".lock" file before touching them.
//
// Usage:
//
//	lock, err := flock.Acquire(ctx, historyPath+".lock", constants.LockTimeout)
//	if err != nil {
//	    return err // ErrLockTimeout or ctx.Err()
//	}
//	defer func() { _ = lock.Release() }()
package flock
