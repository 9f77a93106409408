//go:build !unix

package runner

import "os/exec"

// killProcessGroup keeps the default cancellation, which kills only the
// engine process.
func killProcessGroup(*exec.Cmd) {}
