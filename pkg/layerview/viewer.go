package layerview

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// openFile opens path with the desktop's default application.
var openFile = func(ctx context.Context, path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", path)
	case "windows":
		cmd = exec.CommandContext(ctx, "cmd", "/c", "start", "", path)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open viewer: %w", err)
	}
	return cmd.Process.Release()
}
