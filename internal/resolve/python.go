package resolve

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"time"

	"pyrefs/internal/ctxlog"
)

const sysPathScript = "import json, sys; print(json.dumps([p for p in sys.path if p]))"

// probeTimeout bounds one interpreter run.
const probeTimeout = 10 * time.Second

// SysPath asks the interpreter for its module search path and keeps the
// entries that are existing directories.
func SysPath(ctx context.Context, interpreter string) ([]string, error) {
	if interpreter == "" {
		interpreter = "python3"
	}
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, interpreter, "-c", sysPathScript)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("run %s: %w (%s)", interpreter, err, bytes.TrimSpace(stderr.Bytes()))
	}
	var paths []string
	if err := json.Unmarshal(stdout.Bytes(), &paths); err != nil {
		return nil, fmt.Errorf("decode sys.path from %s: %w", interpreter, err)
	}
	dirs := paths[:0]
	for _, p := range paths {
		if fi, err := os.Stat(p); err == nil && fi.IsDir() {
			dirs = append(dirs, p)
		}
	}
	ctxlog.FromContext(ctx).Debug("interpreter search path", "interpreter", interpreter, "dirs", len(dirs))
	return dirs, nil
}
