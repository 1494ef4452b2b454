package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"

	"par/internal/artist"
	"par/internal/queue"
	"par/internal/remote"
	"par/internal/store"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies the filesystem holding path has at least minBytes free.
func CheckFreeSpace(name, path string, minBytes uint64) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	detail := fmt.Sprintf("%s (%s free)", path, humanize.IBytes(free))
	if free < minBytes {
		return Result{Name: name, Detail: detail + " below minimum"}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckProviderBinary verifies the provider helper can be found and executed.
func CheckProviderBinary(binary string) Result {
	const name = "Provider helper"

	binary = strings.TrimSpace(binary)
	if binary == "" {
		return Result{Name: name, Detail: "command not configured"}
	}
	resolved, err := exec.LookPath(binary)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("binary %q not found", binary)}
	}
	return Result{Name: name, Passed: true, Detail: resolved}
}

// CheckProvider makes one cheap round trip to the provider. It uses a
// 10-second timeout and a single attempt.
func CheckProvider(ctx context.Context, provider remote.Provider) Result {
	const name = "Provider"

	if provider == nil {
		return Result{Name: name, Detail: "not configured"}
	}
	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	ok, err := provider.ValidateTimezone(checkCtx, artist.DefaultTimezone)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Result{Name: name, Detail: "health check timed out (provider unresponsive)"}
		}
		return Result{Name: name, Detail: err.Error()}
	}
	if !ok {
		return Result{Name: name, Detail: fmt.Sprintf("responded but rejected timezone %q", artist.DefaultTimezone)}
	}
	return Result{Name: name, Passed: true, Detail: "reachable"}
}

// CheckStore reports whether the queue can be loaded from st.
func CheckStore(ctx context.Context, st *store.Store) Result {
	const name = "Queue store"

	if st == nil {
		return Result{Name: name, Detail: "store not open"}
	}
	q, err := queue.Load(ctx, st, nil)
	switch {
	case errors.Is(err, queue.ErrAbsent):
		return Result{Name: name, Passed: true, Detail: "no queue yet (built on first review)"}
	case err != nil:
		return Result{Name: name, Detail: fmt.Sprintf("%v (run 'par reset')", err)}
	}
	reviewed, remaining := q.Counts()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d reviewed, %d remaining", reviewed, remaining)}
}
