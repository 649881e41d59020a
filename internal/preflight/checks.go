package preflight

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"whorl/internal/config"
	"whorl/internal/roster"
	"whorl/internal/zkfp"
)

// CheckDirectoryAccess verifies the path exists, is a directory, and is
// readable, writable, and traversable.
func CheckDirectoryAccess(name, path string) Result {
	if path == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
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

// CheckProvider verifies the configured engine provider is registered.
func CheckProvider(provider string) Result {
	const name = "Engine provider"
	if provider == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	if !zkfp.Registered(provider) {
		return Result{Name: name, Detail: fmt.Sprintf("%q not registered (available: %v)", provider, zkfp.Providers())}
	}
	return Result{Name: name, Passed: true, Detail: provider}
}

// CheckDevices opens the engine and reports the attached reader count
// when the library supports it.
func CheckDevices(cfg *config.Config) Result {
	const name = "Reader devices"

	lib, err := zkfp.Open(cfg.Engine.Provider, zkfp.Options{LibraryPath: cfg.Engine.LibraryPath})
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("open engine: %v", err)}
	}
	defer lib.Close()

	caps, err := zkfp.Bind(lib)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("bind engine: %v", err)}
	}
	if st := caps.Init(); !st.OK() {
		return Result{Name: name, Detail: fmt.Sprintf("engine init: %s", st)}
	}
	if caps.Has(zkfp.SymTerminate) {
		defer func() { _, _ = caps.Terminate() }()
	}

	count, err := caps.DeviceCount()
	if err != nil {
		return Result{Name: name, Passed: true, Detail: "count not supported by engine"}
	}
	if count <= 0 {
		return Result{Name: name, Detail: "no readers attached"}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d attached", count)}
}

// CheckRoster opens the roster database and counts entries.
func CheckRoster(ctx context.Context, cfg *config.Config) Result {
	const name = "Roster database"

	store, err := roster.Open(cfg)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("open: %v", err)}
	}
	defer store.Close()

	count, err := store.Count(ctx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("count: %v", err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d enrolled)", store.Path(), count)}
}

// CheckSource verifies the ingest source file is readable.
func CheckSource(path string) Result {
	const name = "Ingest source"

	info, err := os.Stat(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}
