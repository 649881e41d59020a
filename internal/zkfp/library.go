package zkfp

import (
	"fmt"
	"sort"
	"sync"
)

// Library is a loaded engine exposing named entry points. Symbol returns
// the entry point registered under the vendor symbol name; the binder
// asserts the concrete function type.
type Library interface {
	Symbol(name string) (any, error)
	Close() error
}

// Options carries provider construction parameters taken from config.
type Options struct {
	// LibraryPath locates the shared object for providers that load one.
	// Providers that do not need a path ignore it.
	LibraryPath string
}

// OpenFunc constructs a Library for a registered provider.
type OpenFunc func(opts Options) (Library, error)

var (
	providersMu sync.RWMutex
	providers   = make(map[string]OpenFunc)
)

// Register makes an engine provider available under the given name.
// It panics on duplicate registration, mirroring database/sql drivers:
// both are programmer errors caught at init time.
func Register(name string, open OpenFunc) {
	providersMu.Lock()
	defer providersMu.Unlock()
	if open == nil {
		panic("zkfp: Register with nil OpenFunc")
	}
	if _, dup := providers[name]; dup {
		panic("zkfp: Register called twice for provider " + name)
	}
	providers[name] = open
}

// Registered reports whether a provider with the given name is available.
func Registered(name string) bool {
	providersMu.RLock()
	defer providersMu.RUnlock()
	_, ok := providers[name]
	return ok
}

// Providers returns the names of all registered providers, sorted.
func Providers() []string {
	providersMu.RLock()
	defer providersMu.RUnlock()
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open constructs a Library from the named provider.
func Open(name string, opts Options) (Library, error) {
	providersMu.RLock()
	open, ok := providers[name]
	providersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %v)", ErrUnknownProvider, name, Providers())
	}
	lib, err := open(opts)
	if err != nil {
		return nil, fmt.Errorf("open engine provider %q: %w", name, err)
	}
	return lib, nil
}
