package sim

import (
	"fmt"
	"sync"

	"whorl/internal/zkfp"
)

func init() {
	zkfp.Register("sim", func(zkfp.Options) (zkfp.Library, error) {
		return New(), nil
	})
}

const (
	defaultMaxTemplateSize   = 2048
	defaultIdentifyThreshold = 60
	defaultDeviceCount       = 1
)

// Option customizes a simulated engine, mostly to inject faults.
type Option func(*Engine)

// WithInitStatus forces the status returned by ZKFPM_Init.
func WithInitStatus(st zkfp.Status) Option {
	return func(e *Engine) { e.initStatus = st }
}

// WithDeviceCount sets how many readers the engine pretends to have.
// Zero makes every open fail.
func WithDeviceCount(n int) Option {
	return func(e *Engine) { e.deviceCount = n }
}

// WithDBInitFailure makes ZKFPM_DBInit return a nil context.
func WithDBInitFailure() Option {
	return func(e *Engine) { e.dbInitFails = true }
}

// WithAddStatus forces the status returned by every ZKFPM_DBAdd call.
func WithAddStatus(st zkfp.Status) Option {
	return func(e *Engine) { e.addStatus = &st }
}

// WithIdentifyThreshold sets the minimum score ZKFPM_DBIdentify accepts.
func WithIdentifyThreshold(score int) Option {
	return func(e *Engine) { e.threshold = score }
}

// WithMaxTemplateSize overrides the template size limit.
func WithMaxTemplateSize(n int) Option {
	return func(e *Engine) { e.maxTemplate = n }
}

// WithoutSymbols removes entry points from the symbol table, for
// exercising binder failure paths.
func WithoutSymbols(names ...string) Option {
	return func(e *Engine) {
		for _, name := range names {
			e.missing[name] = struct{}{}
		}
	}
}

// Engine is an in-memory vendor library. It satisfies zkfp.Library.
type Engine struct {
	mu sync.Mutex

	initStatus  zkfp.Status
	deviceCount int
	dbInitFails bool
	addStatus   *zkfp.Status
	threshold   int
	maxTemplate int
	missing     map[string]struct{}

	initialized bool
	closed      bool
}

type simDevice struct {
	index int
}

type simDB struct {
	templates map[uint32][]byte
}

// New constructs a simulated engine with the given options applied.
func New(opts ...Option) *Engine {
	e := &Engine{
		initStatus:  zkfp.StatusOK,
		deviceCount: defaultDeviceCount,
		threshold:   defaultIdentifyThreshold,
		maxTemplate: defaultMaxTemplateSize,
		missing:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Symbol resolves a vendor entry point by name.
func (e *Engine) Symbol(name string) (any, error) {
	if _, gone := e.missing[name]; gone {
		return nil, fmt.Errorf("symbol %s not exported", name)
	}

	switch name {
	case zkfp.SymInit:
		return zkfp.InitFunc(e.engineInit), nil
	case zkfp.SymOpenDevice:
		return zkfp.OpenDeviceFunc(e.openDevice), nil
	case zkfp.SymDBInit:
		return zkfp.DBInitFunc(e.dbInit), nil
	case zkfp.SymDBFree:
		return zkfp.DBFreeFunc(e.dbFree), nil
	case zkfp.SymDBAdd:
		return zkfp.DBAddFunc(e.dbAdd), nil
	case zkfp.SymDBClear:
		return zkfp.DBClearFunc(e.dbClear), nil
	case zkfp.SymDBCount:
		return zkfp.DBCountFunc(e.dbCount), nil
	case zkfp.SymDBIdentify:
		return zkfp.DBIdentifyFunc(e.dbIdentify), nil
	case zkfp.SymDBDel:
		return zkfp.DBDelFunc(e.dbDel), nil
	case zkfp.SymTerminate:
		return zkfp.TerminateFunc(e.terminate), nil
	case zkfp.SymCloseDevice:
		return zkfp.CloseDeviceFunc(e.closeDevice), nil
	case zkfp.SymGetDeviceCount:
		return zkfp.GetDeviceCountFunc(e.getDeviceCount), nil
	case zkfp.SymDBMatch:
		return zkfp.DBMatchFunc(e.dbMatch), nil
	default:
		return nil, fmt.Errorf("symbol %s not exported", name)
	}
}

// Close releases the simulated library.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

func (e *Engine) engineInit() zkfp.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.initStatus.OK() {
		e.initialized = true
	}
	return e.initStatus
}

func (e *Engine) terminate() zkfp.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.initialized = false
	return zkfp.StatusOK
}

func (e *Engine) openDevice(index int) zkfp.DeviceHandle {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized || index < 0 || index >= e.deviceCount {
		return nil
	}
	return &simDevice{index: index}
}

func (e *Engine) closeDevice(device zkfp.DeviceHandle) zkfp.Status {
	if _, ok := device.(*simDevice); !ok {
		return zkfp.StatusInvalidHandle
	}
	return zkfp.StatusOK
}

func (e *Engine) getDeviceCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.deviceCount
}

func (e *Engine) dbInit() zkfp.DBHandle {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dbInitFails {
		return nil
	}
	return &simDB{templates: make(map[uint32][]byte)}
}

func (e *Engine) dbFree(db zkfp.DBHandle) zkfp.Status {
	store, ok := db.(*simDB)
	if !ok {
		return zkfp.StatusInvalidHandle
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	store.templates = nil
	return zkfp.StatusOK
}

func (e *Engine) dbAdd(db zkfp.DBHandle, id uint32, template []byte) zkfp.Status {
	store, ok := db.(*simDB)
	if !ok || store.templates == nil {
		return zkfp.StatusInvalidHandle
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.addStatus != nil {
		return *e.addStatus
	}
	if len(template) == 0 || len(template) > e.maxTemplate {
		return zkfp.StatusInvalidParam
	}
	if _, dup := store.templates[id]; dup {
		return zkfp.StatusInvalidParam
	}
	cp := make([]byte, len(template))
	copy(cp, template)
	store.templates[id] = cp
	return zkfp.StatusOK
}

func (e *Engine) dbClear(db zkfp.DBHandle) zkfp.Status {
	store, ok := db.(*simDB)
	if !ok || store.templates == nil {
		return zkfp.StatusInvalidHandle
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	store.templates = make(map[uint32][]byte)
	return zkfp.StatusOK
}

func (e *Engine) dbCount(db zkfp.DBHandle) (zkfp.Status, int) {
	store, ok := db.(*simDB)
	if !ok || store.templates == nil {
		return zkfp.StatusInvalidHandle, 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return zkfp.StatusOK, len(store.templates)
}

func (e *Engine) dbIdentify(db zkfp.DBHandle, template []byte) (zkfp.Status, uint32, int) {
	store, ok := db.(*simDB)
	if !ok || store.templates == nil {
		return zkfp.StatusInvalidHandle, 0, 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	var bestID uint32
	bestScore := -1
	for id, candidate := range store.templates {
		score := similarity(template, candidate)
		if score > bestScore || (score == bestScore && id < bestID) {
			bestID = id
			bestScore = score
		}
	}
	if bestScore < e.threshold {
		return zkfp.StatusVerify, 0, 0
	}
	return zkfp.StatusOK, bestID, bestScore
}

func (e *Engine) dbDel(db zkfp.DBHandle, id uint32) zkfp.Status {
	store, ok := db.(*simDB)
	if !ok || store.templates == nil {
		return zkfp.StatusInvalidHandle
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := store.templates[id]; !exists {
		return zkfp.StatusDelete
	}
	delete(store.templates, id)
	return zkfp.StatusOK
}

func (e *Engine) dbMatch(db zkfp.DBHandle, a, b []byte) (zkfp.Status, int) {
	if _, ok := db.(*simDB); !ok {
		return zkfp.StatusInvalidHandle, 0
	}
	if len(a) == 0 || len(b) == 0 {
		return zkfp.StatusInvalidParam, 0
	}
	return zkfp.StatusOK, similarity(a, b)
}

// similarity scores two byte slices 0-100 by the fraction of positions
// holding identical bytes, over the longer length.
func similarity(a, b []byte) int {
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 0
	}
	shortest := len(a)
	if len(b) < shortest {
		shortest = len(b)
	}
	equal := 0
	for i := 0; i < shortest; i++ {
		if a[i] == b[i] {
			equal++
		}
	}
	return equal * 100 / longest
}
