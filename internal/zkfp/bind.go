package zkfp

import "fmt"

// DeviceHandle is an opaque reference to an opened reader. A nil handle
// means the open failed.
type DeviceHandle any

// DBHandle is an opaque reference to an engine enrollment database
// context. A nil handle means the context could not be created.
type DBHandle any

// Vendor symbol names resolved by Bind.
const (
	SymInit       = "ZKFPM_Init"
	SymOpenDevice = "ZKFPM_OpenDevice"
	SymDBInit     = "ZKFPM_DBInit"
	SymDBFree     = "ZKFPM_DBFree"
	SymDBAdd      = "ZKFPM_DBAdd"
	SymDBClear    = "ZKFPM_DBClear"
	SymDBCount    = "ZKFPM_DBCount"
	SymDBIdentify = "ZKFPM_DBIdentify"
	SymDBDel      = "ZKFPM_DBDel"

	// Optional symbols, bound when the library exports them.
	SymTerminate      = "ZKFPM_Terminate"
	SymCloseDevice    = "ZKFPM_CloseDevice"
	SymGetDeviceCount = "ZKFPM_GetDeviceCount"
	SymDBMatch        = "ZKFPM_DBMatch"
)

// Typed signatures for the bound entry points.
type (
	InitFunc       func() Status
	OpenDeviceFunc func(index int) DeviceHandle
	DBInitFunc     func() DBHandle
	DBFreeFunc     func(db DBHandle) Status
	DBAddFunc      func(db DBHandle, id uint32, template []byte) Status
	DBClearFunc    func(db DBHandle) Status
	DBCountFunc    func(db DBHandle) (Status, int)
	DBIdentifyFunc func(db DBHandle, template []byte) (Status, uint32, int)
	DBDelFunc      func(db DBHandle, id uint32) Status

	TerminateFunc      func() Status
	CloseDeviceFunc    func(device DeviceHandle) Status
	GetDeviceCountFunc func() int
	DBMatchFunc        func(db DBHandle, a, b []byte) (Status, int)
)

// Capabilities is the immutable set of engine operations resolved from a
// Library. It is built once by Bind and never mutated afterward.
type Capabilities struct {
	init       InitFunc
	openDevice OpenDeviceFunc
	dbInit     DBInitFunc
	dbFree     DBFreeFunc
	dbAdd      DBAddFunc
	dbClear    DBClearFunc
	dbCount    DBCountFunc
	dbIdentify DBIdentifyFunc
	dbDel      DBDelFunc

	terminate   TerminateFunc
	closeDevice CloseDeviceFunc
	deviceCount GetDeviceCountFunc
	dbMatch     DBMatchFunc
}

// Bind resolves the required operation set from the library. Any missing
// or mistyped required symbol yields a *SymbolError; no partial
// capability set is ever returned.
func Bind(lib Library) (*Capabilities, error) {
	if lib == nil {
		return nil, fmt.Errorf("bind: nil library")
	}

	caps := &Capabilities{}

	if err := bindSymbol(lib, SymInit, &caps.init); err != nil {
		return nil, err
	}
	if err := bindSymbol(lib, SymOpenDevice, &caps.openDevice); err != nil {
		return nil, err
	}
	if err := bindSymbol(lib, SymDBInit, &caps.dbInit); err != nil {
		return nil, err
	}
	if err := bindSymbol(lib, SymDBFree, &caps.dbFree); err != nil {
		return nil, err
	}
	if err := bindSymbol(lib, SymDBAdd, &caps.dbAdd); err != nil {
		return nil, err
	}
	if err := bindSymbol(lib, SymDBClear, &caps.dbClear); err != nil {
		return nil, err
	}
	if err := bindSymbol(lib, SymDBCount, &caps.dbCount); err != nil {
		return nil, err
	}
	if err := bindSymbol(lib, SymDBIdentify, &caps.dbIdentify); err != nil {
		return nil, err
	}
	if err := bindSymbol(lib, SymDBDel, &caps.dbDel); err != nil {
		return nil, err
	}

	bindOptional(lib, SymTerminate, &caps.terminate)
	bindOptional(lib, SymCloseDevice, &caps.closeDevice)
	bindOptional(lib, SymGetDeviceCount, &caps.deviceCount)
	bindOptional(lib, SymDBMatch, &caps.dbMatch)

	return caps, nil
}

func bindSymbol[T any](lib Library, name string, dst *T) error {
	sym, err := lib.Symbol(name)
	if err != nil {
		return &SymbolError{Symbol: name, Err: err}
	}
	fn, ok := sym.(T)
	if !ok {
		return &SymbolError{Symbol: name, Err: fmt.Errorf("unexpected signature %T", sym)}
	}
	*dst = fn
	return nil
}

func bindOptional[T any](lib Library, name string, dst *T) {
	sym, err := lib.Symbol(name)
	if err != nil {
		return
	}
	if fn, ok := sym.(T); ok {
		*dst = fn
	}
}

// Has reports whether an optional symbol was bound. Required symbols are
// always present on a successfully bound capability set.
func (c *Capabilities) Has(symbol string) bool {
	switch symbol {
	case SymTerminate:
		return c.terminate != nil
	case SymCloseDevice:
		return c.closeDevice != nil
	case SymGetDeviceCount:
		return c.deviceCount != nil
	case SymDBMatch:
		return c.dbMatch != nil
	case SymInit, SymOpenDevice, SymDBInit, SymDBFree, SymDBAdd,
		SymDBClear, SymDBCount, SymDBIdentify, SymDBDel:
		return true
	default:
		return false
	}
}

func (c *Capabilities) Init() Status { return c.init() }

func (c *Capabilities) OpenDevice(index int) DeviceHandle { return c.openDevice(index) }

func (c *Capabilities) DBInit() DBHandle { return c.dbInit() }

func (c *Capabilities) DBFree(db DBHandle) Status { return c.dbFree(db) }

func (c *Capabilities) DBAdd(db DBHandle, id uint32, template []byte) Status {
	return c.dbAdd(db, id, template)
}

func (c *Capabilities) DBClear(db DBHandle) Status { return c.dbClear(db) }

func (c *Capabilities) DBCount(db DBHandle) (Status, int) { return c.dbCount(db) }

func (c *Capabilities) DBIdentify(db DBHandle, template []byte) (Status, uint32, int) {
	return c.dbIdentify(db, template)
}

func (c *Capabilities) DBDel(db DBHandle, id uint32) Status { return c.dbDel(db, id) }

// Terminate invokes the optional engine shutdown entry point.
func (c *Capabilities) Terminate() (Status, error) {
	if c.terminate == nil {
		return StatusOther, fmt.Errorf("%s: %w", SymTerminate, ErrNotSupported)
	}
	return c.terminate(), nil
}

// CloseDevice invokes the optional device release entry point.
func (c *Capabilities) CloseDevice(device DeviceHandle) (Status, error) {
	if c.closeDevice == nil {
		return StatusOther, fmt.Errorf("%s: %w", SymCloseDevice, ErrNotSupported)
	}
	return c.closeDevice(device), nil
}

// DeviceCount reports the number of attached readers when the library
// exports ZKFPM_GetDeviceCount.
func (c *Capabilities) DeviceCount() (int, error) {
	if c.deviceCount == nil {
		return 0, fmt.Errorf("%s: %w", SymGetDeviceCount, ErrNotSupported)
	}
	return c.deviceCount(), nil
}

// DBMatch scores two templates 1:1 when the library exports ZKFPM_DBMatch.
func (c *Capabilities) DBMatch(db DBHandle, a, b []byte) (Status, int, error) {
	if c.dbMatch == nil {
		return StatusOther, 0, fmt.Errorf("%s: %w", SymDBMatch, ErrNotSupported)
	}
	st, score := c.dbMatch(db, a, b)
	return st, score, nil
}
