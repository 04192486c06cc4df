package dialect

import (
	"sync"
)

// Info describes a registered dialect for UI and API discovery.
type Info struct {
	Type        string `json:"type"`         // "trino", "postgres", "sqlserver"
	DisplayName string `json:"display_name"` // "Trino", "PostgreSQL"
	Description string `json:"description"`
}

// Registration binds a dialect type to its database/sql driver and the
// SQL construction capabilities the profiler needs. Dialects register
// themselves from init().
type Registration struct {
	Info Info

	// DriverName is the database/sql driver name engines for this
	// dialect are opened with.
	DriverName string

	// QuoteIdentifier quotes a table or column name in the dialect's
	// native style.
	QuoteIdentifier func(name string) string

	// RandomExpr is a dialect expression yielding a pseudo-random value
	// in [0, 100), used to rank rows for random sampling.
	RandomExpr string

	// WrapLimit bounds an arbitrary SELECT to at most n rows.
	WrapLimit func(sqlQuery string, n int) string

	// NaNPredicate returns an expression asserting that column does not
	// hold a NaN sentinel. Nil when the engine has no NaN test; such
	// dialects get the unfiltered base sample query.
	NaNPredicate func(column string) string

	// DecodeValue post-processes a raw result value for the given column
	// type tag. Nil means values are used as scanned.
	DecodeValue func(typeTag string, raw any) (any, error)

	// Init runs process-wide driver setup. Guaranteed to run exactly
	// once per dialect type, no matter how often the dialect is
	// registered or looked up.
	Init func()
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Registration)
	initOnce   = make(map[string]*sync.Once)
)

// Register adds a dialect to the registry and runs its Init hook once.
// Thread-safe for concurrent init() calls. Re-registering a type
// replaces the entry but never re-runs Init.
func Register(reg Registration) {
	registryMu.Lock()
	registry[reg.Info.Type] = reg
	once, ok := initOnce[reg.Info.Type]
	if !ok {
		once = &sync.Once{}
		initOnce[reg.Info.Type] = once
	}
	registryMu.Unlock()

	if reg.Init != nil {
		once.Do(reg.Init)
	}
}

// Lookup returns the registration for a dialect type.
// The second return is false if the type is not registered.
func Lookup(dialectType string) (Registration, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	reg, ok := registry[dialectType]
	return reg, ok
}

// Registered returns info for all registered dialects.
// Used by the API endpoint that tells the UI which engines are available.
func Registered() []Info {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]Info, 0, len(registry))
	for _, reg := range registry {
		result = append(result, reg.Info)
	}
	return result
}

// IsRegistered checks if a dialect type is available.
func IsRegistered(dialectType string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[dialectType]
	return ok
}
