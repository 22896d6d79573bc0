package optimize

import (
	"sort"
	"sync"

	"github.com/0x4d5352/oniguru/internal/ast"
	"github.com/0x4d5352/oniguru/internal/traverse"
)

// TransformFactory builds the traverse.Visitor for one catalog entry.
// It receives the root pattern's resolved flags so a transform can gate
// itself on them (e.g. digitIsAscii suppressing the digit shorthand);
// transforms read flags but, per spec §4.5, never write them.
type TransformFactory func(flags ast.FlagSet) traverse.Visitor

type transformEntry struct {
	Name           string
	DefaultEnabled bool
	Build          TransformFactory
}

// registry mirrors the teacher's internal/flavor.Flavor registry
// (register-by-name-at-init, list/lookup-by-name, guarded by a mutex)
// generalized from "which regex dialect" to "which rewrite."
var (
	registry     = make(map[string]transformEntry)
	registryLock sync.RWMutex
)

// Register adds a transform to the catalog. Called from each
// transform file's init().
func Register(name string, defaultEnabled bool, build TransformFactory) {
	registryLock.Lock()
	defer registryLock.Unlock()
	registry[name] = transformEntry{Name: name, DefaultEnabled: defaultEnabled, Build: build}
}

func get(name string) (transformEntry, bool) {
	registryLock.RLock()
	defer registryLock.RUnlock()
	e, ok := registry[name]
	return e, ok
}

// List returns every registered transform name in sorted order.
func List() []string {
	registryLock.RLock()
	defer registryLock.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetOptionalOptimizations returns the default enable/disable map
// (spec §4.5 "getOptionalOptimizations"), with every name in disable
// forced to false regardless of its registered default.
func GetOptionalOptimizations(disable []string) map[string]bool {
	registryLock.RLock()
	defer registryLock.RUnlock()
	result := make(map[string]bool, len(registry))
	for name, e := range registry {
		result[name] = e.DefaultEnabled
	}
	for _, name := range disable {
		result[name] = false
	}
	return result
}
