package core

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry   = make(map[string]KindDefinition)
	registryMu sync.RWMutex
)

// Register adds a kind definition to the registry.
// Panics if a kind with the same key is already registered or if an alias
// resolves to two different canonical keys.
func Register(def KindDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Info.Key]; exists {
		panic(fmt.Sprintf("kind already registered: %s", def.Info.Key))
	}

	// Headers always follow FieldSpecs so export columns and values line up
	def.Info.Headers = make([]string, len(def.FieldSpecs))
	for i, spec := range def.FieldSpecs {
		def.Info.Headers[i] = spec.Label
	}

	aliases, err := buildAliasTable(def.FieldSpecs)
	if err != nil {
		panic(fmt.Sprintf("kind %s: %v", def.Info.Key, err))
	}

	registry[def.Info.Key] = def
	aliasTables[def.Info.Key] = aliases
}

// Get returns a kind definition by key.
// Returns false if not found.
func Get(key string) (KindDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// MustGet returns a kind definition or an error wrapping ErrUnknownKind.
func MustGet(key string) (KindDefinition, error) {
	def, ok := Get(key)
	if !ok {
		return KindDefinition{}, fmt.Errorf("%w: %s", ErrUnknownKind, key)
	}
	return def, nil
}

// All returns all registered kind definitions sorted by key.
func All() []KindDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]KindDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Info.Key < result[j].Info.Key
	})

	return result
}

// KindCount returns the number of registered kinds.
func KindCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered kinds.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]KindDefinition)
	aliasTables = make(map[string]map[string]string)
}
