package domain

import (
	"fmt"
	"sync"
)

// InstrumentRegistry tracks the instruments traded in this simulation in a
// thread-safe manner. Instruments are registered once at bootstrap; the
// HTTP read side uses the registry to resolve ids to display symbols.
type InstrumentRegistry struct {
	mu      sync.RWMutex
	symbols map[int]string
}

// NewInstrumentRegistry creates an empty InstrumentRegistry.
func NewInstrumentRegistry() *InstrumentRegistry {
	return &InstrumentRegistry{
		symbols: make(map[int]string),
	}
}

// Register adds an instrument with the given display symbol. An empty
// symbol gets a generated "INST-n" name. Safe for concurrent use.
func (r *InstrumentRegistry) Register(id int, symbol string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if symbol == "" {
		symbol = fmt.Sprintf("INST-%d", id)
	}
	r.symbols[id] = symbol
}

// Symbol returns the display symbol for an instrument id.
func (r *InstrumentRegistry) Symbol(id int) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.symbols[id]
	return s, ok
}

// Exists returns true if the instrument id has been registered.
func (r *InstrumentRegistry) Exists(id int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.symbols[id]
	return ok
}

// IDs returns all registered instrument ids in ascending order.
func (r *InstrumentRegistry) IDs() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]int, 0, len(r.symbols))
	for id := range r.symbols {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j] < ids[j-1]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
	return ids
}
