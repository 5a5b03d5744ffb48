// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

// Package registry maintains the card type catalogue: built-ins compiled
// into the binary, local YAML descriptors, and remotely-fetched descriptor
// sets persisted in BadgerDB.
//
// The catalogue is an immutable snapshot map swapped atomically on every
// mutation. Readers take the current snapshot under a read lock and keep
// using it without further locking, so a refresh never blocks in-flight
// renders and no reader observes a partially-updated catalogue.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cardsmith/cardsmith/internal/cardtypes"
	"github.com/cardsmith/cardsmith/internal/logging"
	"github.com/cardsmith/cardsmith/internal/metrics"
	"github.com/cardsmith/cardsmith/internal/models"
	"github.com/cardsmith/cardsmith/internal/validation"
)

// Registry holds the registered card types.
type Registry struct {
	mu       sync.RWMutex
	snapshot map[string]cardtypes.Registration
}

// New returns a registry seeded with the built-in card types.
func New() *Registry {
	snapshot := make(map[string]cardtypes.Registration)
	for _, reg := range cardtypes.Builtins() {
		snapshot[reg.Descriptor.Identifier] = reg
	}
	r := &Registry{snapshot: snapshot}
	r.publishSizes()
	return r
}

// Register adds or replaces a single card type. Re-registering an
// identifier replaces the previous entry; refresh relies on this.
func (r *Registry) Register(reg cardtypes.Registration) error {
	if reg.Descriptor.Identifier == "" {
		return fmt.Errorf("register card type: empty identifier")
	}
	if reg.Compose == nil {
		return fmt.Errorf("register card type %q: nil compose function", reg.Descriptor.Identifier)
	}

	r.mu.Lock()
	next := cloneSnapshot(r.snapshot)
	next[reg.Descriptor.Identifier] = reg
	r.snapshot = next
	r.mu.Unlock()

	r.publishSizes()
	return nil
}

// Get returns the registration for the identifier.
func (r *Registry) Get(id string) (cardtypes.Registration, bool) {
	reg, ok := r.current()[id]
	return reg, ok
}

// List returns every registered descriptor, sorted by identifier.
func (r *Registry) List() []models.CardTypeDescriptor {
	snapshot := r.current()
	out := make([]models.CardTypeDescriptor, 0, len(snapshot))
	for _, reg := range snapshot {
		out = append(out, reg.Descriptor)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identifier < out[j].Identifier })
	return out
}

// Len returns the number of registered card types.
func (r *Registry) Len() int {
	return len(r.current())
}

// ReplaceSource atomically replaces every card type from one source with
// the given set. The local scanner and the remote refresher use this so a
// re-scan drops entries whose descriptors disappeared upstream.
func (r *Registry) ReplaceSource(source models.CardTypeSource, regs []cardtypes.Registration) {
	r.mu.Lock()
	next := make(map[string]cardtypes.Registration, len(r.snapshot))
	for id, reg := range r.snapshot {
		if reg.Descriptor.Source != source {
			next[id] = reg
		}
	}
	for _, reg := range regs {
		next[reg.Descriptor.Identifier] = reg
	}
	r.snapshot = next
	r.mu.Unlock()

	r.publishSizes()
}

// AdoptDescriptors validates descs, fills profile defaults, binds each to
// its base built-in's compose function, and swaps the result in as the
// given source. Invalid descriptors are skipped with a warning, never
// fatal. Returns the number actually registered.
func (r *Registry) AdoptDescriptors(descs []models.CardTypeDescriptor, source models.CardTypeSource) int {
	regs := make([]cardtypes.Registration, 0, len(descs))
	for _, desc := range descs {
		desc.Source = source
		reg, err := r.bind(desc)
		if err != nil {
			logging.Warn().
				Err(err).
				Str("identifier", desc.Identifier).
				Str("source", string(source)).
				Msg("Skipping invalid card type descriptor")
			continue
		}
		regs = append(regs, reg)
	}
	r.ReplaceSource(source, regs)
	return len(regs)
}

// bind resolves a non-builtin descriptor against its base built-in. A
// descriptor that declares no extras inherits its base's schema so the
// base compose function keeps its documented defaults.
func (r *Registry) bind(desc models.CardTypeDescriptor) (cardtypes.Registration, error) {
	if desc.Base == "" {
		return cardtypes.Registration{}, fmt.Errorf("descriptor %q: missing base card type", desc.Identifier)
	}
	base, ok := r.Get(desc.Base)
	if !ok || base.Descriptor.Source != models.SourceBuiltin {
		return cardtypes.Registration{}, fmt.Errorf("descriptor %q: base %q is not a built-in card type", desc.Identifier, desc.Base)
	}
	if existing, ok := r.Get(desc.Identifier); ok && existing.Descriptor.Source == models.SourceBuiltin {
		return cardtypes.Registration{}, fmt.Errorf("descriptor %q: identifier collides with a built-in", desc.Identifier)
	}

	if len(desc.Extras) == 0 {
		desc.Extras = base.Descriptor.Extras
	}
	desc = cardtypes.ApplyProfile(desc)
	if verr := validation.ValidateStruct(&desc); verr != nil {
		return cardtypes.Registration{}, verr
	}
	return cardtypes.Registration{Descriptor: desc, Compose: base.Compose}, nil
}

// current returns the live snapshot. The returned map is immutable.
func (r *Registry) current() map[string]cardtypes.Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

func cloneSnapshot(s map[string]cardtypes.Registration) map[string]cardtypes.Registration {
	next := make(map[string]cardtypes.Registration, len(s)+1)
	for k, v := range s {
		next[k] = v
	}
	return next
}

// publishSizes refreshes the per-source registry size gauges.
func (r *Registry) publishSizes() {
	counts := map[models.CardTypeSource]int{
		models.SourceBuiltin: 0,
		models.SourceLocal:   0,
		models.SourceRemote:  0,
	}
	for _, reg := range r.current() {
		counts[reg.Descriptor.Source]++
	}
	for source, n := range counts {
		metrics.SetRegistryCardTypes(string(source), n)
	}
}
