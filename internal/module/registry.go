// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

package module

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/tomtom215/sightmap/internal/logging"
	"github.com/tomtom215/sightmap/internal/metrics"
	"github.com/tomtom215/sightmap/internal/models"
	"github.com/tomtom215/sightmap/internal/validation"
)

// State is a candidate's position in the discovery lifecycle.
type State int

const (
	StateUnregistered State = iota
	StateDiscovered
	StateRegistered
	StateRoutable
)

func (s State) String() string {
	switch s {
	case StateDiscovered:
		return "discovered"
	case StateRegistered:
		return "registered"
	case StateRoutable:
		return "routable"
	default:
		return "unregistered"
	}
}

// RoutePrefix is prepended to every module route.
const RoutePrefix = "/m/"

// Route derives the URL path for a module ID: underscores become hyphens and
// the result is lower-cased, so "species_map" is served at "/m/species-map".
func Route(id string) string {
	return RoutePrefix + strings.ToLower(strings.ReplaceAll(id, "_", "-"))
}

// Entry is a discovered module.
type Entry struct {
	Descriptor models.ModuleDescriptor
	Module     Module
	Templates  *Renderer
	State      State
}

// Registry holds the modules found at startup. It is filled once by
// Discover and read-only afterwards.
type Registry struct {
	mu      sync.RWMutex
	entries []*Entry
	states  map[string]State
	byRoute map[string]*Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		states:  make(map[string]State),
		byRoute: make(map[string]*Entry),
	}
}

// Discover checks each candidate in order. Candidates that do not implement
// Module, carry an invalid descriptor or have broken templates are logged and
// skipped. Two candidates resolving to the same route return an error
// wrapping ErrRouteCollision; the registry must not be used after that.
func (r *Registry) Discover(candidates []Candidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range candidates {
		entry, err := r.register(c)
		if err != nil {
			if r.states[c.ID] != StateRoutable {
				r.states[c.ID] = StateUnregistered
			}
			logging.Warn().Err(err).Str("module", c.ID).Msg("Skipping module")
			continue
		}

		if existing, ok := r.byRoute[entry.Descriptor.Route]; ok {
			return fmt.Errorf("%w: %q and %q both resolve to %s",
				ErrRouteCollision, existing.Descriptor.ID, entry.Descriptor.ID, entry.Descriptor.Route)
		}

		entry.State = StateRoutable
		r.states[c.ID] = StateRoutable
		r.byRoute[entry.Descriptor.Route] = entry
		r.entries = append(r.entries, entry)

		logging.Info().
			Str("module", entry.Descriptor.ID).
			Str("route", entry.Descriptor.Route).
			Msg("Registered module")
	}

	metrics.ModulesRegistered.Set(float64(len(r.entries)))
	return nil
}

// isNil also catches a typed nil, such as a nil *T stored in the interface.
func isNil(impl Module) bool {
	if impl == nil {
		return true
	}
	v := reflect.ValueOf(impl)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Func, reflect.Chan, reflect.Slice, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

// register moves one candidate through discovered and registered.
func (r *Registry) register(c Candidate) (*Entry, error) {
	impl, ok := c.Impl.(Module)
	if !ok || isNil(impl) {
		return nil, fmt.Errorf("%w: %T", ErrMissingContract, c.Impl)
	}
	r.states[c.ID] = StateDiscovered

	desc := models.ModuleDescriptor{
		ID:          c.ID,
		Title:       impl.Title(),
		Description: impl.Description(),
		Route:       Route(c.ID),
	}
	if verr := validation.ValidateStruct(&desc); verr != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDescriptor, verr)
	}

	tmpl, err := NewRenderer(c.ID, c.Templates)
	if err != nil {
		return nil, err
	}

	r.states[c.ID] = StateRegistered
	return &Entry{Descriptor: desc, Module: impl, Templates: tmpl, State: StateRegistered}, nil
}

// Entries returns the routable entries in discovery order.
func (r *Registry) Entries() []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Entry(nil), r.entries...)
}

// Descriptors returns the descriptors of the routable entries in discovery order.
func (r *Registry) Descriptors() []models.ModuleDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.ModuleDescriptor, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Descriptor
	}
	return out
}

// Lookup finds the entry served at route.
func (r *Registry) Lookup(route string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byRoute[route]
	return e, ok
}

// StateOf reports how far a candidate ID got through discovery.
func (r *Registry) StateOf(id string) State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.states[id]
}
