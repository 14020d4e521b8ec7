package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/guyvdb/recstore/fault"
	"github.com/guyvdb/recstore/persist"
	"github.com/guyvdb/recstore/recordstore"
	"github.com/guyvdb/recstore/store"
)

var _ Registry = (*Catalog)(nil)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Catalog implements Registry. Unlike the stores it holds, a Catalog is safe
// for concurrent readers; registration takes the write lock.
type Catalog struct {
	mu      sync.RWMutex
	sources []Source // registration order
	byName  map[string]Source
	refs    []Reference
}

func NewCatalog() *Catalog {
	slog.Debug("NewCatalog - create catalog")
	return &Catalog{byName: make(map[string]Source)}
}

func (c *Catalog) Register(src Source) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	name := src.Entity()
	if _, exists := c.byName[name]; exists {
		return fmt.Errorf("%s: %w", name, fault.ErrSourceExists)
	}
	c.sources = append(c.sources, src)
	c.byName[name] = src

	slog.Debug("Catalog.Register", "entity", name)
	return nil
}

func (c *Catalog) Reference(ref Reference) error {
	if err := validate.Struct(ref); err != nil {
		return fmt.Errorf("reference %s.%s: %w: %w", ref.From, ref.Field, fault.ErrConfiguration, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, name := range []string{ref.From, ref.To} {
		if _, ok := c.byName[name]; !ok {
			return fmt.Errorf("reference %s.%s -> %s: %s: %w", ref.From, ref.Field, ref.To, name, fault.ErrSourceNotFound)
		}
	}
	c.refs = append(c.refs, ref)
	return nil
}

func (c *Catalog) Source(entity string) (Source, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	src, ok := c.byName[entity]
	if !ok {
		return nil, fmt.Errorf("%s: %w", entity, fault.ErrSourceNotFound)
	}
	return src, nil
}

// Names returns the registered entities in registration order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, len(c.sources))
	for i, src := range c.sources {
		names[i] = src.Entity()
	}
	return names
}

func (c *Catalog) Get(entity string, key any) (store.Record, error) {
	src, err := c.Source(entity)
	if err != nil {
		return nil, err
	}
	return src.Get(key)
}

func (c *Catalog) List(entity string) ([]store.Record, error) {
	src, err := c.Source(entity)
	if err != nil {
		return nil, err
	}
	return src.List(), nil
}

func (c *Catalog) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var errs []error
	for _, src := range c.sources {
		if err := src.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, ref := range c.refs {
		errs = append(errs, c.checkReference(ref)...)
	}

	slog.Debug("Catalog.Validate", "sources", len(c.sources), "references", len(c.refs), "failures", len(errs))
	return errors.Join(errs...)
}

func (c *Catalog) checkReference(ref Reference) []error {
	from, to := c.byName[ref.From], c.byName[ref.To]

	var errs []error
	for _, r := range from.List() {
		v, present := r[ref.Field]
		if !present || v == nil {
			if !ref.Optional {
				errs = append(errs, &fault.EntityError{Entity: ref.From, Key: r[from.KeyField()], Op: "reference",
					Err: fmt.Errorf("%s is empty: %w", ref.Field, fault.ErrDanglingReference)})
			}
			continue
		}

		targets := []any{v}
		if list, ok := v.([]any); ok {
			targets = list
		}
		for _, target := range targets {
			if _, err := to.Get(target); err != nil {
				errs = append(errs, &fault.EntityError{Entity: ref.From, Key: r[from.KeyField()], Op: "reference",
					Err: fmt.Errorf("%s %v has no %s: %w", ref.Field, target, ref.To, fault.ErrDanglingReference)})
			}
		}
	}
	return errs
}

// LoadAll loads one store per config. Nothing is registered unless every
// store loads.
func (c *Catalog) LoadAll(backend persist.Backend, cfgs ...recordstore.Config) error {
	loaded := make([]Source, 0, len(cfgs))
	for _, cfg := range cfgs {
		s, err := recordstore.Load(cfg, backend)
		if err != nil {
			return err
		}
		loaded = append(loaded, s)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[string]bool, len(loaded))
	for _, s := range loaded {
		if _, exists := c.byName[s.Entity()]; exists || seen[s.Entity()] {
			return fmt.Errorf("%s: %w", s.Entity(), fault.ErrSourceExists)
		}
		seen[s.Entity()] = true
	}
	for _, s := range loaded {
		c.sources = append(c.sources, s)
		c.byName[s.Entity()] = s
	}
	return nil
}
