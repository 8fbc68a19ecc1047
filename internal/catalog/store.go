package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Store persists the catalog
type Store interface {
	GetReferencia(ctx context.Context, id string) (*Referencia, error)
	SaveReferencia(ctx context.Context, ref *Referencia) error
	GetCaja(ctx context.Context, id string) (*Caja, error)
	SaveCaja(ctx context.Context, caja *Caja) error
	ListCajas(ctx context.Context) ([]Caja, error)

	// SetArchivoPDF records the converted PDF of a box
	SetArchivoPDF(ctx context.Context, id, path string) error

	// SetDimensions2D assigns both 2D fields in one step. A nil dims
	// clears both.
	SetDimensions2D(ctx context.Context, id string, dims *Dimensions2D) error
}

// snapshot is the serialisable state of a store
type snapshot struct {
	Referencias []Referencia `yaml:"referencias"`
	Cajas       []Caja       `yaml:"cajas"`
}

// MemoryStore keeps the catalog in memory. It is safe for concurrent use.
type MemoryStore struct {
	mu          sync.RWMutex
	referencias map[string]Referencia
	cajas       map[string]Caja

	// commit persists a mutation; a failing commit rolls the change back
	commit func(snapshot) error
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		referencias: make(map[string]Referencia),
		cajas:       make(map[string]Caja),
	}
}

func (s *MemoryStore) load(snap snapshot) {
	for _, r := range snap.Referencias {
		s.referencias[r.ID] = r
	}
	for _, c := range snap.Cajas {
		s.cajas[c.ID] = c
	}
}

// snapshotLocked returns a copy sorted by ID. The caller holds mu.
func (s *MemoryStore) snapshotLocked() snapshot {
	snap := snapshot{
		Referencias: make([]Referencia, 0, len(s.referencias)),
		Cajas:       make([]Caja, 0, len(s.cajas)),
	}
	for _, r := range s.referencias {
		snap.Referencias = append(snap.Referencias, r)
	}
	for _, c := range s.cajas {
		snap.Cajas = append(snap.Cajas, c.clone())
	}
	sort.Slice(snap.Referencias, func(i, j int) bool { return snap.Referencias[i].ID < snap.Referencias[j].ID })
	sort.Slice(snap.Cajas, func(i, j int) bool { return snap.Cajas[i].ID < snap.Cajas[j].ID })
	return snap
}

func (s *MemoryStore) persistLocked() error {
	if s.commit == nil {
		return nil
	}
	return s.commit(s.snapshotLocked())
}

// GetReferencia returns a copy of the reference product
func (s *MemoryStore) GetReferencia(ctx context.Context, id string) (*Referencia, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.referencias[id]
	if !ok {
		return nil, fmt.Errorf("referencia %s: %w", id, ErrNotFound)
	}
	return &r, nil
}

// SaveReferencia inserts or replaces a reference product, assigning an ID
// when empty
func (s *MemoryStore) SaveReferencia(ctx context.Context, ref *Referencia) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ref.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if ref.ID == "" {
		ref.ID = uuid.NewString()
	}
	prev, existed := s.referencias[ref.ID]
	s.referencias[ref.ID] = *ref

	if err := s.persistLocked(); err != nil {
		if existed {
			s.referencias[ref.ID] = prev
		} else {
			delete(s.referencias, ref.ID)
		}
		return err
	}
	return nil
}

// GetCaja returns a copy of the box
func (s *MemoryStore) GetCaja(ctx context.Context, id string) (*Caja, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.cajas[id]
	if !ok {
		return nil, fmt.Errorf("caja %s: %w", id, ErrNotFound)
	}
	c = c.clone()
	return &c, nil
}

// SaveCaja inserts or replaces a box, assigning an ID when empty. The
// referenced product must exist.
func (s *MemoryStore) SaveCaja(ctx context.Context, caja *Caja) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := caja.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.referencias[caja.ReferenciaID]; !ok {
		return fmt.Errorf("%w: referencia %s does not exist", ErrInvalid, caja.ReferenciaID)
	}

	if caja.ID == "" {
		caja.ID = uuid.NewString()
	}
	return s.updateLocked(caja.ID, func(c *Caja) { *c = caja.clone() }, true)
}

// ListCajas returns every box ordered by ID
func (s *MemoryStore) ListCajas(ctx context.Context) ([]Caja, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked().Cajas, nil
}

// SetArchivoPDF records the converted PDF of a box
func (s *MemoryStore) SetArchivoPDF(ctx context.Context, id, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(id, func(c *Caja) { c.ArchivoPDF = path }, false)
}

// SetDimensions2D assigns or clears both 2D dimensions of a box
func (s *MemoryStore) SetDimensions2D(ctx context.Context, id string, dims *Dimensions2D) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(id, func(c *Caja) {
		if dims == nil {
			c.Ancho2DMm, c.Alto2DMm = nil, nil
			return
		}
		ancho, alto := dims.AnchoMm, dims.AltoMm
		c.Ancho2DMm, c.Alto2DMm = &ancho, &alto
	}, false)
}

// updateLocked applies fn to the box with the given id and persists.
// The caller holds mu.
func (s *MemoryStore) updateLocked(id string, fn func(*Caja), create bool) error {
	prev, existed := s.cajas[id]
	if !existed && !create {
		return fmt.Errorf("caja %s: %w", id, ErrNotFound)
	}

	next := prev.clone()
	fn(&next)
	s.cajas[id] = next

	if err := s.persistLocked(); err != nil {
		if existed {
			s.cajas[id] = prev
		} else {
			delete(s.cajas, id)
		}
		return err
	}
	return nil
}
