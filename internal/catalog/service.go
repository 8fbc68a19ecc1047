package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/a3tai/pdf-bbox/internal/conversion"
)

// ErrDerive wraps failures of the derive step after a successful save
var ErrDerive = errors.New("derive 2D dimensions")

// Deriver fills derived fields of a stored box
type Deriver interface {
	Derive(ctx context.Context, id string) (*Caja, error)
}

// Service coordinates saving boxes, converting their design files and
// deriving their 2D dimensions
type Service struct {
	store     Store
	deriver   Deriver
	converter conversion.Converter
	resolver  conversion.Resolver
	policy    conversion.RetryPolicy
	log       zerolog.Logger
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithConverter sets the converter used for design files. The default
// accepts sources that already are PDFs.
func WithConverter(c conversion.Converter, policy conversion.RetryPolicy) ServiceOption {
	return func(s *Service) {
		s.converter = c
		s.policy = policy
	}
}

// WithResolver sets where design file paths are looked up
func WithResolver(r conversion.Resolver) ServiceOption {
	return func(s *Service) {
		s.resolver = r
	}
}

// WithLogger sets the service logger
func WithLogger(log zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.log = log
	}
}

// NewService creates a catalog service. deriver may be nil to skip the
// derive step.
func NewService(store Store, deriver Deriver, opts ...ServiceOption) *Service {
	s := &Service{
		store:     store,
		deriver:   deriver,
		converter: conversion.PassthroughConverter{},
		policy:    conversion.DefaultRetryPolicy(),
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying store
func (s *Service) Store() Store {
	return s.store
}

// SaveReferencia stores a reference product
func (s *Service) SaveReferencia(ctx context.Context, ref *Referencia) error {
	return s.store.SaveReferencia(ctx, ref)
}

// SaveCaja commits the box and then, as a separate step, derives its 2D
// dimensions when it has a PDF. A derive failure is returned wrapped in
// ErrDerive; the saved record stays committed.
func (s *Service) SaveCaja(ctx context.Context, caja *Caja) (*Caja, error) {
	if err := s.store.SaveCaja(ctx, caja); err != nil {
		return nil, err
	}

	if caja.ArchivoPDF == "" || s.deriver == nil {
		return s.store.GetCaja(ctx, caja.ID)
	}

	derived, err := s.deriver.Derive(ctx, caja.ID)
	if err != nil {
		s.log.Warn().Err(err).Str("caja", caja.ID).Msg("saved caja without 2D dimensions")
		return nil, fmt.Errorf("%w for caja %s: %w", ErrDerive, caja.ID, err)
	}
	return derived, nil
}

// DeriveDimensions runs the derive step for a stored box
func (s *Service) DeriveDimensions(ctx context.Context, id string) (*Caja, error) {
	if s.deriver == nil {
		return nil, fmt.Errorf("%w: no deriver configured", ErrDerive)
	}
	return s.deriver.Derive(ctx, id)
}

// ListCajas returns every box with its label
func (s *Service) ListCajas(ctx context.Context) ([]LabeledCaja, error) {
	cajas, err := s.store.ListCajas(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]LabeledCaja, 0, len(cajas))
	for _, c := range cajas {
		ref, err := s.store.GetReferencia(ctx, c.ReferenciaID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		out = append(out, LabeledCaja{Caja: c, Label: c.Label(ref)})
	}
	return out, nil
}

// LabeledCaja is a box with its display label
type LabeledCaja struct {
	Caja  `yaml:",inline"`
	Label string `json:"label" yaml:"label"`
}

// ConvertDesign starts converting the box's design file to PDF. When the
// task succeeds the PDF path is stored and the derive step runs. The
// returned task reports the conversion only.
func (s *Service) ConvertDesign(ctx context.Context, id string) (*conversion.Task, <-chan error, error) {
	caja, err := s.store.GetCaja(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if caja.ArchivoCDR == "" {
		return nil, nil, fmt.Errorf("%w: caja %s has no design file", ErrInvalid, id)
	}

	src, err := s.resolver.Resolve(caja.ArchivoCDR)
	if err != nil {
		return nil, nil, err
	}

	task := conversion.Start(ctx, s.converter, src, s.policy, conversion.WithLogger(s.log))
	finished := make(chan error, 1)

	go func() {
		defer close(finished)

		pdfPath, err := task.Wait(ctx)
		if err != nil {
			finished <- err
			return
		}
		if err := s.store.SetArchivoPDF(ctx, id, pdfPath); err != nil {
			finished <- err
			return
		}
		if s.deriver != nil {
			if _, err := s.deriver.Derive(ctx, id); err != nil {
				finished <- fmt.Errorf("%w for caja %s: %w", ErrDerive, id, err)
				return
			}
		}
		finished <- nil
	}()

	return task, finished, nil
}
