package catalog

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/a3tai/pdf-bbox/internal/bbox"
)

// Measurer returns the rounded figure size of a PDF, or found == false
// when its first page has no drawing objects
type Measurer interface {
	Measure(path string) (bbox.Dimensions, bool, error)
}

// DimensionDeriver measures a box's PDF and stores its 2D dimensions
type DimensionDeriver struct {
	store     Store
	measurer  Measurer
	mediaRoot string
	log       zerolog.Logger
}

// NewDimensionDeriver creates a deriver. Relative PDF paths are resolved
// against mediaRoot.
func NewDimensionDeriver(store Store, measurer Measurer, mediaRoot string, log zerolog.Logger) *DimensionDeriver {
	return &DimensionDeriver{
		store:     store,
		measurer:  measurer,
		mediaRoot: mediaRoot,
		log:       log,
	}
}

// Derive measures the box's PDF and assigns both 2D fields at once. An
// empty figure clears both fields. On a measurement error the stored
// record is left untouched.
func (d *DimensionDeriver) Derive(ctx context.Context, id string) (*Caja, error) {
	caja, err := d.store.GetCaja(ctx, id)
	if err != nil {
		return nil, err
	}
	if caja.ArchivoPDF == "" {
		return nil, fmt.Errorf("%w: caja %s has no PDF", ErrInvalid, id)
	}

	path := caja.ArchivoPDF
	if !filepath.IsAbs(path) && d.mediaRoot != "" {
		path = filepath.Join(d.mediaRoot, path)
	}

	dims, found, err := d.measurer.Measure(path)
	if err != nil {
		return nil, fmt.Errorf("measure %s: %w", path, err)
	}

	var update *Dimensions2D
	if found {
		update = &Dimensions2D{AnchoMm: dims.WidthMm, AltoMm: dims.HeightMm}
	}
	if err := d.store.SetDimensions2D(ctx, id, update); err != nil {
		return nil, err
	}

	event := d.log.Info().Str("caja", id).Str("pdf", path).Bool("found", found)
	if found {
		event = event.Float64("ancho_2d_mm", dims.WidthMm).Float64("alto_2d_mm", dims.HeightMm)
	}
	event.Msg("derived 2D dimensions")

	return d.store.GetCaja(ctx, id)
}
