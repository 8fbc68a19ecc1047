// Package catalog stores reference products and their boxes.
//
// A box (Caja) carries its physical size in centimetres and the size of its
// printed 2D figure in millimetres. The 2D size is derived from the box's
// PDF by an explicit step after the record is saved.
package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("not found")
	// ErrInvalid is returned for records that fail validation
	ErrInvalid = errors.New("invalid record")
)

// Referencia is a reference product
type Referencia struct {
	ID     string `yaml:"id" json:"id"`
	Nombre string `yaml:"nombre" json:"nombre"`
	Foto   string `yaml:"foto,omitempty" json:"foto,omitempty"`
}

// Validate checks the required fields
func (r *Referencia) Validate() error {
	if r.Nombre == "" {
		return fmt.Errorf("%w: referencia nombre is required", ErrInvalid)
	}
	return nil
}

// Caja is a box for a reference product
type Caja struct {
	ID            string `yaml:"id" json:"id"`
	ReferenciaID  string `yaml:"referencia_id" json:"referencia_id"`
	AnchoCm       int    `yaml:"ancho_cm" json:"ancho_cm"`
	AltoCm        int    `yaml:"alto_cm" json:"alto_cm"`
	ProfundidadCm int    `yaml:"profundidad_cm" json:"profundidad_cm"`
	ArchivoCDR    string `yaml:"archivo_cdr,omitempty" json:"archivo_cdr,omitempty"`
	ArchivoPDF    string `yaml:"archivo_pdf,omitempty" json:"archivo_pdf,omitempty"`

	// Ancho2DMm and Alto2DMm are nil until derived, and nil again when the
	// PDF has no drawing objects
	Ancho2DMm *float64 `yaml:"ancho_2d_mm,omitempty" json:"ancho_2d_mm"`
	Alto2DMm  *float64 `yaml:"alto_2d_mm,omitempty" json:"alto_2d_mm"`
}

// Validate checks the physical dimensions
func (c *Caja) Validate() error {
	if c.ReferenciaID == "" {
		return fmt.Errorf("%w: caja referencia is required", ErrInvalid)
	}
	if c.AnchoCm <= 0 || c.AltoCm <= 0 || c.ProfundidadCm <= 0 {
		return fmt.Errorf("%w: caja dimensions must be positive, got %dx%dx%d",
			ErrInvalid, c.AnchoCm, c.AltoCm, c.ProfundidadCm)
	}
	return nil
}

// Label renders "<nombre> - <ancho>x<alto>x<profundidad>"
func (c *Caja) Label(ref *Referencia) string {
	nombre := ""
	if ref != nil {
		nombre = ref.Nombre
	}
	return fmt.Sprintf("%s - %dx%dx%d", nombre, c.AnchoCm, c.AltoCm, c.ProfundidadCm)
}

// HasDimensions2D reports whether both 2D dimensions are set
func (c *Caja) HasDimensions2D() bool {
	return c.Ancho2DMm != nil && c.Alto2DMm != nil
}

func (c Caja) clone() Caja {
	if c.Ancho2DMm != nil {
		v := *c.Ancho2DMm
		c.Ancho2DMm = &v
	}
	if c.Alto2DMm != nil {
		v := *c.Alto2DMm
		c.Alto2DMm = &v
	}
	return c
}

// Dimensions2D is the measured figure size of a box in millimetres
type Dimensions2D struct {
	AnchoMm float64
	AltoMm  float64
}
