package order

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")

	ErrEmptyCart          = errors.New("empty cart")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrProductUnavailable = errors.New("product unavailable")
	ErrStoreUnavailable   = errors.New("store unavailable")
)

type Shortage struct {
	ProductID uuid.UUID  `json:"productId"`
	VariantID *uuid.UUID `json:"variantId,omitempty"`
	Name      string     `json:"name"`
	Requested int        `json:"requested"`
	Available int        `json:"available"`
}

// StockError lists every product whose demand exceeds its stock.
type StockError struct {
	Shortages []Shortage
}

func (e *StockError) Error() string {
	names := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		names = append(names, fmt.Sprintf("%s (requested %d, available %d)", s.Name, s.Requested, s.Available))
	}
	return "insufficient stock: " + strings.Join(names, ", ")
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }

// First is the offending product reported as "product" in responses.
func (e *StockError) First() Shortage {
	if len(e.Shortages) == 0 {
		return Shortage{}
	}
	return e.Shortages[0]
}

type UnavailableError struct {
	ProductID uuid.UUID
	VariantID uuid.UUID
}

func (e *UnavailableError) Error() string {
	if e.VariantID != uuid.Nil {
		return fmt.Sprintf("product unavailable: %s (variant %s)", e.ProductID, e.VariantID)
	}
	return fmt.Sprintf("product unavailable: %s", e.ProductID)
}

func (e *UnavailableError) Unwrap() error { return ErrProductUnavailable }
