// Package problem defines optimization problems: an objective function over a
// bounded decision space, with dimension and bounds metadata used for
// compatibility checks between islands.
package problem

import (
	"fmt"
	"strings"
)

// Problem evaluates an objective vector on a decision vector and declares the
// shape of its decision and objective spaces.
type Problem interface {
	Clone() Problem
	Name() string
	Dimension() int
	IntegerDimension() int
	ObjectiveDimension() int
	ConstraintDimension() int
	Bounds() (lower, upper []float64)
	Objfun(f, x []float64) error
}

// base carries the dimension and bounds bookkeeping shared by all problems.
type base struct {
	name string
	dim  int
	idim int
	fdim int
	cdim int
	lb   []float64
	ub   []float64
}

func newBase(name string, dim, idim, fdim, cdim int, lb, ub float64) (base, error) {
	if dim <= 0 {
		return base{}, fmt.Errorf("problem %s: dimension must be > 0, got %d", name, dim)
	}
	if idim < 0 || idim > dim {
		return base{}, fmt.Errorf("problem %s: integer dimension must be in [0, %d], got %d", name, dim, idim)
	}
	if fdim <= 0 {
		return base{}, fmt.Errorf("problem %s: objective dimension must be > 0, got %d", name, fdim)
	}
	if lb >= ub {
		return base{}, fmt.Errorf("problem %s: invalid bounds [%g, %g]", name, lb, ub)
	}
	lower := make([]float64, dim)
	upper := make([]float64, dim)
	for i := 0; i < dim; i++ {
		lower[i] = lb
		upper[i] = ub
	}
	return base{name: name, dim: dim, idim: idim, fdim: fdim, cdim: cdim, lb: lower, ub: upper}, nil
}

func (b base) Name() string             { return b.name }
func (b base) Dimension() int           { return b.dim }
func (b base) IntegerDimension() int    { return b.idim }
func (b base) ObjectiveDimension() int  { return b.fdim }
func (b base) ConstraintDimension() int { return b.cdim }

func (b base) Bounds() ([]float64, []float64) {
	return append([]float64(nil), b.lb...), append([]float64(nil), b.ub...)
}

func (b base) cloneBase() base {
	out := b
	out.lb = append([]float64(nil), b.lb...)
	out.ub = append([]float64(nil), b.ub...)
	return out
}

func (b base) checkShapes(f, x []float64) error {
	if len(x) != b.dim {
		return fmt.Errorf("problem %s: decision vector length %d, want %d", b.name, len(x), b.dim)
	}
	if len(f) != b.fdim {
		return fmt.Errorf("problem %s: fitness vector length %d, want %d", b.name, len(f), b.fdim)
	}
	return nil
}

// Compatible reports whether two problems agree on every dimension and on
// bounds, the condition for their islands to share an archipelago.
func Compatible(a, b Problem) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Dimension() != b.Dimension() ||
		a.IntegerDimension() != b.IntegerDimension() ||
		a.ObjectiveDimension() != b.ObjectiveDimension() ||
		a.ConstraintDimension() != b.ConstraintDimension() {
		return false
	}
	alb, aub := a.Bounds()
	blb, bub := b.Bounds()
	for i := range alb {
		if alb[i] != blb[i] || aub[i] != bub[i] {
			return false
		}
	}
	return true
}

// ByName resolves a problem from its registry name. dim is the decision
// dimension for single-objective problems and the k parameter for the DTLZ
// family; fdim is only consulted by multi-objective problems.
func ByName(name string, dim, fdim int) (Problem, error) {
	switch strings.ToLower(name) {
	case "sphere":
		return NewSphere(dim)
	case "rastrigin":
		return NewRastrigin(dim)
	case "dtlz1":
		return NewDTLZ1(dim, fdim)
	case "dtlz3":
		return NewDTLZ3(dim, fdim)
	default:
		return nil, fmt.Errorf("unknown problem: %s", name)
	}
}
