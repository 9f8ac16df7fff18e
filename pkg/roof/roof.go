// Package roof places stand roofs: one tilted slab per stand with support
// struts, or a single ring-shaped roof spanning every stand.
package roof

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kshypjn/CG-StadiaGenerator/pkg/pitch"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/stand"
)

var (
	// ErrInvalidRoof is returned for roof parameters outside their domain.
	ErrInvalidRoof = errors.New("invalid roof")
	// ErrCoverageExceedsDepth is returned when a slab would reach past the
	// front of its stand.
	ErrCoverageExceedsDepth = errors.New("roof coverage exceeds stand depth")
)

// Mode selects the roof variant. Exactly one is active per build.
type Mode string

const (
	ModeNone       Mode = "none"
	ModeOverall    Mode = "overall"
	ModeIndividual Mode = "individual"
)

// Modes lists the accepted roof modes.
var Modes = []Mode{ModeNone, ModeOverall, ModeIndividual}

// ParseMode converts a configuration string into a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range Modes {
		if m == v {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: unknown roof type %q", ErrInvalidRoof, s)
}

// Plan is the roof variant chosen for one build.
type Plan interface {
	Mode() Mode
	// TopHeight returns the height of the roof's top surface above the
	// stand on side at stand-local depth x. ok is false when that stand
	// has no roof.
	TopHeight(side stand.Side, x float64) (h float64, ok bool)
}

// None is the no-roof variant. Reason is set when a roof was requested but
// could not be built.
type None struct {
	Reason string
}

// OverallPlan carries the single ring roof.
type OverallPlan struct {
	Roof Overall
}

// IndividualPlan carries one slab per built stand.
type IndividualPlan struct {
	Roofs  []*Individual
	bySide [4]*Individual
}

func (None) Mode() Mode           { return ModeNone }
func (OverallPlan) Mode() Mode    { return ModeOverall }
func (IndividualPlan) Mode() Mode { return ModeIndividual }

func (None) TopHeight(stand.Side, float64) (float64, bool) { return 0, false }

func (p OverallPlan) TopHeight(stand.Side, float64) (float64, bool) {
	return p.Roof.Bottom + p.Roof.Thickness, true
}

func (p IndividualPlan) TopHeight(side stand.Side, x float64) (float64, bool) {
	r, ok := p.ForSide(side)
	if !ok {
		return 0, false
	}
	return r.TopHeightAt(x), true
}

// ForSide returns the slab over the stand on side.
func (p IndividualPlan) ForSide(side stand.Side) (*Individual, bool) {
	if side < stand.East || side > stand.South {
		return nil, false
	}
	r := p.bySide[side]
	return r, r != nil
}

// Place builds the roof variant selected by mode over the built stands.
// An overall roof over no stands yields None with a Reason.
func Place(mode Mode, field pitch.Field, set *stand.Set, overall OverallParams, individual IndividualParams) (Plan, error) {
	switch mode {
	case ModeNone, "":
		return None{}, nil
	case ModeOverall:
		r, err := PlaceOverall(field, set, overall)
		if errors.Is(err, ErrNoStands) {
			return None{Reason: err.Error()}, nil
		}
		if err != nil {
			return nil, err
		}
		return OverallPlan{Roof: r}, nil
	case ModeIndividual:
		var p IndividualPlan
		for _, in := range set.All() {
			r, err := PlaceIndividual(in, individual)
			if err != nil {
				return nil, fmt.Errorf("%s roof: %w", in.Side, err)
			}
			p.Roofs = append(p.Roofs, r)
			p.bySide[in.Side] = r
		}
		return p, nil
	}
	return nil, fmt.Errorf("%w: unknown roof type %q", ErrInvalidRoof, mode)
}
