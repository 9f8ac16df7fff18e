package scene

import (
	"errors"
	"fmt"

	"github.com/kshypjn/CG-StadiaGenerator/pkg/attach"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/floodlight"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/pitch"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/roof"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/spec"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/stand"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/validation"
)

// Stadium is the typed result of one build. Hidden or omitted parts are
// nil or empty.
type Stadium struct {
	Spec        *spec.StadiumSpec
	Field       pitch.Field
	Surface     *pitch.Surface
	Stands      *stand.Set
	Roof        roof.Plan
	Scoreboard  *attach.Scoreboard
	Hoardings   []attach.Hoarding
	Ribbons     []attach.Ribbon
	Floodlights *floodlight.Array
	Display     attach.Display
}

// Assemble builds every part of the stadium described by s in one pass:
// stand profiles, the stands, the roof over them, the attachments that
// depend on both, and the floodlights and pitch that depend only on the
// parameters. It has no side effects. Schema or geometry errors yield a
// nil Stadium and an invalid report; recoverable problems such as a
// missing attachment stand or an omitted strut are warnings.
func Assemble(s *spec.StadiumSpec) (*Stadium, *validation.Report) {
	r := validation.ValidateSchema(s)
	if !r.Valid {
		return nil, r
	}

	st := &Stadium{Spec: s, Field: s.Pitch.Field(), Roof: roof.None{}}
	display, err := s.Display.Sanitize()
	if err != nil {
		addError(r, validation.LevelSchema, "display", err)
		return nil, r
	}
	st.Display = display

	if s.Pitch.Show {
		surface, err := buildPitch(s.Pitch)
		if err != nil {
			addError(r, validation.LevelGeometry, "pitch", err)
			return nil, r
		}
		st.Surface = &surface
	}

	set, err := stand.Place(st.Field, s.StandSpecs(), s.Stands.Show)
	if err != nil {
		addError(r, validation.LevelGeometry, "stands", err)
		return nil, r
	}
	st.Stands = set

	mode, _ := roof.ParseMode(string(s.Roof.Type))
	plan, err := roof.Place(mode, st.Field, set, s.Roof.Overall, s.Roof.Individual)
	if err != nil {
		addError(r, validation.LevelGeometry, "roof", err)
		return nil, r
	}
	st.Roof = plan
	roofWarnings(plan, r)

	assembleAttachments(st, r)

	if s.Floodlights.Show {
		offset, depth := floodlightReach(s)
		arr, err := floodlight.Place(st.Field, offset, depth, s.Floodlights)
		if err != nil {
			addError(r, validation.LevelPlacement, "floodlights", err)
		} else {
			st.Floodlights = &arr
		}
	}

	if !r.Valid {
		return nil, r
	}
	r.AddInfo(validation.Result{
		Level:   validation.LevelPlacement,
		Message: st.summary(),
	})
	return st, r
}

// floodlightReach returns the offset and estimated depth of the shown stand
// reaching furthest from the field edge, resolved per stand.
func floodlightReach(s *spec.StadiumSpec) (offset, depth float64) {
	offset, depth = s.Stands.Global.Offset, floodlight.DefaultEstimatedDepth
	if !s.Stands.Show {
		return offset, depth
	}
	best := -1.0
	for _, sp := range s.StandSpecs() {
		if !sp.Show {
			continue
		}
		d := floodlight.EstimateStandDepth(sp)
		if reach := sp.Offset + d*0.5; reach > best {
			best, offset, depth = reach, sp.Offset, d
		}
	}
	return offset, depth
}

func buildPitch(p spec.PitchDef) (pitch.Surface, error) {
	layout, err := pitch.LayoutFor(p.Type)
	if err != nil {
		return pitch.Surface{}, err
	}
	return pitch.Build(p.Field(), layout, p.LineWidth)
}

func assembleAttachments(st *Stadium, r *validation.Report) {
	s := st.Spec
	if s.Hoardings.Show {
		h, err := attach.PlaceHoardings(st.Field, s.Hoardings)
		if err != nil {
			addError(r, validation.LevelPlacement, "hoardings", err)
		}
		st.Hoardings = h
	}

	if s.Scoreboard.Show {
		sb, err := attach.PlaceScoreboard(st.Stands, st.Roof, s.Scoreboard, st.Display)
		switch {
		case errors.Is(err, attach.ErrStandNotFound):
			r.AddWarning(validation.Result{
				Level:       validation.LevelPlacement,
				Message:     fmt.Sprintf("scoreboard skipped: %v", err),
				SpecPath:    "scoreboard.stand",
				ActualValue: s.Scoreboard.Stand,
				Suggestions: []string{"Name a stand that is shown, such as \"east\" or \"West Stand\""},
			})
		case err != nil:
			addError(r, validation.LevelPlacement, "scoreboard", err)
		default:
			st.Scoreboard = sb
		}
	}

	if s.Ribbons.Show {
		ribbons, errs := attach.PlaceRibbons(st.Stands, s.Ribbons, st.Display)
		for _, err := range errs {
			if errors.Is(err, attach.ErrStandNotFound) {
				r.AddWarning(validation.Result{
					Level:    validation.LevelPlacement,
					Message:  fmt.Sprintf("ribbon skipped: %v", err),
					SpecPath: "ribbons.stands",
				})
				continue
			}
			addError(r, validation.LevelPlacement, "ribbons", err)
		}
		st.Ribbons = ribbons
	}
}

func roofWarnings(plan roof.Plan, r *validation.Report) {
	switch p := plan.(type) {
	case roof.None:
		if p.Reason != "" {
			r.AddWarning(validation.Result{
				Level:    validation.LevelGeometry,
				Message:  fmt.Sprintf("roof omitted: %s", p.Reason),
				SpecPath: "roof.type",
			})
		}
	case roof.OverallPlan:
		if p.Roof.HoleOmitted {
			r.AddWarning(validation.Result{
				Level:    validation.LevelGeometry,
				Message:  "overall roof hole has zero area; built as a solid slab",
				SpecPath: "roof.overall",
			})
		}
	case roof.IndividualPlan:
		for _, rf := range p.Roofs {
			for _, o := range rf.Omitted {
				r.AddWarning(validation.Result{
					Level:       validation.LevelGeometry,
					Message:     fmt.Sprintf("%s roof strut %d omitted: length %.3f below minimum", rf.Side, o.Index, o.Length),
					SpecPath:    "roof.individual.min_strut_length",
					ActualValue: o.Length,
				})
			}
		}
	}
}

func addError(r *validation.Report, level validation.Level, path string, err error) {
	r.AddError(validation.Result{
		Level:    level,
		Message:  err.Error(),
		SpecPath: path,
	})
}

func (st *Stadium) summary() string {
	lights := 0
	if st.Floodlights != nil {
		lights = st.Floodlights.LightCount()
	}
	return fmt.Sprintf("built %d stands, %s roof, %d hoardings, %d ribbons, scoreboard=%t, %d lights",
		st.Stands.Len(), st.Roof.Mode(), len(st.Hoardings), len(st.Ribbons), st.Scoreboard != nil, lights)
}
