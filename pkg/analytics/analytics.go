// Package analytics derives summary measurements from a built stadium.
package analytics

import (
	"fmt"

	"github.com/kshypjn/CG-StadiaGenerator/pkg/scene"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/validation"
)

// StandMetrics measures one stand.
type StandMetrics struct {
	Side          string  `json:"side"`
	Name          string  `json:"name"`
	Rows          int     `json:"rows"`
	Length        float64 `json:"length"`
	Depth         float64 `json:"depth"`
	Height        float64 `json:"height"`
	RakeDegrees   float64 `json:"rake_degrees"`
	FootprintArea float64 `json:"footprint_area_m2"`
	Volume        float64 `json:"volume_m3"`
	// RoofCover is the fraction of the stand depth under a roof.
	RoofCover float64 `json:"roof_cover"`
}

// Metrics holds the measurements of a built stadium.
type Metrics struct {
	PitchArea       float64        `json:"pitch_area_m2"`
	SiteWidth       float64        `json:"site_width"`
	SiteDepth       float64        `json:"site_depth"`
	SiteArea        float64        `json:"site_area_m2"`
	Stands          []StandMetrics `json:"stands"`
	StandArea       float64        `json:"stand_area_m2"`
	StandVolume     float64        `json:"stand_volume_m3"`
	RoofArea        float64        `json:"roof_area_m2"`
	RoofCover       float64        `json:"roof_cover"`
	Towers          int            `json:"towers"`
	Lights          int            `json:"lights"`
	MeanThrow       float64        `json:"mean_throw"`
	HoardingRun     float64        `json:"hoarding_run"`
	TotalRowsLength float64        `json:"total_rows_length"`
}

// Measure computes the metrics of st. The report carries the headline
// figures as info and flags layouts that build but are unlikely to be
// intended.
func Measure(st *scene.Stadium) (*Metrics, *validation.Report) {
	report := validation.NewReport()
	m := &Metrics{PitchArea: st.Field.Length * st.Field.Width}

	m.Stands = measureStands(st)
	for _, s := range m.Stands {
		m.StandArea += s.FootprintArea
		m.StandVolume += s.Volume
		m.TotalRowsLength += float64(s.Rows) * s.Length
	}
	m.RoofArea = roofArea(st.Roof)
	if m.StandArea > 0 {
		covered := 0.0
		for _, s := range m.Stands {
			covered += s.RoofCover * s.FootprintArea
		}
		m.RoofCover = covered / m.StandArea
	}

	m.SiteWidth, m.SiteDepth = siteExtent(st)
	m.SiteArea = m.SiteWidth * m.SiteDepth

	if st.Floodlights != nil {
		m.Towers = len(st.Floodlights.Towers)
		m.Lights = st.Floodlights.LightCount()
		m.MeanThrow = meanThrow(st)
	}
	for _, h := range st.Hoardings {
		m.HoardingRun += h.Width
	}

	validateMetrics(st, m, report)

	report.AddInfo(validation.Result{
		Level:   validation.LevelGeometry,
		Message: fmt.Sprintf("site %.0f x %.0f m, %d stands, %.0f m of seating rows", m.SiteWidth, m.SiteDepth, len(m.Stands), m.TotalRowsLength),
	})
	if m.RoofArea > 0 {
		report.AddInfo(validation.Result{
			Level:   validation.LevelGeometry,
			Message: fmt.Sprintf("roof %.0f m2 covering %.0f%% of the stands", m.RoofArea, 100*m.RoofCover),
		})
	}
	return m, report
}
