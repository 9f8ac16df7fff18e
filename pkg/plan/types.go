package plan

// Plan is the top-down 2D view of a built stadium. Coordinates are world
// (x, z) in meters; the field centre is the origin.
type Plan struct {
	Metadata   Metadata  `json:"metadata"`
	Field      Field2D   `json:"field"`
	Stands     []Stand2D `json:"stands"`
	Roofs      []Roof2D  `json:"roofs"`
	Hoardings  []Strip2D `json:"hoardings"`
	Ribbons    []Strip2D `json:"ribbons"`
	Scoreboard *Marker2D `json:"scoreboard,omitempty"`
	Towers     []Tower2D `json:"towers"`
}

// Metadata holds stadium-level summary data.
type Metadata struct {
	RoofType    string        `json:"roof_type"`
	PitchType   string        `json:"pitch_type,omitempty"`
	StandCount  int           `json:"stand_count"`
	LightCount  int           `json:"light_count"`
	Extent      [2][2]float64 `json:"extent"`
	GeneratedAt string        `json:"generated_at"`
}

// Field2D is the pitch outline and its painted lines.
type Field2D struct {
	Length   float64      `json:"length"`
	Width    float64      `json:"width"`
	Outline  [][2]float64 `json:"outline"`
	Lines    []Strip2D    `json:"lines,omitempty"`
	Circles  []Polyline2D `json:"circles,omitempty"`
	Fixtures []Box2D      `json:"fixtures,omitempty"`
}

// Stand2D is the ground footprint of one stand.
type Stand2D struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Side      string       `json:"side"`
	Footprint [][2]float64 `json:"footprint"`
	Depth     float64      `json:"depth"`
	Height    float64      `json:"height"`
	Rows      int          `json:"rows"`
	Color     string       `json:"color"`
}

// Roof2D is the projected outline of a roof slab. Hole is set for the
// ring roof.
type Roof2D struct {
	ID      string       `json:"id"`
	Outline [][2]float64 `json:"outline"`
	Hole    [][2]float64 `json:"hole,omitempty"`
	Columns [][2]float64 `json:"columns,omitempty"`
	Struts  [][2]float64 `json:"struts,omitempty"`
}

// Strip2D is a straight element seen edge-on, such as a hoarding or a line.
type Strip2D struct {
	ID    string     `json:"id"`
	Start [2]float64 `json:"start"`
	End   [2]float64 `json:"end"`
	Width float64    `json:"width,omitempty"`
	Label string     `json:"label,omitempty"`
}

// Polyline2D is a closed painted curve.
type Polyline2D struct {
	ID     string       `json:"id"`
	Points [][2]float64 `json:"points"`
}

// Box2D is an axis-aligned footprint.
type Box2D struct {
	ID         string     `json:"id"`
	Position   [2]float64 `json:"position"`
	Dimensions [2]float64 `json:"dimensions"`
}

// Marker2D is a point with a facing direction.
type Marker2D struct {
	ID       string     `json:"id"`
	Position [2]float64 `json:"position"`
	Facing   [2]float64 `json:"facing"`
	Width    float64    `json:"width"`
	Label    string     `json:"label,omitempty"`
}

// Tower2D is a floodlight mast and the ground points its lights aim at.
type Tower2D struct {
	ID       string       `json:"id"`
	Position [2]float64   `json:"position"`
	Lights   int          `json:"lights"`
	Aims     [][2]float64 `json:"aims"`
}
