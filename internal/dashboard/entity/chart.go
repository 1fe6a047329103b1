package entity

type ChartKind string

const (
	ChartBar     ChartKind = "bar"
	ChartLine    ChartKind = "line"
	ChartScatter ChartKind = "scatter"
	ChartPie     ChartKind = "pie"
)

// ChartSeries is the data one trace needs. Bar, line and scatter use X/Y;
// pie uses Labels/Values.
type ChartSeries struct {
	Kind   ChartKind `json:"type"`
	Name   string    `json:"name"`
	X      []Value   `json:"x,omitempty"`
	Y      []Value   `json:"y,omitempty"`
	Labels []Value   `json:"labels,omitempty"`
	Values []int     `json:"values,omitempty"`
}

// Figure is a titled set of series. A placeholder figure has no series and
// its title tells the user what is missing ("Invalid data", ...).
type Figure struct {
	Kind        ChartKind     `json:"kind"`
	Title       string        `json:"title"`
	Placeholder bool          `json:"placeholder"`
	Series      []ChartSeries `json:"series"`
}

func PlaceholderFigure(kind ChartKind, title string) Figure {
	return Figure{Kind: kind, Title: title, Placeholder: true, Series: []ChartSeries{}}
}
