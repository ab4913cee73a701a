package models

import "time"

// Series names as shown in the legend
const (
	CompletedSeriesName = "Completed Projects"
	TotalSeriesName     = "Total Projects"
)

// Point is one (date, value) pair of a plotted line. X keeps the date exactly
// as it appeared in the input; Time is its parsed form used for the axis.
type Point struct {
	X    string    `json:"x"`
	Time time.Time `json:"-"`
	Y    float64   `json:"y"`
}

// Series is an ordered list of points plotted as one line
type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"data"`
}

// Len returns the number of points
func (s Series) Len() int {
	return len(s.Points)
}

// Values returns the y values in order
func (s Series) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Y
	}
	return out
}

// Times returns the parsed x values in order
func (s Series) Times() []time.Time {
	out := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Time
	}
	return out
}

// Project splits rows into the completed and total series. Input order is
// kept as is; rows are neither sorted nor validated.
func Project(rows []DataPoint) (completed, total Series) {
	completed = Series{Name: CompletedSeriesName, Points: make([]Point, len(rows))}
	total = Series{Name: TotalSeriesName, Points: make([]Point, len(rows))}

	for i, row := range rows {
		completed.Points[i] = Point{X: row.CommitDate, Time: row.Time, Y: float64(row.Completed)}
		total.Points[i] = Point{X: row.CommitDate, Time: row.Time, Y: float64(row.Total)}
	}
	return completed, total
}
