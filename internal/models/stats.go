package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// commitDateLayouts are tried in order when decoding commit_date. The stats
// generator writes "2006-01-02T15:04:05-0700"; older files carry the raw git
// form and hand-written fixtures use plain dates.
var commitDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// DataPoint is one row of cumulative_stats.json: the state of the project
// list as of one commit.
type DataPoint struct {
	CommitDate string    `json:"commit_date"` // raw value as found in the file
	Time       time.Time `json:"-"`           // parsed CommitDate
	Completed  int       `json:"completed"`
	Total      int       `json:"total"`
}

// UnmarshalJSON decodes a row and parses its commit date
func (d *DataPoint) UnmarshalJSON(b []byte) error {
	var raw struct {
		CommitDate string `json:"commit_date"`
		Completed  int    `json:"completed"`
		Total      int    `json:"total"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	t, err := ParseCommitDate(raw.CommitDate)
	if err != nil {
		return err
	}

	*d = DataPoint{
		CommitDate: raw.CommitDate,
		Time:       t,
		Completed:  raw.Completed,
		Total:      raw.Total,
	}
	return nil
}

// Consistent reports whether the row satisfies 0 <= completed <= total
func (d DataPoint) Consistent() bool {
	return d.Completed >= 0 && d.Total >= d.Completed
}

// ParseCommitDate parses a commit_date value in any of the accepted layouts
func ParseCommitDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty commit_date")
	}
	for _, layout := range commitDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized commit_date %q", s)
}
