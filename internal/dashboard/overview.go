package dashboard

import (
	"sort"

	"github.com/angelmondragon/estatedesk-backend/internal/catalog"
)

const chartDateLayout = "2006-01-02"

type Counts struct {
	Properties    int `json:"properties"`
	Files         int `json:"files"`
	Maps          int `json:"maps"`
	Queries       int `json:"queries"`
	UnreadQueries int `json:"unreadQueries"`
}

// ChartPoint is one day of the query chart.
type ChartPoint struct {
	Date          string `json:"date"`
	TotalQueries  int    `json:"totalQueries"`
	UnreadQueries int    `json:"unreadQueries"`
}

type Overview struct {
	Counts Counts       `json:"counts"`
	Chart  []ChartPoint `json:"chart"`
}

func (d *Dashboard) Overview() Overview {
	c := d.catalog
	return Overview{
		Counts: Counts{
			Properties:    c.Properties.Count(),
			Files:         c.Files.Count(),
			Maps:          c.Maps.Count(),
			Queries:       c.Queries.Count(),
			UnreadQueries: c.UnreadQueries(),
		},
		Chart: QueryChart(c.Queries.List()),
	}
}

// QueryChart buckets queries per calendar day of their timestamp, oldest
// first.
func QueryChart(queries []catalog.Query) []ChartPoint {
	byDate := map[string]*ChartPoint{}
	for _, q := range queries {
		date := q.ChangedAt.Format(chartDateLayout)
		point, ok := byDate[date]
		if !ok {
			point = &ChartPoint{Date: date}
			byDate[date] = point
		}
		point.TotalQueries++
		if !q.IsRead {
			point.UnreadQueries++
		}
	}
	out := make([]ChartPoint, 0, len(byDate))
	for _, p := range byDate {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
