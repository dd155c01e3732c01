package github

import (
	"math"
	"sort"
)

// MaxSegments is how many languages the bar shows.
const MaxSegments = 5

var languageColors = map[string]string{
	"JavaScript": "#f1e05a",
	"TypeScript": "#2b7489",
	"Python":     "#3572A5",
	"Java":       "#b07219",
	"C++":        "#f34b7d",
	"C":          "#555555",
	"C#":         "#239120",
	"PHP":        "#4F5D95",
	"Ruby":       "#701516",
	"Go":         "#00ADD8",
	"Rust":       "#dea584",
	"Swift":      "#ffac45",
	"Kotlin":     "#F18E33",
	"HTML":       "#e34c26",
	"CSS":        "#563d7c",
	"SCSS":       "#c6538c",
	"Vue":        "#4fc08d",
	"React":      "#61dafb",
	"Shell":      "#89e051",
	"Dockerfile": "#384d54",
	"Makefile":   "#427819",
}

// OtherColor is used for languages without a palette entry.
const OtherColor = "#8b5cf6"

func Color(language string) string {
	if c, ok := languageColors[language]; ok {
		return c
	}
	return OtherColor
}

type Segment struct {
	Name    string
	Bytes   int64
	Percent float64
	Color   string
}

// Bar is the proportional language strip of one repository. Only the
// largest MaxSegments languages are drawn; Omitted is the share left out.
type Bar struct {
	Segments []Segment
	Omitted  float64
}

// NewBar returns nil when there is nothing to draw.
func NewBar(langs map[string]int64) *Bar {
	var total int64
	for _, b := range langs {
		total += b
	}
	if total <= 0 {
		return nil
	}

	all := make([]Segment, 0, len(langs))
	for name, b := range langs {
		all = append(all, Segment{Name: name, Bytes: b, Color: Color(name)})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Bytes != all[j].Bytes {
			return all[i].Bytes > all[j].Bytes
		}
		return all[i].Name < all[j].Name
	})

	bar := &Bar{}
	var omitted int64
	for i, s := range all {
		if i >= MaxSegments {
			omitted += s.Bytes
			continue
		}
		s.Percent = percent(s.Bytes, total)
		bar.Segments = append(bar.Segments, s)
	}
	bar.Omitted = percent(omitted, total)
	return bar
}

// percent rounds to one decimal place.
func percent(part, total int64) float64 {
	return math.Round(float64(part)/float64(total)*1000) / 10
}
