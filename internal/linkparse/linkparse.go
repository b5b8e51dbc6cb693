// Package linkparse extracts inline #YYYY-MM-DD date tags from log content.
//
// Persistence honors only the first tag occurrence; rendering activates every
// occurrence. Both behaviors live here so the asymmetry stays in one place.
package linkparse

import (
	"regexp"

	"github.com/hanlee/daylink/internal/dateutil"
)

var tagRe = regexp.MustCompile(`#(\d{4}-\d{2}-\d{2})`)

// Tag is the result of scanning content for its first date tag.
//
// HasTag is false when no pattern occurs at all. When HasTag is true, Date
// holds the captured YYYY-MM-DD string and Valid reports whether it names an
// existing calendar date. A matched-but-invalid tag is a validation failure
// for the caller, never a silent absence.
type Tag struct {
	HasTag bool
	Raw    string // full match including the leading #
	Date   string
	Valid  bool
}

// First scans content left to right and returns the first tag occurrence.
func First(content string) Tag {
	m := tagRe.FindStringSubmatch(content)
	if m == nil {
		return Tag{}
	}
	_, err := dateutil.ParseKey(m[1])
	return Tag{
		HasTag: true,
		Raw:    m[0],
		Date:   m[1],
		Valid:  err == nil,
	}
}

// Segment is a run of content for rendering. Link segments carry the tag's
// target date and are each independently navigable.
type Segment struct {
	Text string
	Link bool
	Date string
}

// Segments splits content so that every tag occurrence becomes a Link
// segment, not just the first. Tags are not validated here; navigation on an
// impossible date is the renderer's concern.
func Segments(content string) []Segment {
	locs := tagRe.FindAllStringSubmatchIndex(content, -1)
	if len(locs) == 0 {
		return []Segment{{Text: content}}
	}

	var segs []Segment
	prev := 0
	for _, loc := range locs {
		if loc[0] > prev {
			segs = append(segs, Segment{Text: content[prev:loc[0]]})
		}
		segs = append(segs, Segment{
			Text: content[loc[0]:loc[1]],
			Link: true,
			Date: content[loc[2]:loc[3]],
		})
		prev = loc[1]
	}
	if prev < len(content) {
		segs = append(segs, Segment{Text: content[prev:]})
	}
	return segs
}
