package internal

import (
    "fmt"
    "sort"
    "strings"
    "time"

    "github.com/dustin/go-humanize"
)

// CollectionSummary describes a working set at a glance.
type CollectionSummary struct {
    Photos      int
    TotalBytes  int64
    ByExtension map[string]int
    Earliest    time.Time
    Latest      time.Time
    Largest     []*Photo
}

// Summarize computes a summary of photos, keeping the top largest files.
// A negative top lists none.
func Summarize(photos []*Photo, top int) CollectionSummary {
    s := CollectionSummary{
        Photos:      len(photos),
        ByExtension: make(map[string]int),
    }

    for _, p := range photos {
        s.TotalBytes += p.Size
        s.ByExtension[normalizeExt(p.Ext())]++
        if s.Earliest.IsZero() || p.Created.Before(s.Earliest) {
            s.Earliest = p.Created
        }
        if p.Created.After(s.Latest) {
            s.Latest = p.Created
        }
    }

    bySize := append([]*Photo(nil), photos...)
    sort.SliceStable(bySize, func(i, j int) bool { return bySize[i].Size > bySize[j].Size })
    if top < 0 {
        top = 0
    }
    if len(bySize) > top {
        bySize = bySize[:top]
    }
    s.Largest = bySize

    return s
}

func (s CollectionSummary) Lines() []string {
    if s.Photos == 0 {
        return []string{"no photos"}
    }

    lines := []string{
        fmt.Sprintf("photos: %s (%s)", humanize.Comma(int64(s.Photos)), humanize.IBytes(uint64(s.TotalBytes))),
        fmt.Sprintf("dates: %s .. %s", s.Earliest.Format(time.DateOnly), s.Latest.Format(time.DateOnly)),
    }

    exts := make([]string, 0, len(s.ByExtension))
    for ext := range s.ByExtension {
        exts = append(exts, ext)
    }
    // most common first
    sort.Slice(exts, func(i, j int) bool {
        if s.ByExtension[exts[i]] != s.ByExtension[exts[j]] {
            return s.ByExtension[exts[i]] > s.ByExtension[exts[j]]
        }
        return exts[i] < exts[j]
    })
    parts := make([]string, 0, len(exts))
    for _, ext := range exts {
        parts = append(parts, fmt.Sprintf("%s %d (%d%%)", ext, s.ByExtension[ext], percentage(s.ByExtension[ext], s.Photos)))
    }
    lines = append(lines, "formats: "+strings.Join(parts, ", "))

    if len(s.Largest) > 0 {
        lines = append(lines, "largest files:")
        for _, p := range s.Largest {
            lines = append(lines, fmt.Sprintf("  %s  %s", humanize.IBytes(uint64(p.Size)), p.Path))
        }
    }
    return lines
}

func percentage(part, total int) int {
    if total == 0 {
        return 0
    }
    return (part * 100) / total
}
