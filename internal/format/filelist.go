package format

import (
	"fmt"
	"io"
	"sort"

	"github.com/cedadev/xfc-client/internal/services/xfc"
)

const (
	mebibyte = 1 << 20
	gibibyte = 1 << 30
	tebibyte = 1 << 40
)

// ListOptions controls how a file list is rendered
type ListOptions struct {
	// FullPath prefixes each path with its cache disk
	FullPath bool
	// Info adds size, first-seen date and temporal quota annotations
	Info bool
	// SortTQ sorts descending by per-file temporal quota used
	SortTQ bool
	// SortHQ sorts descending by file size
	SortHQ bool
	// Limit truncates the (sorted) list; 0 means unlimited
	Limit int
}

// WriteFileList renders files to w according to opts. Sorting is stable
// so ties keep the server-provided order, and the limit applies after
// sorting.
func WriteFileList(w io.Writer, files []xfc.File, opts ListOptions) {
	sorted := files
	if opts.SortTQ || opts.SortHQ {
		sorted = make([]xfc.File, len(files))
		copy(sorted, files)
		if opts.SortTQ {
			sort.SliceStable(sorted, func(i, j int) bool {
				return sorted[i].QuotaUsed > sorted[j].QuotaUsed
			})
		} else {
			sort.SliceStable(sorted, func(i, j int) bool {
				return sorted[i].Size > sorted[j].Size
			})
		}
	}

	if opts.Limit > 0 && opts.Limit < len(sorted) {
		sorted = sorted[:opts.Limit]
	}

	for _, f := range sorted {
		if opts.Info {
			writeFileInfo(w, f)
		}

		path := f.Path
		if opts.FullPath {
			path = f.CacheDisk + "/" + f.Path
		}
		fmt.Fprintln(w, path)
	}
}

// writeFileInfo emits the size (color coded by magnitude), first-seen
// date and temporal quota annotations for one file
func writeFileInfo(w io.Writer, f xfc.File) {
	size := Size(f.Size)
	switch {
	case f.Size >= tebibyte:
		Red.Fprint(w, size)
	case f.Size >= gibibyte:
		Yellow.Fprint(w, size)
	case f.Size >= mebibyte:
		Green.Fprint(w, size)
	default:
		fmt.Fprint(w, size)
	}

	if t, err := ParseTimestamp(f.FirstSeen); err == nil {
		fmt.Fprintf(w, "%s  ", Date(t))
	}

	Magenta.Fprintf(w, "(TQ)%sd ", Days(f.QuotaUsed))
}
