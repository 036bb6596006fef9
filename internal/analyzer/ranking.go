package analyzer

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/btree"
	"github.com/ppiankov/puppetspectre/internal/models"
	"github.com/ppiankov/puppetspectre/pkg/config"
	"k8s.io/apimachinery/pkg/util/sets"
)

// MinTimingFormat is the first report format that records per-resource
// evaluation times.
const MinTimingFormat = 4

// ErrReportTooOld is returned when a report predates per-resource timing.
var ErrReportTooOld = errors.New("report too old")

// FormatError is a report whose format cannot provide a requested section.
type FormatError struct {
	Version int
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("report format %d does not record evaluation times (need %d or later)", e.Version, MinTimingFormat)
}

func (e *FormatError) Unwrap() error {
	return ErrReportTooOld
}

// SlowResources returns up to n of the slowest resources in a report,
// slowest first. Entries are tagged with source. When the filter is not
// empty the top n are cut first and then filtered, so fewer than n entries
// may come back. Resources with equal times keep document order.
func SlowResources(report *models.Report, n int, source string, filter config.TypeFilter) ([]models.RankedEntry, error) {
	if report == nil {
		return []models.RankedEntry{}, nil
	}
	if report.ReportFormat < MinTimingFormat {
		return nil, &FormatError{Version: report.ReportFormat}
	}

	timed := ResourcesByEvalTime(report)
	if n > len(timed) {
		n = len(timed)
	}
	if n < 0 {
		n = 0
	}

	top := append([]models.NamedStatus(nil), timed[len(timed)-n:]...)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Status.EvaluationTime.Seconds > top[j].Status.EvaluationTime.Seconds
	})

	entries := make([]models.RankedEntry, 0, len(top))
	for _, named := range top {
		if !filter.Matches(named.ID) {
			continue
		}
		entries = append(entries, models.RankedEntry{
			EvaluationTime: named.Status.EvaluationTime.Seconds,
			Resource:       named.ID,
			Source:         source,
		})
	}
	return entries, nil
}

type mergeItem struct {
	entry models.RankedEntry
	seq   int
}

func slowerFirst(a, b mergeItem) bool {
	if a.entry.EvaluationTime != b.entry.EvaluationTime {
		return a.entry.EvaluationTime > b.entry.EvaluationTime
	}
	return a.seq < b.seq
}

// MergeAndTruncate merges ranked lists into one list ordered by evaluation
// time, slowest first. Equal times keep the order in which the lists and
// their entries were given. With unique only the slowest entry per resource
// name is kept. The result holds at most n entries; n <= 0 keeps them all.
func MergeAndTruncate(lists [][]models.RankedEntry, n int, unique bool) []models.RankedEntry {
	index := btree.NewG[mergeItem](32, slowerFirst)
	seq := 0
	for _, list := range lists {
		for _, entry := range list {
			index.ReplaceOrInsert(mergeItem{entry: entry, seq: seq})
			seq++
		}
	}

	capacity := index.Len()
	if n > 0 && n < capacity {
		capacity = n
	}
	merged := make([]models.RankedEntry, 0, capacity)
	seen := sets.New[string]()

	index.Ascend(func(item mergeItem) bool {
		if unique {
			if seen.Has(item.entry.Resource) {
				return true
			}
			seen.Insert(item.entry.Resource)
		}
		merged = append(merged, item.entry)
		return n <= 0 || len(merged) < n
	})
	return merged
}
