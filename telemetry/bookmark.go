package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFirstPyramid BookmarkType = "first_pyramid"
	BookmarkFullPyramid  BookmarkType = "full_pyramid"
	BookmarkMassScare    BookmarkType = "mass_scare"
	BookmarkScareSpike   BookmarkType = "scare_spike"
	BookmarkCalm         BookmarkType = "calm"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        int32        `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	massScareCount  int
	fullPyramidSize int

	// State tracking
	seenPyramid      bool
	lastMaxGroupSize int
	calmWindowsCount int
}

// NewBookmarkDetector creates a detector with the given history size.
// massScareCount is the number of scares in one window that counts as a mass
// scare; fullPyramidSize is the group size of a complete pyramid.
func NewBookmarkDetector(historySize, massScareCount, fullPyramidSize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3 // minimum for a meaningful rolling average
	}
	return &BookmarkDetector{
		history:         make([]WindowStats, historySize),
		historySize:     historySize,
		massScareCount:  massScareCount,
		fullPyramidSize: fullPyramidSize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkFirstPyramid(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkFullPyramid(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkMassScare(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkScareSpike(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}
	if b := bd.checkCalm(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	bd.lastMaxGroupSize = stats.MaxGroupSize

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkFirstPyramid(stats WindowStats) *Bookmark {
	if bd.seenPyramid || stats.GroupsFormed == 0 {
		return nil
	}
	bd.seenPyramid = true
	return &Bookmark{
		Type:        BookmarkFirstPyramid,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("First pyramid formed (%d groups active)", stats.ActiveGroups),
	}
}

func (bd *BookmarkDetector) checkFullPyramid(stats WindowStats) *Bookmark {
	if bd.fullPyramidSize <= 0 {
		return nil
	}
	// Trigger on the rising edge only
	if stats.MaxGroupSize >= bd.fullPyramidSize && bd.lastMaxGroupSize < bd.fullPyramidSize {
		return &Bookmark{
			Type:        BookmarkFullPyramid,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Pyramid reached %d members", stats.MaxGroupSize),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkMassScare(stats WindowStats) *Bookmark {
	if bd.massScareCount <= 0 || stats.Scares < bd.massScareCount {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkMassScare,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d creatures scared in one window", stats.Scares),
	}
}

func (bd *BookmarkDetector) checkScareSpike(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Scares
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	if float64(stats.Scares) > avg*2.0 && stats.Scares >= 3 {
		return &Bookmark{
			Type:        BookmarkScareSpike,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Scares %d are %.1fx average (%.1f)", stats.Scares, float64(stats.Scares)/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkCalm(stats WindowStats) *Bookmark {
	if stats.Population == 0 || stats.Scares > 0 {
		bd.calmWindowsCount = 0
		return nil
	}

	bd.calmWindowsCount++
	if bd.calmWindowsCount == 5 { // trigger exactly once per calm stretch
		return &Bookmark{
			Type:        BookmarkCalm,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("No scares for 5 windows, %d grouped", stats.Grouped),
		}
	}
	return nil
}
