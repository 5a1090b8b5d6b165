package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkGaitBurst  BookmarkType = "gait_burst"
	BookmarkStall      BookmarkType = "stall"
	BookmarkLinkDrift  BookmarkType = "link_drift"
	BookmarkSteadyGait BookmarkType = "steady_gait"
)

// linkDriftTolerance is the link length error that counts as a broken chain.
const linkDriftTolerance = 1e-6

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in a run.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	drifting          bool // link error above tolerance last window
	steadyWindowCount int  // consecutive windows with a regular step rate
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for steady gait detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkGaitBurst(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkStall(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkSteadyGait(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}
	if b := bd.checkLinkDrift(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
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

// last returns the most recent history entry.
func (bd *BookmarkDetector) last() WindowStats {
	i := bd.historyIdx - 1
	if i < 0 {
		i = bd.historySize - 1
	}
	return bd.history[i]
}

func (bd *BookmarkDetector) checkGaitBurst(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	rates := make([]float64, len(history))
	for i, h := range history {
		rates[i] = h.StepRate
	}
	avg := stat.Mean(rates, nil)
	if avg == 0 {
		return nil
	}

	if stats.StepRate > avg*2.0 && stats.Lifts >= 10 {
		return &Bookmark{
			Type:        BookmarkGaitBurst,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Step rate %.2f/s is %.1fx average (%.2f)", stats.StepRate, stats.StepRate/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkStall(stats WindowStats) *Bookmark {
	prev := bd.last()
	if prev.SpeedMean > 1 && stats.SpeedMean < 0.05 {
		return &Bookmark{
			Type:        BookmarkStall,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Mean speed fell from %.2f to %.3f", prev.SpeedMean, stats.SpeedMean),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkLinkDrift(stats WindowStats) *Bookmark {
	drifting := stats.LinkErrMax > linkDriftTolerance
	defer func() { bd.drifting = drifting }()
	if drifting && !bd.drifting {
		return &Bookmark{
			Type:        BookmarkLinkDrift,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Link length error reached %.3g", stats.LinkErrMax),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkSteadyGait(stats WindowStats) *Bookmark {
	if stats.Lifts == 0 {
		bd.steadyWindowCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	// Recent windows in insertion order do not matter for the spread.
	recent := make([]float64, 0, 4)
	for i := 1; i <= 4; i++ {
		idx := (bd.historyIdx - i + bd.historySize) % bd.historySize
		recent = append(recent, bd.history[idx].StepRate)
	}
	mean, variance := stat.MeanVariance(recent, nil)
	if mean > 0 && variance/(mean*mean) < 0.04 { // CV^2 < 0.04 means CV < 0.2
		bd.steadyWindowCount++
	} else {
		bd.steadyWindowCount = 0
	}

	if bd.steadyWindowCount == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkSteadyGait,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Steady gait at %.2f steps/s over 5+ windows", mean),
		}
	}
	return nil
}
