package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_FirstPyramid(t *testing.T) {
	bd := NewBookmarkDetector(10, 8, 10)

	if hasBookmark(bd.Check(WindowStats{WindowEndTick: 600, Population: 20}), BookmarkFirstPyramid) {
		t.Fatal("first_pyramid without a group")
	}
	if !hasBookmark(bd.Check(WindowStats{WindowEndTick: 1200, Population: 20, GroupsFormed: 1, ActiveGroups: 1}), BookmarkFirstPyramid) {
		t.Error("expected first_pyramid bookmark")
	}
	if hasBookmark(bd.Check(WindowStats{WindowEndTick: 1800, Population: 20, GroupsFormed: 2}), BookmarkFirstPyramid) {
		t.Error("first_pyramid triggered twice")
	}
}

func TestBookmarkDetector_FullPyramidRisingEdge(t *testing.T) {
	bd := NewBookmarkDetector(10, 8, 10)

	sizes := []int{5, 10, 10, 7, 10}
	want := []bool{false, true, false, false, true}
	for i, size := range sizes {
		got := hasBookmark(bd.Check(WindowStats{WindowEndTick: int32(i * 600), MaxGroupSize: size}), BookmarkFullPyramid)
		if got != want[i] {
			t.Errorf("window %d (max %d): full_pyramid = %v, want %v", i, size, got, want[i])
		}
	}
}

func TestBookmarkDetector_Scares(t *testing.T) {
	tests := []struct {
		name   string
		scares int
		want   BookmarkType
	}{
		{"mass scare", 9, BookmarkMassScare},
		{"spike", 5, BookmarkScareSpike},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bd := NewBookmarkDetector(10, 8, 10)
			for i := 0; i < 5; i++ {
				bd.Check(WindowStats{WindowEndTick: int32(i * 600), Population: 20, Scares: 1})
			}
			bookmarks := bd.Check(WindowStats{WindowEndTick: 3000, Population: 20, Scares: tt.scares})
			if !hasBookmark(bookmarks, tt.want) {
				t.Errorf("expected %s bookmark, got %v", tt.want, bookmarks)
			}
		})
	}
}

func TestBookmarkDetector_Calm(t *testing.T) {
	bd := NewBookmarkDetector(10, 8, 10)

	triggered := 0
	for i := 0; i < 12; i++ {
		scares := 0
		if i == 3 {
			scares = 2 // breaks the first calm stretch
		}
		if hasBookmark(bd.Check(WindowStats{WindowEndTick: int32(i * 600), Population: 20, Scares: scares}), BookmarkCalm) {
			triggered++
			if i != 8 {
				t.Errorf("calm triggered at window %d, want 8", i)
			}
		}
	}
	if triggered != 1 {
		t.Errorf("calm triggered %d times, want 1", triggered)
	}
}
