package course

import (
	"database/sql"
	"testing"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{0, "00:00"},
		{5, "00:05"},
		{65, "01:05"},
		{600, "10:00"},
		{3599, "59:59"},
		{3600, "01:00:00"},
		{3725, "01:02:05"},
		{86400, "24:00:00"},
		{-10, "00:00"},
	}

	for _, tc := range cases {
		if got := formatDuration(tc.seconds); got != tc.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func videoRow(chapterID int64, chapterTitle, sectionType string, videoID int64, videoTitle string, duration int64) chapterRow {
	return chapterRow{
		ChapterID:    chapterID,
		ChapterTitle: chapterTitle,
		SectionType:  sectionType,
		VideoID:      sql.NullInt64{Int64: videoID, Valid: true},
		VideoTitle:   sql.NullString{String: videoTitle, Valid: true},
		Duration:     sql.NullInt64{Int64: duration, Valid: true},
	}
}

func TestBuildSectionsOverview(t *testing.T) {
	rows := []chapterRow{
		videoRow(1, "Cell Biology", "midterm", 10, "Intro", 120),
		videoRow(1, "Cell Biology", "midterm", 11, "Membranes", 240),
		videoRow(2, "Genetics", "final", 12, "DNA", 300),
		{ChapterID: 3, ChapterTitle: "Empty Chapter", SectionType: "final"},
	}

	sections, videoCount, totalSeconds := buildSections(rows, nil)

	if videoCount != 3 {
		t.Errorf("video count = %d, want 3", videoCount)
	}
	if totalSeconds != 660 {
		t.Errorf("total seconds = %d, want 660", totalSeconds)
	}

	if len(sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(sections))
	}
	if sections[0].Type != "midterm" || sections[1].Type != "final" {
		t.Errorf("section order = %q, %q", sections[0].Type, sections[1].Type)
	}

	midterm := sections[0].Chapters
	if len(midterm) != 1 || len(midterm[0].Videos) != 2 {
		t.Fatalf("midterm chapters/videos malformed: %+v", midterm)
	}
	if midterm[0].Videos[1].Duration != "04:00" {
		t.Errorf("video duration = %q, want 04:00", midterm[0].Videos[1].Duration)
	}
	if midterm[0].Videos[0].Completed != nil {
		t.Error("guest overview must not carry completion flags")
	}

	final := sections[1].Chapters
	if len(final) != 2 {
		t.Fatalf("final chapters = %d, want 2", len(final))
	}
	if len(final[1].Videos) != 0 {
		t.Errorf("empty chapter has %d videos", len(final[1].Videos))
	}
}

func TestBuildSectionsContent(t *testing.T) {
	rows := []chapterRow{
		videoRow(1, "Cell Biology", "midterm", 10, "Intro", 120),
		videoRow(1, "Cell Biology", "midterm", 11, "Membranes", 240),
		videoRow(2, "Genetics", "final", 12, "DNA", 300),
		{ChapterID: 3, ChapterTitle: "Empty Chapter", SectionType: "final"},
	}
	completed := map[int64]bool{10: true, 11: true}

	sections, _, _ := buildSections(rows, completed)

	midterm := sections[0].Chapters[0]
	if midterm.Completed == nil || !*midterm.Completed {
		t.Error("fully watched chapter not marked completed")
	}
	if midterm.Videos[0].Completed == nil || !*midterm.Videos[0].Completed {
		t.Error("watched video not marked completed")
	}

	genetics := sections[1].Chapters[0]
	if genetics.Completed == nil || *genetics.Completed {
		t.Error("unwatched chapter marked completed")
	}
	if genetics.Videos[0].Completed == nil || *genetics.Videos[0].Completed {
		t.Error("unwatched video marked completed")
	}

	empty := sections[1].Chapters[1]
	if empty.Completed == nil || *empty.Completed {
		t.Error("chapter without videos marked completed")
	}
}

func TestBuildSectionsEmpty(t *testing.T) {
	sections, videoCount, totalSeconds := buildSections(nil, nil)

	if sections == nil {
		t.Error("sections must serialize as an empty array, not null")
	}
	if len(sections) != 0 || videoCount != 0 || totalSeconds != 0 {
		t.Errorf("unexpected output for no rows: %+v, %d, %d", sections, videoCount, totalSeconds)
	}
}
