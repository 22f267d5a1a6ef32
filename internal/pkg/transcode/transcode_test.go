package transcode

import (
	"testing"
)

func TestPlayerKeyURL(t *testing.T) {
	got := PlayerKeyURL("https://host/api/v1/videos/key", "abc-123")
	want := "https://host/api/v1/videos/key/abc-123"
	if got != want {
		t.Errorf("PlayerKeyURL = %q, want %q", got, want)
	}
}

func TestPlayerSegmentBase(t *testing.T) {
	base := PlayerSegmentBase("https://host/api/v1/videos/segments", "abc-123")
	want := "https://host/api/v1/videos/segments/abc-123/"
	if base != want {
		t.Errorf("PlayerSegmentBase = %q, want %q", base, want)
	}

	// ffmpeg appends the segment file name directly to the base
	if base+"segment_000.ts" != "https://host/api/v1/videos/segments/abc-123/segment_000.ts" {
		t.Errorf("segment URL malformed: %q", base+"segment_000.ts")
	}
}

func TestSegmentNames(t *testing.T) {
	playlist := `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:30
#EXT-X-KEY:METHOD=AES-128,URI="https://host/api/v1/videos/key/abc"
#EXTINF:30.000000,
https://host/api/v1/videos/segments/abc/segment_000.ts
#EXTINF:30.000000,
https://host/api/v1/videos/segments/abc/segment_001.ts
#EXTINF:12.500000,
https://host/api/v1/videos/segments/abc/segment_002.ts
#EXT-X-ENDLIST
`
	names := SegmentNames(playlist)
	want := []string{"segment_000.ts", "segment_001.ts", "segment_002.ts"}
	if len(names) != len(want) {
		t.Fatalf("expected %d segments, got %d: %v", len(want), len(names), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("segment %d: expected %q, got %q", i, want[i], names[i])
		}
	}
}

func TestSegmentNamesLocalPaths(t *testing.T) {
	playlist := `#EXTM3U
#EXTINF:30.0,
segment_000.ts
#EXTINF:8.2,
segment_001.ts
#EXT-X-ENDLIST
`
	names := SegmentNames(playlist)
	if len(names) != 2 {
		t.Fatalf("expected 2 segments, got %d: %v", len(names), names)
	}
	if names[0] != "segment_000.ts" || names[1] != "segment_001.ts" {
		t.Fatalf("unexpected names: %v", names)
	}
}

func TestSegmentNamesQueryStyle(t *testing.T) {
	playlist := `#EXTM3U
#EXTINF:30.0,
https://host/segments?videoId=abc&segment=segment_000.ts
#EXT-X-ENDLIST
`
	names := SegmentNames(playlist)
	if len(names) != 1 || names[0] != "segment_000.ts" {
		t.Fatalf("unexpected names: %v", names)
	}
}

func TestNewEncryptionKey(t *testing.T) {
	dir := t.TempDir()

	key, err := newEncryptionKey(dir, "vid-1")
	if err != nil {
		t.Fatalf("newEncryptionKey failed: %v", err)
	}

	if len(key.Raw) != keyLength {
		t.Errorf("expected %d byte key, got %d", keyLength, len(key.Raw))
	}
	if len(key.Hex) != keyLength*2 {
		t.Errorf("expected %d hex chars, got %d", keyLength*2, len(key.Hex))
	}

	other, err := newEncryptionKey(dir, "vid-2")
	if err != nil {
		t.Fatalf("second key failed: %v", err)
	}
	if key.Hex == other.Hex {
		t.Error("two generated keys should not match")
	}
}
