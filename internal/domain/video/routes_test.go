package video

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/medplus/academy-api/internal/pkg/transcode"
)

func passthrough(next http.Handler) http.Handler { return next }

// The transcoder bakes key and segment URLs into the playlist at upload
// time; those URLs must resolve to the routes registered here or players
// get 404s on every fetch. URL bases are relative to the router mount.
func TestPlayerURLsMatchRoutes(t *testing.T) {
	r := NewHandler(nil).Routes(passthrough, passthrough)

	identifier := "8f14e45f-ceea-467f-ab1c-9d9a2f6ec4ce"

	keyURL := transcode.PlayerKeyURL("/key", identifier)
	rctx := chi.NewRouteContext()
	if !r.Match(rctx, http.MethodGet, keyURL) {
		t.Errorf("key URL %q does not match any route", keyURL)
	}
	if got := rctx.URLParam("identifier"); got != identifier {
		t.Errorf("key identifier param = %q, want %q", got, identifier)
	}

	segmentURL := transcode.PlayerSegmentBase("/segments", identifier) + "segment_000.ts"
	rctx = chi.NewRouteContext()
	if !r.Match(rctx, http.MethodGet, segmentURL) {
		t.Errorf("segment URL %q does not match any route", segmentURL)
	}
	if got := rctx.URLParam("identifier"); got != identifier {
		t.Errorf("segment identifier param = %q, want %q", got, identifier)
	}
	if got := rctx.URLParam("name"); got != "segment_000.ts" {
		t.Errorf("segment name param = %q, want segment_000.ts", got)
	}
}
