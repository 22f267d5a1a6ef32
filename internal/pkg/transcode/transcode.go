package transcode

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/medplus/academy-api/internal/pkg/storage"
)

// Config holds transcoder settings
type Config struct {
	FFmpegPath     string
	FFprobePath    string
	SegmentSeconds int
	// KeyURLBase is the endpoint players hit to fetch the decryption key,
	// e.g. "https://host/api/v1/videos/key". The video identifier is appended
	// as a path segment.
	KeyURLBase string
	// SegmentURLBase is the endpoint serving segments through signed URLs.
	// Segment URLs are <base>/<identifier>/<segment name>.
	SegmentURLBase string
	// WorkDir is where temporary transcode directories are created.
	WorkDir string
}

// Result describes a finished transcode run
type Result struct {
	Identifier   string
	PlaylistKey  string
	KeyHex       string
	Duration     int
	SegmentCount int
}

// Pipeline converts uploaded videos into AES-encrypted HLS renditions and
// pushes the playlist and segments to object storage.
type Pipeline struct {
	cfg   Config
	store storage.Storage
}

// NewPipeline creates a transcode pipeline
func NewPipeline(cfg Config, store storage.Storage) *Pipeline {
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	if cfg.FFprobePath == "" {
		cfg.FFprobePath = "ffprobe"
	}
	if cfg.SegmentSeconds <= 0 {
		cfg.SegmentSeconds = 30
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = os.TempDir()
	}
	return &Pipeline{cfg: cfg, store: store}
}

// Run transcodes the input file into an encrypted HLS rendition and uploads
// it under videos/<identifier>/. The temp directory is removed on return.
func (p *Pipeline) Run(ctx context.Context, inputPath string) (*Result, error) {
	identifier := uuid.New().String()
	outputDir := filepath.Join(p.cfg.WorkDir, "transcode-"+identifier)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create work dir: %w", err)
	}
	defer os.RemoveAll(outputDir)

	key, err := newEncryptionKey(outputDir, identifier)
	if err != nil {
		return nil, err
	}

	// key_info file: first line is the URL players fetch the key from,
	// second is the local key path ffmpeg encrypts with.
	keyInfoPath := filepath.Join(outputDir, "key_info.txt")
	keyURL := PlayerKeyURL(p.cfg.KeyURLBase, identifier)
	if err := os.WriteFile(keyInfoPath, []byte(keyURL+"\n"+key.FilePath+"\n"), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write key info: %w", err)
	}

	playlistPath := filepath.Join(outputDir, "playlist.m3u8")
	segmentPattern := filepath.Join(outputDir, "segment_%03d.ts")
	segmentBaseURL := PlayerSegmentBase(p.cfg.SegmentURLBase, identifier)

	args := []string{
		"-i", inputPath,
		"-hls_time", strconv.Itoa(p.cfg.SegmentSeconds),
		"-hls_key_info_file", keyInfoPath,
		"-hls_segment_filename", segmentPattern,
		"-hls_base_url", segmentBaseURL,
		"-hls_playlist_type", "vod",
		playlistPath,
	}

	log.Info().Str("identifier", identifier).Str("input", inputPath).Msg("Starting HLS transcode")
	cmd := exec.CommandContext(ctx, p.cfg.FFmpegPath, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		log.Error().Err(err).Str("output", string(out)).Msg("ffmpeg failed")
		return nil, fmt.Errorf("ffmpeg failed: %w", err)
	}

	playlist, err := os.ReadFile(playlistPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read playlist: %w", err)
	}
	segments := SegmentNames(string(playlist))

	duration, err := p.probeDuration(ctx, inputPath)
	if err != nil {
		return nil, err
	}

	prefix := "videos/" + identifier + "/"
	if err := p.store.Put(ctx, prefix+"playlist.m3u8", strings.NewReader(string(playlist)), "application/vnd.apple.mpegurl"); err != nil {
		return nil, err
	}
	for _, name := range segments {
		f, err := os.Open(filepath.Join(outputDir, name))
		if err != nil {
			return nil, fmt.Errorf("segment %s missing after transcode: %w", name, err)
		}
		err = p.store.Put(ctx, prefix+name, f, "video/mp2t")
		f.Close()
		if err != nil {
			return nil, err
		}
	}

	log.Info().
		Str("identifier", identifier).
		Int("segments", len(segments)).
		Int("duration_sec", duration).
		Msg("Transcode complete")

	return &Result{
		Identifier:   identifier,
		PlaylistKey:  prefix + "playlist.m3u8",
		KeyHex:       key.Hex,
		Duration:     duration,
		SegmentCount: len(segments),
	}, nil
}

// PlayerKeyURL builds the key URI baked into the playlist. It resolves to
// the key route, <base>/{identifier}.
func PlayerKeyURL(base, identifier string) string {
	return base + "/" + identifier
}

// PlayerSegmentBase builds the hls_base_url prefix segment names are
// appended to. Resulting URLs resolve to the segment route,
// <base>/{identifier}/{name}.
func PlayerSegmentBase(base, identifier string) string {
	return base + "/" + identifier + "/"
}

// probeDuration reads the container duration in whole seconds
func (p *Pipeline) probeDuration(ctx context.Context, inputPath string) (int, error) {
	cmd := exec.CommandContext(ctx, p.cfg.FFprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		inputPath,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected ffprobe output %q: %w", string(out), err)
	}
	return int(seconds + 0.5), nil
}

// SegmentNames extracts segment file names referenced by an HLS playlist,
// in playlist order. Base URLs and query strings are stripped.
func SegmentNames(playlist string) []string {
	var names []string
	for _, line := range strings.Split(playlist, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if idx := strings.LastIndexByte(line, '='); idx >= 0 {
			line = line[idx+1:]
		}
		if idx := strings.LastIndexByte(line, '/'); idx >= 0 {
			line = line[idx+1:]
		}
		if strings.HasSuffix(line, ".ts") {
			names = append(names, line)
		}
	}
	return names
}
