// Package resolver expands the CLI argument list into a flat, ordered list
// of video file paths. A .txt argument is a manifest: one video path per
// line, expanded in place, depth one.
package resolver

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

var videoExtensions = map[string]bool{
	".avi":  true,
	".flv":  true,
	".m4v":  true,
	".mkv":  true,
	".mov":  true,
	".mp4":  true,
	".mpeg": true,
	".mpg":  true,
	".ts":   true,
	".webm": true,
	".wmv":  true,
}

type Resolver struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Resolver {
	return &Resolver{logger: logger}
}

// Resolve maps CLI tokens to video paths, left to right. Manifests expand
// where they appear; unusable tokens are skipped with a warning, never
// fatal. Duplicates pass through as given.
func (r *Resolver) Resolve(tokens []string) []string {
	var inputs []string
	for _, token := range tokens {
		if isManifest(token) {
			inputs = append(inputs, r.readManifest(token)...)
			continue
		}
		if r.isVideo(token) {
			inputs = append(inputs, token)
		}
	}
	return inputs
}

func (r *Resolver) isVideo(path string) bool {
	if !videoExtensions[strings.ToLower(filepath.Ext(path))] {
		r.logger.Warn("not a video or manifest file, skipping", zap.String("path", path))
		return false
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		r.logger.Warn("input file does not exist, skipping", zap.String("path", path))
		return false
	}
	return true
}

// readManifest reads one path per line. Nested manifests are not expanded.
func (r *Resolver) readManifest(path string) []string {
	file, err := os.Open(path)
	if err != nil {
		r.logger.Warn("cannot open manifest, skipping", zap.String("path", path), zap.Error(err))
		return nil
	}
	defer file.Close()

	var inputs []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if isManifest(line) {
			r.logger.Warn("nested manifest not expanded, skipping", zap.String("path", line))
			continue
		}
		if r.isVideo(line) {
			inputs = append(inputs, line)
		}
	}
	if err := scanner.Err(); err != nil {
		r.logger.Warn("error reading manifest", zap.String("path", path), zap.Error(err))
	}
	return inputs
}

func isManifest(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".txt")
}
