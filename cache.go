package main

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/phobologic/stylegen/internal/config"
	"github.com/phobologic/stylegen/internal/discover"
)

const cacheHeaderPrefix = "# stylegen-cache "

// cacheKey hashes everything besides file contents that shapes the output:
// the effective configuration, the discovered file list and the version.
func cacheKey(cfg *config.Config, files []discover.FileEntry) (string, error) {
	keyed := *cfg
	keyed.Cache = ""
	data, err := yaml.Marshal(keyed)
	if err != nil {
		return "", fmt.Errorf("encoding cache key: %w", err)
	}

	h := sha256.New()
	_, _ = fmt.Fprintf(h, "%s\n", version)
	_, _ = h.Write(data)
	for _, f := range files {
		_, _ = fmt.Fprintf(h, "%s\x00%s\n", f.Path, f.Language)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// readCache returns the cached output if the cache was written under key
// and nothing it depends on is newer than it.
func readCache(cachePath, key, root string, files []discover.FileEntry) ([]byte, bool) {
	if !cacheIsFresh(cachePath, root, files) {
		return nil, false
	}
	data, err := os.ReadFile(cachePath)
	if err != nil {
		return nil, false
	}
	header, body, ok := bytes.Cut(data, []byte("\n"))
	if !ok || string(header) != cacheHeaderPrefix+key {
		return nil, false
	}
	return body, true
}

func writeCache(cachePath, key string, output []byte) error {
	data := append([]byte(cacheHeaderPrefix+key+"\n"), output...)
	return os.WriteFile(cachePath, data, 0o644)
}

func cacheIsFresh(cachePath, root string, files []discover.FileEntry) bool {
	cacheInfo, err := os.Stat(cachePath)
	if err != nil {
		return false
	}
	cacheMtime := cacheInfo.ModTime()

	paths := []string{filepath.Join(root, config.FileName)}
	for _, f := range files {
		paths = append(paths, filepath.Join(root, f.Path))
	}
	for i, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			if i == 0 {
				continue // no project config
			}
			return false
		}
		if !fi.ModTime().Before(cacheMtime) {
			return false
		}
	}
	return true
}
