// Package source resolves the command line source into an ordered URL list.
package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/m3uget/internal/utils"
)

const maxLineSize = 1024 * 1024

// Load returns the URLs named by source. An s3:// URI or an existing file is
// read as a list; anything else is treated as a single URL.
func Load(ctx context.Context, source string) ([]string, error) {
	if isS3URI(source) {
		return loadS3(ctx, source, nil)
	}
	info, err := os.Stat(source)
	if err != nil {
		// Missing paths and URL-shaped strings that cannot be stat'ed alike.
		log.Debug().Str("op", "source/loader").Msgf("Treating source as a single URL: %v", err)
		return []string{source}, nil
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w %s: not a regular file", utils.ErrSourceAccess, source)
	}
	return loadFile(source)
}

func loadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", utils.ErrSourceAccess, path, err)
	}
	defer f.Close()

	var urls []string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		urls, err = parseYAML(f)
	default:
		urls, err = parseLines(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", utils.ErrSourceAccess, path, err)
	}
	log.Debug().Str("op", "source/loader").Msgf("Read %d URLs from %s", len(urls), path)
	return urls, nil
}

// parseLines keeps non-blank lines that do not start with '#', trimmed and
// in order.
func parseLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	var urls []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, fmt.Errorf("line longer than %d bytes", maxLineSize)
		}
		return nil, err
	}
	return urls, nil
}
