// SPDX-License-Identifier: EPL-2.0

package gamepcm

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ik5/gamepcm/formats"
	"github.com/ik5/gamepcm/stream"
	"github.com/ik5/gamepcm/streamfile"
)

// Open detects and opens the audio file at path, returning a prepared
// stream ready for Render. The file handle given to detection is
// released before returning; the stream holds its own references.
func Open(path string) (*stream.Stream, error) {
	return OpenOptions(path, formats.Options{})
}

// OpenOptions is Open with detection options (subsong selection,
// filter relaxation).
func OpenOptions(path string, opt formats.Options) (*stream.Stream, error) {
	sf, err := streamfile.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer sf.Close()

	s, err := formats.Identify(sf, opt)
	if err != nil {
		return nil, fmt.Errorf("identify %s: %w", path, err)
	}
	return s, nil
}

// OpenFile detects and opens an already acquired stream file. The
// caller keeps ownership of sf and may close it once OpenFile returns.
func OpenFile(sf *streamfile.File, opt formats.Options) (*stream.Stream, error) {
	return formats.Identify(sf, opt)
}

// TitleConfig adjusts how Title builds a display name.
type TitleConfig struct {
	// RemoveExtension strips the file extension from the base name.
	RemoveExtension bool
	// RemoveArchive drops an archive prefix of the form "bank.awb#3|".
	RemoveArchive bool
}

// Title builds a display title for a stream opened from path: the base
// file name, a " #N" suffix when the file carries multiple subsongs,
// and the internal stream name when the format provides one.
func Title(path string, s *stream.Stream, cfg TitleConfig) string {
	name := filepath.Base(path)

	if cfg.RemoveArchive {
		if i := strings.LastIndex(name, "|"); i >= 0 && i+1 < len(name) {
			name = name[i+1:]
		}
	}
	if cfg.RemoveExtension {
		if ext := filepath.Ext(name); ext != "" {
			name = name[:len(name)-len(ext)]
		}
	}

	if s == nil {
		return name
	}
	if s.NumStreams > 1 {
		name = fmt.Sprintf("%s #%d", name, s.StreamIndex)
	}
	if s.StreamName != "" {
		name = fmt.Sprintf("%s (%s)", name, s.StreamName)
	}
	return name
}
