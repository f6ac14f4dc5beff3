// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"path"
	"strings"

	"github.com/ik5/gamepcm/stream"
	"github.com/ik5/gamepcm/streamfile"
)

// Options tune format identification.
type Options struct {
	// StreamIndex selects a subsong inside container formats, first is 1.
	// Zero also means the first subsong.
	StreamIndex int

	// AcceptUnknown lets every probe inspect a file whose extension it
	// does not declare.
	AcceptUnknown bool
	// AcceptCommon admits common-container extensions in IsValid.
	AcceptCommon bool
	// RejectExtensionless refuses files without an extension.
	RejectExtensionless bool
	// SkipStandard restricts probing to the game-specific set, used for
	// isolation testing.
	SkipStandard bool
}

// openFn inspects sf and builds a prepared stream. A nil stream with a nil
// error is a normal non-match.
type openFn func(sf *streamfile.File, opt Options) (*stream.Stream, error)

// Probe is one entry of the format registry.
type Probe struct {
	// Name is a short format tag, also reported by the CLI.
	Name string
	// Extensions the probe claims, lowercase without the dot.
	Extensions []string
	// Common marks generic containers (wav, ogg...) that other software
	// handles too; they probe after the game-specific formats.
	Common bool
	// MagicOK lets the probe run on extension mismatch, accepting by
	// magic bytes alone.
	MagicOK bool

	open openFn
}

// Registry order decides probing priority: extension-specific game formats
// first, permissive and common-container probes last, so formats sharing
// header bytes resolve by declared policy.
var probes = []Probe{
	{Name: "spm", Extensions: []string{"spm"}, open: openSPM},
	{Name: "ads", Extensions: []string{"ads", "ss2"}, open: openADS},
	{Name: "sgh", Extensions: []string{"sgh"}, open: openSGH},
	{Name: "adx", Extensions: []string{"adx"}, MagicOK: true, open: openADX},
	{Name: "dsp", Extensions: []string{"dsp"}, open: openDSP},
	{Name: "ast", Extensions: []string{"ast"}, open: openAST},
	{Name: "awb", Extensions: []string{"awb"}, open: openAWB},
	{Name: "hca", Extensions: []string{"hca"}, MagicOK: true, open: openHCA},
	{Name: "genh", Extensions: []string{"genh"}, open: openGENH},
	{Name: "riff", Extensions: []string{"wav", "lwav"}, Common: true, open: openRIFF},
	{Name: "aifc", Extensions: []string{"aif", "aiff", "aifc"}, Common: true, open: openAIFC},
	{Name: "ogg", Extensions: []string{"logg", "ogg"}, Common: true, open: openOGG},
	{Name: "flac", Extensions: []string{"flac"}, Common: true, open: openFLAC},
	{Name: "mpeg", Extensions: []string{"mp3"}, Common: true, open: openMPEG},
}

// Identify runs the registry over sf in priority order and returns the
// first prepared stream. Probe mismatches are silent; ErrUnknownFormat
// reports that nothing claimed the file.
func Identify(sf *streamfile.File, opt Options) (*stream.Stream, error) {
	ext := Extension(sf.Name())
	if ext == "" && opt.RejectExtensionless {
		return nil, ErrUnknownFormat
	}

	for i := range probes {
		p := &probes[i]
		if opt.SkipStandard && p.Common {
			continue
		}
		if !p.matchExtension(ext) && !p.MagicOK && !opt.AcceptUnknown {
			continue
		}

		s, err := p.open(sf, opt)
		if err != nil {
			// A probe that errors mid-parse did not match; keep trying
			// the rest of the registry.
			continue
		}
		if s != nil {
			return s, nil
		}
	}
	return nil, ErrUnknownFormat
}

func (p *Probe) matchExtension(ext string) bool {
	for _, e := range p.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// IsValid reports whether the filename's extension belongs to a known
// format under the given acceptance flags, without opening the file.
func IsValid(name string, opt Options) bool {
	ext := Extension(name)
	if ext == "" {
		return !opt.RejectExtensionless
	}
	for i := range probes {
		p := &probes[i]
		if p.Common && !opt.AcceptCommon {
			continue
		}
		if opt.SkipStandard && p.Common {
			continue
		}
		if p.matchExtension(ext) {
			return true
		}
	}
	return opt.AcceptUnknown
}

// Extension returns the lowercase extension of name without the dot.
func Extension(name string) string {
	ext := path.Ext(strings.ReplaceAll(name, "\\", "/"))
	if ext == "" {
		return ""
	}
	return strings.ToLower(ext[1:])
}

// Extensions lists the game-specific extensions the registry claims.
func Extensions() []string {
	return extensionList(false)
}

// CommonExtensions lists the common-container extensions.
func CommonExtensions() []string {
	return extensionList(true)
}

func extensionList(common bool) []string {
	var out []string
	seen := make(map[string]bool)
	for i := range probes {
		if probes[i].Common != common {
			continue
		}
		for _, e := range probes[i].Extensions {
			if !seen[e] {
				seen[e] = true
				out = append(out, e)
			}
		}
	}
	return out
}

// finish runs descriptor validation and snapshotting. A descriptor that
// fails validation makes the whole probe a non-match, never a partial
// result; its channel handles are released here.
func finish(s *stream.Stream) (*stream.Stream, error) {
	if err := s.Prepare(); err != nil {
		s.Close()
		return nil, nil
	}
	return s, nil
}

// normalizeSubsong maps the caller's subsong selection onto [1,total].
// Zero picks the first; anything out of range is a non-match signal.
func normalizeSubsong(index, total int) (int, bool) {
	if index == 0 {
		index = 1
	}
	if index < 1 || index > total {
		return 0, false
	}
	return index, true
}
