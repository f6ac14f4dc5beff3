// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"fmt"

	"github.com/ik5/gamepcm/streamfile"
)

// Coding identifies the sample codec of a stream.
type Coding int

const (
	CodingNone Coding = iota
	CodingPCM16LE
	CodingPCM16BE
	CodingPCM8
	CodingPCM8U
	CodingPSX
	CodingNGCDSP
	CodingCRIADX
	CodingIMA
	CodingMSIMA
	CodingMSADPCM
	CodingSDX2
	CodingDelegate
)

func (c Coding) String() string {
	switch c {
	case CodingPCM16LE:
		return "16-bit PCM (little endian)"
	case CodingPCM16BE:
		return "16-bit PCM (big endian)"
	case CodingPCM8:
		return "8-bit signed PCM"
	case CodingPCM8U:
		return "8-bit unsigned PCM"
	case CodingPSX:
		return "PlayStation 4-bit ADPCM"
	case CodingNGCDSP:
		return "Nintendo DSP 4-bit ADPCM"
	case CodingCRIADX:
		return "CRI ADX 4-bit ADPCM"
	case CodingIMA:
		return "IMA 4-bit ADPCM"
	case CodingMSIMA:
		return "Microsoft 4-bit IMA ADPCM"
	case CodingMSADPCM:
		return "Microsoft 4-bit ADPCM"
	case CodingSDX2:
		return "SDX2 2:1 squareroot-delta"
	case CodingDelegate:
		return "library-decoded stream"
	default:
		return "unknown coding"
	}
}

// Layout identifies how channel data is arranged in the file.
type Layout int

const (
	LayoutFlat Layout = iota
	LayoutInterleave
	LayoutBlockedAST
)

func (l Layout) String() string {
	switch l {
	case LayoutFlat:
		return "flat"
	case LayoutInterleave:
		return "interleaved"
	case LayoutBlockedAST:
		return "AST blocked"
	default:
		return "unknown layout"
	}
}

// channelState is one channel's file cursor plus codec history. Decode
// routines address bytes relative to offset, which the layout advances.
type channelState struct {
	sf          *streamfile.File
	startOffset int64
	offset      int64

	// ADPCM history. hist1/hist2 serve PSX, DSP, ADX and SDX2; stepIndex
	// serves the IMA family.
	hist1, hist2 int32
	stepIndex    int32

	coefs              [16]int16 // NGC DSP, from the file header
	adxCoef1, adxCoef2 int32

	// MS ADPCM block state, refreshed at each block header.
	msPredictor int32
	msDelta     int32
	msSamp1     int32
	msSamp2     int32
}

// snapshot captures everything needed to rewind decoding to a position:
// per-channel cursors and codec history plus block tracking. Streamfile
// handles are shared, not copied.
type snapshot struct {
	ch               []channelState
	currentSample    int
	samplesIntoBlock int

	blockOffset  int64
	nextBlock    int64
	blockSamples int
}

// Stream is a decodable audio stream: the descriptor filled by a format
// probe plus all decode state.
type Stream struct {
	Channels            int
	SampleRate          int
	NumSamples          int
	Coding              Coding
	Layout              Layout
	InterleaveBlockSize int
	FrameSize           int // block align for block-based codecs
	LoopFlag            bool
	LoopStartSample     int
	LoopEndSample       int
	NumStreams          int
	StreamIndex         int
	StreamName          string

	ch       []channelState
	delegate DelegateDecoder

	// position within the source sample timeline
	currentSample    int
	samplesIntoBlock int

	// blocked layout tracking
	blockOffset  int64
	nextBlock    int64
	blockSamples int

	// output timeline
	produced  int
	loopsDone int

	cfg        Config
	configured bool
	locked     bool

	// loop fields as the probe filled them, before config overrides
	origLoopFlag  bool
	origLoopStart int
	origLoopEnd   int

	prepared      bool
	renderStarted bool

	start     *snapshot
	loop      *snapshot
	loopReady bool

	mix *Mixer

	decode     decodeFn
	discardBuf []int16
}

// New allocates a stream descriptor for the given channel count. The caller
// fills the public fields, attaches channel streamfiles, then calls Prepare.
func New(channels int, loopFlag bool) *Stream {
	return &Stream{
		Channels: channels,
		LoopFlag: loopFlag,
		ch:       make([]channelState, channels),
	}
}

// UseChannel attaches an owned streamfile handle for channel i, positioned
// at the first byte of that channel's data. The stream takes ownership and
// closes the handle on Close.
func (s *Stream) UseChannel(i int, sf *streamfile.File, startOffset int64) {
	s.ch[i].sf = sf
	s.ch[i].startOffset = startOffset
	s.ch[i].offset = startOffset
}

// UseDelegate attaches a whole-stream decoder for CodingDelegate streams.
func (s *Stream) UseDelegate(d DelegateDecoder) {
	s.delegate = d
}

// SetDSPCoefs installs the 16 predictor coefficients for channel i.
func (s *Stream) SetDSPCoefs(i int, coefs [16]int16) {
	s.ch[i].coefs = coefs
}

// SetDSPHistory seeds channel i's decoder history from header values.
func (s *Stream) SetDSPHistory(i int, hist1, hist2 int16) {
	s.ch[i].hist1 = int32(hist1)
	s.ch[i].hist2 = int32(hist2)
}

// SetADXCoefs installs the derived prediction coefficients on every channel.
func (s *Stream) SetADXCoefs(coef1, coef2 int32) {
	for i := range s.ch {
		s.ch[i].adxCoef1 = coef1
		s.ch[i].adxCoef2 = coef2
	}
}

// Prepare validates the descriptor, resolves the decode routine and takes
// the open-position snapshot. It must run once before any decoding.
func (s *Stream) Prepare() error {
	if s.prepared {
		return nil
	}

	if err := s.validate(); err != nil {
		return err
	}

	if s.Coding != CodingDelegate {
		dec, err := decoderFor(s)
		if err != nil {
			return err
		}
		s.decode = dec

		if s.Layout == LayoutBlockedAST {
			if err := s.firstBlock(); err != nil {
				return fmt.Errorf("first block: %w", err)
			}
		}
	}

	s.origLoopFlag = s.LoopFlag
	s.origLoopStart = s.LoopStartSample
	s.origLoopEnd = s.LoopEndSample

	s.start = s.capture()
	s.prepared = true
	return nil
}

func (s *Stream) validate() error {
	if s.Channels < 1 || len(s.ch) != s.Channels {
		return fmt.Errorf("%d channels: %w", s.Channels, ErrBadDescriptor)
	}
	if s.SampleRate <= 0 {
		return fmt.Errorf("sample rate %d: %w", s.SampleRate, ErrBadDescriptor)
	}
	if s.NumSamples <= 0 {
		return fmt.Errorf("sample count %d: %w", s.NumSamples, ErrBadDescriptor)
	}
	if s.LoopFlag {
		if s.LoopStartSample < 0 || s.LoopStartSample >= s.LoopEndSample || s.LoopEndSample > s.NumSamples {
			return fmt.Errorf("loop %d..%d of %d: %w",
				s.LoopStartSample, s.LoopEndSample, s.NumSamples, ErrBadDescriptor)
		}
	}
	if s.NumStreams > 1 {
		if s.StreamIndex < 1 || s.StreamIndex > s.NumStreams {
			return fmt.Errorf("subsong %d of %d: %w", s.StreamIndex, s.NumStreams, ErrBadDescriptor)
		}
	}

	if s.Coding == CodingDelegate {
		if s.delegate == nil {
			return fmt.Errorf("no delegate decoder: %w", ErrBadDescriptor)
		}
		return nil
	}

	for i := range s.ch {
		if s.ch[i].sf == nil {
			return fmt.Errorf("channel %d has no streamfile: %w", i, ErrBadDescriptor)
		}
	}
	if s.Layout == LayoutInterleave && s.InterleaveBlockSize <= 0 {
		return fmt.Errorf("interleave %d: %w", s.InterleaveBlockSize, ErrBadDescriptor)
	}
	switch s.Coding {
	case CodingMSADPCM, CodingMSIMA:
		if s.FrameSize <= 0 {
			return fmt.Errorf("block align %d: %w", s.FrameSize, ErrBadDescriptor)
		}
	}
	return nil
}

// capture copies the rewindable decode state.
func (s *Stream) capture() *snapshot {
	snap := &snapshot{
		ch:               make([]channelState, len(s.ch)),
		currentSample:    s.currentSample,
		samplesIntoBlock: s.samplesIntoBlock,
		blockOffset:      s.blockOffset,
		nextBlock:        s.nextBlock,
		blockSamples:     s.blockSamples,
	}
	copy(snap.ch, s.ch)
	return snap
}

// restore rewinds decode state to a snapshot. Streamfile handles are left
// as they are; only cursors and codec history move.
func (s *Stream) restore(snap *snapshot) {
	copy(s.ch, snap.ch)
	s.currentSample = snap.currentSample
	s.samplesIntoBlock = snap.samplesIntoBlock
	s.blockOffset = snap.blockOffset
	s.nextBlock = snap.nextBlock
	s.blockSamples = snap.blockSamples
}

// Reset rewinds the stream to its open position: channel cursors, codec
// history and the output position. The applied config survives.
func (s *Stream) Reset() error {
	if !s.prepared {
		return ErrNotPrepared
	}

	if s.delegate != nil {
		if err := s.delegate.Seek(0); err != nil {
			return fmt.Errorf("delegate reset: %w", err)
		}
	}
	s.restore(s.start)
	s.produced = 0
	s.loopsDone = 0
	s.loopReady = false
	s.loop = nil
	return nil
}

// Looping reports whether rendering will wrap at the loop end under the
// applied config.
func (s *Stream) Looping() bool {
	if !s.LoopFlag {
		return false
	}
	if !s.configured {
		return false
	}
	return s.cfg.PlayForever || s.cfg.LoopCount > 0
}

// InputChannels returns the channel count decoded from the source.
func (s *Stream) InputChannels() int { return s.Channels }

// OutputChannels returns the channel count Render writes, after mixing.
func (s *Stream) OutputChannels() int {
	if s.mix != nil && s.mix.enabled {
		return s.mix.outputChannels
	}
	return s.Channels
}

// Position returns the output frame position of the next Render call.
func (s *Stream) Position() int { return s.produced }

// Close releases every channel's streamfile handle and the delegate
// decoder. Safe to call more than once.
func (s *Stream) Close() error {
	var first error
	for i := range s.ch {
		if s.ch[i].sf == nil {
			continue
		}
		if err := s.ch[i].sf.Close(); err != nil && first == nil {
			first = err
		}
		s.ch[i].sf = nil
	}
	if s.delegate != nil {
		if err := s.delegate.Close(); err != nil && first == nil {
			first = err
		}
		s.delegate = nil
	}
	if first != nil {
		return fmt.Errorf("%w", first)
	}
	return nil
}
