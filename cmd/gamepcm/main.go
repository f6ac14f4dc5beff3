// SPDX-License-Identifier: EPL-2.0

// Command gamepcm decodes game audio streams to wav files or raw PCM
// on stdout.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/ik5/gamepcm"
	"github.com/ik5/gamepcm/formats"
	"github.com/ik5/gamepcm/stream"
	"github.com/ik5/gamepcm/streamfile"
	"github.com/ik5/gamepcm/tags"
	"github.com/ik5/gamepcm/wave"
)

const renderFrames = 32768

type cliConfig struct {
	inFile  string
	outFile string

	loopCount float64
	fadeTime  float64
	fadeDelay float64

	ignoreLoop      bool
	forceLoop       bool
	reallyForceLoop bool
	ignoreFade      bool
	playForever     bool

	playStdout   bool
	playReckless bool
	metaOnly     bool
	metaJSON     bool
	decodeOnly   bool
	writeLoopWav bool
	testReset    bool

	onlyStereo int
	subsong    int
	downmix    int
	seek1      int
	seek2      int

	tagFile     string
	showTitle   bool
	validateExt bool

	// loop points carried into the wav smpl chunk with -L
	lwavLoopStart int
	lwavLoopEnd   int
}

func parseConfig() (*cliConfig, error) {
	cfg := &cliConfig{}

	flag.StringVar(&cfg.outFile, "o", "", "output `file` (?s=subsong, ?n=stream name, ?f=input name)")
	flag.Float64Var(&cfg.loopCount, "l", 2.0, "loop `count`")
	flag.Float64Var(&cfg.fadeTime, "f", 10.0, "fade time in `seconds`")
	flag.Float64Var(&cfg.fadeDelay, "d", 0, "fade delay in `seconds`")
	flag.BoolVar(&cfg.ignoreLoop, "i", false, "ignore looping information")
	flag.BoolVar(&cfg.forceLoop, "e", false, "force end-to-end looping")
	flag.BoolVar(&cfg.reallyForceLoop, "E", false, "force end-to-end looping even if file has real loop points")
	flag.BoolVar(&cfg.ignoreFade, "F", false, "don't fade after N loops, play stream end")
	flag.BoolVar(&cfg.playStdout, "p", false, "write raw PCM to stdout")
	flag.BoolVar(&cfg.playReckless, "P", false, "as -p, even when stdout is a terminal")
	flag.BoolVar(&cfg.playForever, "c", false, "loop forever (needs -p or -P)")
	flag.BoolVar(&cfg.metaOnly, "m", false, "print metadata only, don't decode")
	flag.BoolVar(&cfg.metaJSON, "I", false, "print metadata as JSON, don't decode")
	flag.BoolVar(&cfg.decodeOnly, "O", false, "decode without writing output")
	flag.BoolVar(&cfg.writeLoopWav, "L", false, "write loop points as a wav smpl chunk, don't loop")
	flag.BoolVar(&cfg.testReset, "r", false, "decode twice with a reset in between, write .reset.wav")
	flag.IntVar(&cfg.onlyStereo, "2", -1, "only output the selected stereo `pair`")
	flag.IntVar(&cfg.subsong, "s", 0, "select `subsong` N when the file holds several")
	flag.IntVar(&cfg.downmix, "D", 0, "downmix to `N` channels")
	flag.IntVar(&cfg.seek1, "k", -1, "seek to `sample` before decoding (-2 = loop start)")
	flag.IntVar(&cfg.seek2, "K", -1, "seek again to `sample` (after -k)")
	flag.StringVar(&cfg.tagFile, "t", "", "print tags from tag `file`")
	flag.BoolVar(&cfg.showTitle, "T", false, "print stream title")
	flag.BoolVar(&cfg.validateExt, "v", false, "only accept recognized extensions")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return nil, fmt.Errorf("expected one input file, got %d", flag.NArg())
	}
	cfg.inFile = flag.Arg(0)
	if cfg.playReckless {
		cfg.playStdout = true
	}
	if cfg.metaJSON {
		cfg.metaOnly = true
	}
	return cfg, nil
}

func validateConfig(cfg *cliConfig) error {
	if cfg.playStdout && !cfg.playReckless && stdoutIsTerminal() {
		return fmt.Errorf("refusing to write wave data to the terminal, use -P to override")
	}
	if cfg.playForever && !cfg.playStdout {
		return fmt.Errorf("-c must use -p or -P")
	}
	if cfg.playStdout && cfg.outFile != "" {
		return fmt.Errorf("use either -p or -o")
	}
	return nil
}

func stdoutIsTerminal() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("gamepcm: ")

	cfg, err := parseConfig()
	if err != nil {
		log.Fatal(err)
	}
	if err = validateConfig(cfg); err != nil {
		log.Fatal(err)
	}
	if err = run(cfg); err != nil {
		log.Fatal(err)
	}
}

func run(cfg *cliConfig) error {
	if cfg.validateExt && !formats.IsValid(cfg.inFile, formats.Options{}) {
		return fmt.Errorf("unsupported extension: %s", cfg.inFile)
	}

	s, err := gamepcm.OpenOptions(cfg.inFile, formats.Options{StreamIndex: cfg.subsong})
	if err != nil {
		return fmt.Errorf("failed opening %s: %w", cfg.inFile, err)
	}
	defer s.Close()

	if err = applyConfig(s, cfg); err != nil {
		return err
	}

	// enable after config but before the buffer is sized
	if cfg.downmix > 0 {
		if err = s.AutoDownmix(cfg.downmix); err != nil {
			return fmt.Errorf("downmix: %w", err)
		}
	}
	_, channels, err := s.EnableMixing(renderFrames)
	if err != nil {
		return fmt.Errorf("mixing: %w", err)
	}

	lenSamples := s.SampleCount()
	if lenSamples <= 0 && !cfg.playForever {
		return fmt.Errorf("nothing to decode in %s", cfg.inFile)
	}

	var outfile io.Writer
	var outClose func() error
	if cfg.playStdout {
		outfile = os.Stdout
	} else if !cfg.metaOnly && !cfg.decodeOnly {
		if cfg.outFile == "" {
			cfg.outFile = cfg.inFile + ".wav"
		} else if strings.ContainsRune(cfg.outFile, '?') {
			cfg.outFile = replaceFilename(cfg.outFile, cfg.inFile, s)
		}
		if cfg.outFile == cfg.inFile {
			return fmt.Errorf("same infile and outfile name: %s", cfg.outFile)
		}
		f, err := os.Create(cfg.outFile)
		if err != nil {
			return fmt.Errorf("failed to open %s for output: %w", cfg.outFile, err)
		}
		outfile = f
		outClose = f.Close
	}

	if cfg.metaJSON {
		printJSONInfo(s)
	} else {
		printInfo(s, cfg)
		printTags(cfg)
		printTitle(s, cfg)
	}
	if cfg.metaOnly {
		return nil
	}

	// seek sanity, mirrored into the output length
	if cfg.seek1 < -1 {
		cfg.seek1 = s.LoopStartSample
	}
	if cfg.seek1 >= lenSamples {
		cfg.seek1 = -1
	}
	if cfg.seek2 >= lenSamples {
		cfg.seek2 = -1
	}
	if cfg.seek2 >= 0 {
		lenSamples -= cfg.seek2
	} else if cfg.seek1 >= 0 {
		lenSamples -= cfg.seek1
	}

	buf := make([]int16, renderFrames*channels)

	for cfg.playForever {
		n, err := s.Render(buf)
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		if err = writePCM(outfile, buf[:n*channels], channels, cfg.onlyStereo); err != nil {
			return err
		}
	}

	if err = writeAll(s, outfile, buf, lenSamples, channels, cfg); err != nil {
		return err
	}
	if outClose != nil {
		if err = outClose(); err != nil {
			return fmt.Errorf("%w", err)
		}
	}

	if cfg.testReset {
		resetName := cfg.outFile + ".reset.wav"
		f, err := os.Create(resetName)
		if err != nil {
			return fmt.Errorf("failed to open %s for output: %w", resetName, err)
		}
		if err = s.Reset(); err != nil {
			f.Close()
			return fmt.Errorf("reset: %w", err)
		}
		if err = writeAll(s, f, buf, lenSamples, channels, cfg); err != nil {
			f.Close()
			return err
		}
		if err = f.Close(); err != nil {
			return fmt.Errorf("%w", err)
		}
	}
	return nil
}

// writeAll writes one full pass: wav header, seeks, then the render loop.
func writeAll(s *stream.Stream, outfile io.Writer, buf []int16, lenSamples, channels int, cfg *cliConfig) error {
	if !cfg.decodeOnly {
		channelsWrite := channels
		if cfg.onlyStereo != -1 {
			channelsWrite = 2
		}
		h := wave.Header{
			Channels:   channelsWrite,
			SampleRate: s.SampleRate,
			Frames:     lenSamples,
		}
		if cfg.writeLoopWav && cfg.lwavLoopStart < cfg.lwavLoopEnd {
			h.Loop = true
			h.LoopStart = cfg.lwavLoopStart
			h.LoopEnd = cfg.lwavLoopEnd
		}
		if err := wave.WriteHeader(outfile, h); err != nil {
			return fmt.Errorf("header: %w", err)
		}
	}

	if cfg.seek1 >= 0 {
		if err := s.Seek(cfg.seek1); err != nil {
			return fmt.Errorf("seek: %w", err)
		}
	}
	if cfg.seek2 >= 0 {
		if err := s.Seek(cfg.seek2); err != nil {
			return fmt.Errorf("seek: %w", err)
		}
	}

	for done := 0; done < lenSamples; {
		toGet := min(renderFrames, lenSamples-done)
		n, err := s.Render(buf[:toGet*channels])
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		if n == 0 {
			break
		}
		if !cfg.decodeOnly {
			if err = writePCM(outfile, buf[:n*channels], channels, cfg.onlyStereo); err != nil {
				return err
			}
		}
		done += n
	}
	return nil
}

// writePCM writes interleaved samples, optionally slicing out one
// stereo pair.
func writePCM(w io.Writer, samples []int16, channels, onlyStereo int) error {
	if onlyStereo != -1 {
		frames := len(samples) / channels
		pair := make([]int16, 0, frames*2)
		for f := range frames {
			base := f*channels + onlyStereo*2
			pair = append(pair, samples[base], samples[base+1])
		}
		samples = pair
	}
	if err := wave.WriteSamples(w, samples); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func applyConfig(s *stream.Stream, cfg *cliConfig) error {
	vcfg := stream.Config{
		LoopCount:       cfg.loopCount,
		FadeTime:        cfg.fadeTime,
		FadeDelay:       cfg.fadeDelay,
		IgnoreLoop:      cfg.ignoreLoop,
		ForceLoop:       cfg.forceLoop,
		ReallyForceLoop: cfg.reallyForceLoop,
		IgnoreFade:      cfg.ignoreFade,
		PlayForever:     cfg.playForever,
	}

	// write loop points in the wav, but don't actually loop
	if cfg.writeLoopWav {
		vcfg.DisableOverride = true
		vcfg.IgnoreLoop = true
		if s.LoopStartSample < s.LoopEndSample {
			cfg.lwavLoopStart = s.LoopStartSample
			// the smpl chunk's end sample is inclusive
			cfg.lwavLoopEnd = s.LoopEndSample - 1
		}
	}

	if err := s.Configure(vcfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func printInfo(s *stream.Stream, cfg *cliConfig) {
	if cfg.playStdout {
		return
	}
	if cfg.metaOnly {
		fmt.Printf("metadata for %s\n", cfg.inFile)
	} else {
		fmt.Printf("decoding %s\n", cfg.inFile)
	}

	fmt.Printf("sample rate: %d Hz\n", s.SampleRate)
	fmt.Printf("channels: %d\n", s.InputChannels())
	if s.Looping() {
		fmt.Printf("loop start: %d samples\n", s.LoopStartSample)
		fmt.Printf("loop end: %d samples\n", s.LoopEndSample)
	}
	fmt.Printf("stream total samples: %d\n", s.NumSamples)
	fmt.Printf("encoding: %s\n", s.Coding)
	fmt.Printf("layout: %s\n", s.Layout)
	if s.InterleaveBlockSize > 0 {
		fmt.Printf("interleave: %#x bytes\n", s.InterleaveBlockSize)
	}
	if s.NumStreams > 1 {
		fmt.Printf("stream index: %d of %d\n", s.StreamIndex, s.NumStreams)
	}
	if s.StreamName != "" {
		fmt.Printf("stream name: %s\n", s.StreamName)
	}
	fmt.Printf("play samples: %d\n", s.SampleCount())
}

type jsonLoop struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type jsonInfo struct {
	SampleRate  int       `json:"sampleRate"`
	Channels    int       `json:"channels"`
	NumSamples  int       `json:"numberOfSamples"`
	PlaySamples int       `json:"playSamples"`
	Encoding    string    `json:"encoding"`
	Layout      string    `json:"layout"`
	Interleave  int       `json:"interleave,omitempty"`
	Loop        *jsonLoop `json:"loopingInfo"`
	StreamIndex int       `json:"streamIndex,omitempty"`
	StreamCount int       `json:"streamCount,omitempty"`
	StreamName  string    `json:"streamName,omitempty"`
}

func printJSONInfo(s *stream.Stream) {
	info := jsonInfo{
		SampleRate:  s.SampleRate,
		Channels:    s.InputChannels(),
		NumSamples:  s.NumSamples,
		PlaySamples: s.SampleCount(),
		Encoding:    s.Coding.String(),
		Layout:      s.Layout.String(),
		Interleave:  s.InterleaveBlockSize,
		StreamIndex: s.StreamIndex,
		StreamCount: s.NumStreams,
		StreamName:  s.StreamName,
	}
	if s.Looping() {
		info.Loop = &jsonLoop{Start: s.LoopStartSample, End: s.LoopEndSample}
	}

	enc := json.NewEncoder(os.Stdout)
	if err := enc.Encode(info); err != nil {
		log.Printf("json: %s", err)
	}
}

func printTags(cfg *cliConfig) {
	if cfg.tagFile == "" || cfg.playStdout {
		return
	}

	sf, err := streamfile.Open(cfg.tagFile)
	if err != nil {
		fmt.Printf("tag file %s not found\n", cfg.tagFile)
		return
	}
	defer sf.Close()

	fmt.Println("tags:")
	scan := tags.NewScanner(sf, cfg.inFile)
	for scan.Next() {
		fmt.Printf("- '%s'='%s'\n", scan.Key(), scan.Value())
	}
	if err = scan.Err(); err != nil {
		log.Printf("tags: %s", err)
	}
}

func printTitle(s *stream.Stream, cfg *cliConfig) {
	if !cfg.showTitle || cfg.playStdout {
		return
	}
	fmt.Printf("title: %s\n", gamepcm.Title(cfg.inFile, s, gamepcm.TitleConfig{}))
}

// replaceFilename expands ?s (subsong), ?n (stream name) and ?f (input
// name) wildcards in an output template.
func replaceFilename(template, inFile string, s *stream.Stream) string {
	subsong := s.StreamIndex
	if subsong > s.NumStreams {
		subsong = 0
	}

	name := s.StreamName
	if name != "" {
		name = cleanFilename(name, true)
	} else {
		name = cleanFilename(inFile, false)
	}

	r := strings.NewReplacer(
		"?s", fmt.Sprintf("%d", subsong),
		"?n", name,
		"?f", inFile,
	)
	return r.Replace(template)
}

// cleanFilename replaces characters that are not valid in file names.
func cleanFilename(name string, cleanPaths bool) string {
	return strings.Map(func(c rune) rune {
		switch c {
		case '*', '?', ':', '<', '>':
			return '_'
		case '\\', '/':
			if cleanPaths {
				return '_'
			}
		}
		return c
	}, name)
}
