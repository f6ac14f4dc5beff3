// SPDX-License-Identifier: EPL-2.0

package tags

import (
	"bufio"
	"strings"

	"github.com/ik5/gamepcm/streamfile"
)

// Tag is one key/value pair from a tag file.
type Tag struct {
	Key   string
	Value string
}

// Scanner walks a "!tags.m3u" style tag file and yields the tags that
// apply to one target entry. Lines look like:
//
//	# @ALBUM    Some Album         (global, applies to every entry)
//	# %TITLE    Some Track         (applies to the next entry line)
//	BGM01.adx                      (entry line)
//
// Global tags are yielded in file order. Entry tags are yielded only
// when the entry line that follows them matches the target name.
type Scanner struct {
	scan    *bufio.Scanner
	target  string
	pending []Tag
	queue   []Tag
	cur     Tag
	err     error
	done    bool
}

// NewScanner prepares iteration over sf for tags applying to target.
// The target is compared against entry lines case-insensitively.
func NewScanner(sf *streamfile.File, target string) *Scanner {
	return &Scanner{
		scan:   bufio.NewScanner(sf.ReadSeeker(0)),
		target: strings.TrimSpace(target),
	}
}

// Next advances to the next applicable tag. It returns false when the
// file is exhausted or a read error occurred; check Err afterwards.
func (s *Scanner) Next() bool {
	for {
		if len(s.queue) > 0 {
			s.cur = s.queue[0]
			s.queue = s.queue[1:]
			return true
		}
		if s.done {
			return false
		}
		if !s.scan.Scan() {
			s.done = true
			s.err = s.scan.Err()
			continue
		}
		s.line(s.scan.Text())
	}
}

// Key returns the current tag name. Valid after Next returns true.
func (s *Scanner) Key() string { return s.cur.Key }

// Value returns the current tag value. Valid after Next returns true.
func (s *Scanner) Value() string { return s.cur.Value }

// Err reports the first read error hit during scanning, if any.
func (s *Scanner) Err() error { return s.err }

func (s *Scanner) line(raw string) {
	text := strings.TrimSpace(strings.TrimPrefix(raw, "\ufeff"))
	if text == "" {
		return
	}

	if !strings.HasPrefix(text, "#") {
		// Entry line. Pending tags belong to it.
		if strings.EqualFold(text, s.target) {
			s.queue = append(s.queue, s.pending...)
		}
		s.pending = s.pending[:0]
		return
	}

	body := strings.TrimSpace(text[1:])
	if len(body) < 2 {
		return
	}
	switch body[0] {
	case '@':
		if tag, ok := splitTag(body[1:]); ok {
			s.queue = append(s.queue, tag)
		}
	case '%':
		if tag, ok := splitTag(body[1:]); ok {
			s.pending = append(s.pending, tag)
		}
	}
}

func splitTag(body string) (Tag, bool) {
	key, value, ok := strings.Cut(body, " ")
	if !ok {
		key, value, ok = strings.Cut(body, "\t")
	}
	if !ok || key == "" {
		return Tag{}, false
	}
	return Tag{
		Key:   strings.ToUpper(strings.TrimSpace(key)),
		Value: strings.TrimSpace(value),
	}, true
}

// All collects every tag applying to target into a slice.
func All(sf *streamfile.File, target string) ([]Tag, error) {
	s := NewScanner(sf, target)
	var out []Tag
	for s.Next() {
		out = append(out, Tag{Key: s.Key(), Value: s.Value()})
	}
	return out, s.Err()
}
