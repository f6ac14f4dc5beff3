// SPDX-License-Identifier: EPL-2.0

package streamfile

import "errors"

var (
	ErrOutOfRange  = errors.New("read outside file range")
	ErrClosed      = errors.New("streamfile is closed")
	ErrBadClip     = errors.New("clip window outside parent range")
	ErrNoDirectory = errors.New("memory streamfile has no directory")
)
