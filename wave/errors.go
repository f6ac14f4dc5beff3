// SPDX-License-Identifier: EPL-2.0

package wave

import "errors"

var (
	// ErrBadHeader - header fields do not describe a writable stream.
	ErrBadHeader = errors.New("invalid wave header")
)
