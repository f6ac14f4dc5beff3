// SPDX-License-Identifier: EPL-2.0

package formats

import "errors"

var (
	// ErrUnknownFormat means no probe in the registry claimed the file.
	ErrUnknownFormat = errors.New("no known format matches the file")
)
