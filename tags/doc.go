// SPDX-License-Identifier: EPL-2.0

// Package tags reads playlist-style "!tags.m3u" tag files that sit
// beside audio rips and annotate them with album and track metadata.
package tags
