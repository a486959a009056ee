// Package ui renders wallfetch's terminal output: the startup banner, styled
// status lines, per-download progress and desktop notifications.
//
// Styling uses lipgloss and degrades to plain text when the output is not a
// terminal. Quiet mode hides everything except errors.
package ui
