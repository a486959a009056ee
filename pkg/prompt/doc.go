// Package prompt collects download settings interactively.
//
// Answers are parsed leniently: an empty line keeps the default and an answer
// that does not parse falls back to it with a short notice, so a typo never
// aborts a run. Callers skip prompting entirely when Interactive reports that
// stdin is not a terminal.
package prompt
