// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

// Package layout splits episode titles into display lines.
//
// Line fitting is character-count based rather than pixel-measured. This is
// deliberate: it trades fitting accuracy for speed and independence from
// font metrics, and downstream positioning compensates with real
// measurements. Words are never split mid-word and text is never dropped;
// when a title needs more lines than permitted, the excess words are
// force-appended to the last permitted line.
//
// Four balancing styles are supported on top of the same base split:
//
//   - top: earlier lines as full as possible (forward greedy)
//   - bottom: later lines as full as possible (reverse greedy)
//   - even: word count balanced across lines, order preserved
//   - forced_even: character count balanced across lines, order preserved
//
// The base forward-greedy pass fixes the line count; styles only
// redistribute words across that count.
package layout

import (
	"strings"
	"unicode"

	"github.com/cardsmith/cardsmith/internal/models"
)

// TitleLines is the ordered sequence of display lines for one title.
type TitleLines []string

// Join reassembles the lines into a single space-separated string.
// For any title with no word longer than the effective width, this
// reproduces the whitespace-normalized input.
func (l TitleLines) Join() string {
	return strings.Join(l, " ")
}

// Split converts a title into display lines according to the card type's
// split characteristics and the font's split modifier. The modifier adjusts
// the effective maximum line width and may be negative; the result is
// floored at one character. Split never fails and always returns at least
// one line.
func Split(title string, c models.SplitCharacteristics, splitModifier int) TitleLines {
	words := strings.Fields(title)
	if len(words) == 0 {
		return TitleLines{""}
	}

	width := c.MaxLineWidth + splitModifier
	if width < 1 {
		width = 1
	}
	maxCount := c.MaxLineCount
	if maxCount < 1 {
		maxCount = 1
	}

	lines := forwardGreedy(words, width, maxCount)
	if len(lines) == 1 {
		return lines
	}

	switch c.Style {
	case models.SplitBottom:
		return reverseGreedy(words, width, len(lines))
	case models.SplitEven:
		return balanceWords(words, width, len(lines))
	case models.SplitForcedEven:
		return balanceChars(words, width, len(lines))
	default:
		// top is the forward-greedy base split
		return lines
	}
}

// forwardGreedy accumulates words left to right, breaking when the next
// word would exceed width. Once the last permitted line is reached, all
// remaining words are appended to it regardless of width.
func forwardGreedy(words []string, width, maxCount int) TitleLines {
	lines := make(TitleLines, 0, maxCount)
	current := words[0]

	for _, w := range words[1:] {
		if len(current)+1+len(w) <= width || len(lines) == maxCount-1 {
			current += " " + w
			continue
		}
		lines = append(lines, current)
		current = w
	}

	return append(lines, current)
}

// reverseGreedy accumulates words right to left so later lines are as full
// as possible. Words that no longer fit once n-1 breaks have been placed
// are prepended to the first line.
func reverseGreedy(words []string, width, n int) TitleLines {
	reversed := make([]string, 0, n)
	current := words[len(words)-1]

	for i := len(words) - 2; i >= 0; i-- {
		w := words[i]
		if len(w)+1+len(current) <= width || len(reversed) == n-1 {
			current = w + " " + current
			continue
		}
		reversed = append(reversed, current)
		current = w
	}
	reversed = append(reversed, current)

	lines := make(TitleLines, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		lines = append(lines, reversed[i])
	}
	return lines
}

// balanceWords distributes words so each of the n lines carries roughly the
// same word count, order preserved. The width cap still wins over balance
// except on the final line, which takes everything left.
func balanceWords(words []string, width, n int) TitleLines {
	lines := make(TitleLines, 0, n)
	i := 0

	for line := 0; line < n && i < len(words); line++ {
		remainingWords := len(words) - i
		remainingLines := n - line

		take := (remainingWords + remainingLines - 1) / remainingLines
		if line == n-1 {
			take = remainingWords
		}

		current := words[i]
		taken := 1
		for taken < take {
			w := words[i+taken]
			if line < n-1 && len(current)+1+len(w) > width {
				break
			}
			current += " " + w
			taken++
		}

		i += taken
		lines = append(lines, current)
	}

	return lines
}

// balanceChars distributes words so each of the n lines carries roughly the
// same character count, order preserved and never splitting mid-word. Each
// line keeps at least one word for every remaining line.
func balanceChars(words []string, width, n int) TitleLines {
	total := len(words) - 1
	for _, w := range words {
		total += len(w)
	}

	lines := make(TitleLines, 0, n)
	i := 0
	remainingChars := total

	for line := 0; line < n && i < len(words); line++ {
		if line == n-1 {
			lines = append(lines, strings.Join(words[i:], " "))
			break
		}

		remainingLines := n - line
		target := remainingChars / remainingLines

		current := words[i]
		taken := 1
		for i+taken < len(words) {
			if len(words)-(i+taken) <= remainingLines-1 {
				break
			}
			w := words[i+taken]
			next := len(current) + 1 + len(w)
			if next > width {
				break
			}
			if abs(next-target) > abs(len(current)-target) {
				break
			}
			current += " " + w
			taken++
		}

		i += taken
		remainingChars -= len(current) + 1
		lines = append(lines, current)
	}

	return lines
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// ApplyCase transforms a title according to the font case. CaseBlank
// yields an empty string; the caller suppresses title drawing entirely
// rather than splitting an empty title.
func ApplyCase(title, fontCase string) string {
	switch fontCase {
	case models.CaseUpper:
		return strings.ToUpper(title)
	case models.CaseLower:
		return strings.ToLower(title)
	case models.CaseTitle:
		return titleCase(title)
	case models.CaseBlank:
		return ""
	default:
		// source leaves the title untouched
		return title
	}
}

// titleCase upper-cases the first letter of each word and lower-cases the
// rest, preserving word order.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		if len(runes) > 0 {
			runes[0] = unicode.ToUpper(runes[0])
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
