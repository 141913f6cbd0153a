// Package fountain classifies and formats Fountain screenplay lines.
//
// Every element type is recognized by a compiled pattern, not by
// string inspection. The dialect has no class ranges and no escape
// shorthands, so the alphabets are spelled out character by character.
// The formatter is deliberately small: dialogue is recognized only
// directly under a character cue, and title pages, dual dialogue and
// notes are out of its vocabulary.
package fountain

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lestrrat-go/strftime"
	"github.com/rivo/uniseg"
	"gopkg.in/yaml.v3"

	"github.com/coregx/backrex"
)

const (
	upper  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits = "0123456789"
)

var (
	scenePattern         = backrex.MustCompile(`^(?:INT|EXT|EST|INT/EXT)\..+`)
	transitionPattern    = backrex.MustCompile("^[" + upper + " ]+TO:$")
	characterPattern     = backrex.MustCompile("^[" + upper + "][" + upper + digits + " ]+" + `(?:\([^)]+\))?$`)
	parentheticalPattern = backrex.MustCompile(`^\(.*\)$`)
	blankPattern         = backrex.MustCompile("^[ \t]*$")
)

// LineType is the element type of one screenplay line.
type LineType uint8

const (
	Blank LineType = iota
	SceneHeading
	Transition
	Character
	Parenthetical
	Dialogue
	Action
)

func (t LineType) String() string {
	switch t {
	case Blank:
		return "Blank"
	case SceneHeading:
		return "SceneHeading"
	case Transition:
		return "Transition"
	case Character:
		return "Character"
	case Parenthetical:
		return "Parenthetical"
	case Dialogue:
		return "Dialogue"
	case Action:
		return "Action"
	}
	return "Unknown"
}

// Classify reports the element type of a single line seen without
// surrounding context. Dialogue needs context (it sits directly under
// a character cue), so Classify never returns it; Format applies that
// rule while rendering.
func Classify(line string) LineType {
	switch {
	case blankPattern.Match(line):
		return Blank
	case scenePattern.Match(line):
		return SceneHeading
	case transitionPattern.Match(line):
		return Transition
	case characterPattern.Match(line):
		return Character
	case parentheticalPattern.Match(line):
		return Parenthetical
	}
	return Action
}

// Layout fixes the column geometry of formatted output. The zero
// value renders everything flush left; use DefaultLayout for the
// classic page.
type Layout struct {
	Width               int `toml:"width" yaml:"width"`
	ParentheticalIndent int `toml:"parenthetical_indent" yaml:"parenthetical_indent"`
	DialogueIndent      int `toml:"dialogue_indent" yaml:"dialogue_indent"`
}

// DefaultLayout returns the classic 80-column screenplay geometry.
func DefaultLayout() Layout {
	return Layout{Width: 80, ParentheticalIndent: 30, DialogueIndent: 20}
}

// LoadLayout reads a Layout from a TOML or YAML file, chosen by the
// file extension. Keys absent from the file keep their defaults.
func LoadLayout(path string) (Layout, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, err
	}

	layout := DefaultLayout()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(content, &layout); err != nil {
			return Layout{}, fmt.Errorf("layout %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &layout); err != nil {
			return Layout{}, fmt.Errorf("layout %s: %w", path, err)
		}
	default:
		return Layout{}, fmt.Errorf("layout %s: unsupported format %q", path, filepath.Ext(path))
	}
	return layout, nil
}

// Format renders screenplay lines as fixed-width text: scene headings
// uppercased flush left, transitions right-aligned, character cues
// centered, parentheticals and dialogue indented, action as-is. A
// non-element line counts as dialogue exactly when the previously
// rendered line, stripped of its centering, is a character cue.
func Format(lines []string, layout Layout) string {
	out := make([]string, 0, len(lines))
	for _, raw := range lines {
		line := strings.TrimRight(raw, "\r\n")
		switch {
		case blankPattern.Match(line):
			out = append(out, "")
		case scenePattern.Match(line):
			out = append(out, strings.ToUpper(line))
		case transitionPattern.Match(line):
			out = append(out, rightAlign(line, layout.Width))
		case characterPattern.Match(line):
			out = append(out, center(line, layout.Width))
		case parentheticalPattern.Match(line):
			out = append(out, strings.Repeat(" ", layout.ParentheticalIndent)+line)
		default:
			prev := ""
			if len(out) > 0 {
				prev = out[len(out)-1]
			}
			if prev != "" && characterPattern.Match(strings.TrimSpace(prev)) {
				out = append(out, strings.Repeat(" ", layout.DialogueIndent)+line)
			} else {
				out = append(out, line)
			}
		}
	}
	return strings.Join(out, "\n")
}

// FormatText is Format over a whole document. Line endings are
// normalized first; a single trailing newline survives the round
// trip.
func FormatText(text string, layout Layout) string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	trailing := strings.HasSuffix(normalized, "\n")
	normalized = strings.TrimSuffix(normalized, "\n")
	if normalized == "" && !trailing {
		return ""
	}

	formatted := Format(strings.Split(normalized, "\n"), layout)
	if trailing {
		formatted += "\n"
	}
	return formatted
}

// Stamp renders t with an strftime layout, for draft-date stamps on
// title pages.
func Stamp(layout string, t time.Time) (string, error) {
	strf, err := strftime.New(layout)
	if err != nil {
		return "", err
	}
	return strf.FormatString(t), nil
}

// Width math is in display cells, so combining marks and wide runes
// in dialogue or action lines do not skew the page.

func center(line string, width int) string {
	cells := uniseg.StringWidth(line)
	if cells >= width {
		return line
	}
	left := (width - cells) / 2
	right := width - cells - left
	return strings.Repeat(" ", left) + line + strings.Repeat(" ", right)
}

func rightAlign(line string, width int) string {
	cells := uniseg.StringWidth(line)
	if cells >= width {
		return line
	}
	return strings.Repeat(" ", width-cells) + line
}
