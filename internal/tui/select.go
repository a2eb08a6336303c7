package tui

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Digital-Shane/media-mover/internal/core"
)

// Choice is the outcome of presenting candidate hits for one file.
type Choice int

const (
	// ChoiceDefault accepts the first hit.
	ChoiceDefault Choice = iota
	// ChoiceSkip advances to the next file without touching this one.
	ChoiceSkip
	// ChoiceAbort halts the remaining run; the current file is not moved.
	ChoiceAbort
	// ChoiceHit accepts the hit at Selection.Index.
	ChoiceHit
)

// Selection pairs a choice with the hit index it applies to.
type Selection struct {
	Choice Choice
	Index  int
}

// Chooser decides which candidate wins for a file. Implementations range
// from the interactive picker to the batch pass-through, and tests supply
// scripted ones.
type Chooser interface {
	Choose(name string, hits []*core.Metadata) (Selection, error)
}

// BatchChooser always takes the first hit. It backs batch mode, where the
// selection step is bypassed entirely, and non-TTY runs.
type BatchChooser struct{}

func (BatchChooser) Choose(string, []*core.Metadata) (Selection, error) {
	return Selection{Choice: ChoiceDefault}, nil
}

// PromptChooser reads selections as plain lines of input, for terminals the
// full-screen picker cannot drive. Unrecognized input reprompts.
type PromptChooser struct {
	In  io.Reader
	Out io.Writer
}

func (c PromptChooser) Choose(name string, hits []*core.Metadata) (Selection, error) {
	fmt.Fprintf(c.Out, "Select match for %s\n", name)
	for i, hit := range hits {
		fmt.Fprintf(c.Out, "  %d. %s\n", i+1, hit)
	}

	scanner := bufio.NewScanner(c.In)
	for {
		fmt.Fprint(c.Out, "[enter accept / number pick / s skip / q abort] ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return Selection{}, err
			}
			// Input ran out; nothing sensible is left but stopping.
			return Selection{Choice: ChoiceAbort}, nil
		}
		if selection, ok := ResolveInput(scanner.Text(), len(hits)); ok {
			return selection, nil
		}
	}
}

// ResolveInput maps one line of operator input onto a selection. It returns
// ok=false for anything unrecognized, which sends the caller back to the
// prompt. Accepted inputs: empty (default), "s" (skip), "q" (abort), or a
// 1-based hit number.
func ResolveInput(input string, hitCount int) (Selection, bool) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "":
		return Selection{Choice: ChoiceDefault}, true
	case "s", "skip":
		return Selection{Choice: ChoiceSkip}, true
	case "q", "quit", "abort":
		return Selection{Choice: ChoiceAbort}, true
	}

	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 1 || n > hitCount {
		return Selection{}, false
	}
	return Selection{Choice: ChoiceHit, Index: n - 1}, true
}
