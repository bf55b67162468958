package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
)

type frameKind int

const (
	chatFrame frameKind = iota
	noticeFrame
	whisperFrame
	errorFrame
)

// classify guesses the kind of a relay frame from its text only,
// the protocol carries no type information.
func classify(text string) frameKind {
	switch {
	case strings.HasPrefix(text, "Error:"):
		return errorFrame
	case strings.HasPrefix(text, "[WHISPER from "), strings.HasPrefix(text, "Whisper sent to "):
		return whisperFrame
	case strings.HasSuffix(text, "has joined the chat!"),
		strings.HasSuffix(text, "has left the chat."),
		strings.HasSuffix(text, "has been kicked from the chat."),
		strings.HasPrefix(text, "Welcome to the chat, "),
		strings.HasPrefix(text, "Connected users ("),
		strings.HasPrefix(text, "Server is shutting down."):
		return noticeFrame
	default:
		return chatFrame
	}
}

type printer struct {
	out     io.Writer
	colours bool
}

func newPrinter(out io.Writer, colours bool) printer {
	return printer{out: out, colours: colours}
}

func (p printer) frame(text string) {
	_, _ = fmt.Fprintln(p.out, p.render(text))
}

func (p printer) closed(code int, reason string) {
	line := fmt.Sprintf("Connection closed (%d)", code)
	if reason != "" {
		line = fmt.Sprintf("%s: %s", line, reason)
	}
	if p.colours {
		line = color.New(color.BgBlack, color.FgYellow).Render(line)
	}
	_, _ = fmt.Fprintln(p.out, line)
}

func (p printer) render(text string) string {
	if !p.colours {
		return text
	}
	switch classify(text) {
	case errorFrame:
		return color.FgRed.Render(text)
	case whisperFrame:
		return color.FgMagenta.Render(text)
	case noticeFrame:
		return color.FgGreen.Render(text)
	default:
		return text
	}
}
