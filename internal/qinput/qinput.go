/*
Package qinput supplies the lazy line-oriented source of query descriptors. Lines are classified,
not parsed: a line starting with the directive character is handed back for the engine to apply as
a configuration change, anything else non-empty and non-comment is a query descriptor.

A file-backed stream can be rewound so that one data file can drive a timed run many times over.
Stdin cannot be rewound.
*/
package qinput

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/markdingo/queryflood/internal/constants"
)

var consts = constants.Get()

// ErrNotRewindable is returned by Rewind when the stream is stdin or another non-seekable source.
var ErrNotRewindable = errors.New("qinput: input stream cannot be rewound")

// Kind classifies a line handed back by NextLine.
type Kind int

const (
	EOF       Kind = iota // No more input
	Query                 // "<domain> <qtype>"
	Directive             // "# <name> <value>"
)

// Line is one classified input line. Text excludes the line terminator but is otherwise untouched;
// for a Directive it still includes the leading directive character.
type Line struct {
	Kind Kind
	Text string
}

// Stream reads query descriptors from a file or stdin.
type Stream struct {
	file       *os.File
	rd         *bufio.Reader
	rewindable bool
	name       string
}

// Open creates a Stream for the named file, or for stdin when path is empty. Only a file-backed
// stream supports Rewind.
func Open(path string) (*Stream, error) {
	if len(path) == 0 {
		return &Stream{file: os.Stdin, rd: bufio.NewReader(os.Stdin), name: "stdin"}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	return &Stream{file: f, rd: bufio.NewReader(f), rewindable: true, name: path}, nil
}

// Name returns a printable identity for the stream - the file path or "stdin".
func (s *Stream) Name() string {
	return s.name
}

// NextLine returns the next significant line. Empty lines and comment lines are skipped here so
// they never consume a query id or a slot. A read error is indistinguishable from end of input,
// matching the behaviour of the original tool.
func (s *Stream) NextLine() Line {
	for {
		text, err := s.rd.ReadString('\n')
		text = strings.TrimRight(text, "\r\n")

		if len(text) == 0 {
			if err != nil {
				return Line{Kind: EOF}
			}
			continue // Blank line
		}

		switch text[0] {
		case consts.CommentChar:
			if err != nil {
				return Line{Kind: EOF} // Trailing comment without a newline
			}
			continue
		case consts.DirectiveChar:
			return Line{Kind: Directive, Text: text}
		}

		return Line{Kind: Query, Text: text}
	}
}

// Rewind restarts a file-backed stream from the beginning of the file.
func (s *Stream) Rewind() error {
	if !s.rewindable {
		return ErrNotRewindable
	}

	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	s.rd.Reset(s.file)

	return nil
}

// Close releases the underlying file. Closing a stdin-backed stream is a no-op.
func (s *Stream) Close() error {
	if !s.rewindable {
		return nil
	}

	return s.file.Close()
}
