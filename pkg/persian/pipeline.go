// Package persian cleans Persian text before it is stored: it trims and
// flattens line breaks, then runs an ordered chain of editors that fix
// spacing, Arabic glyph variants, digits and punctuation.
package persian

import (
	"strings"

	"github.com/mrouhi13/laum/pkg/errors"
)

// Pipeline is an ordered editor chain plus the general-pass flags.
// A configured Pipeline is safe for concurrent Run calls; changing its
// chain or flags while it is in use needs external locking.
type Pipeline struct {
	// Strip trims leading and trailing whitespace.
	Strip bool
	// EscapeReturn replaces every \r and \n with a space.
	EscapeReturn bool

	editors []Editor
}

type Option func(*Pipeline)

func WithStrip(strip bool) Option {
	return func(p *Pipeline) { p.Strip = strip }
}

func WithEscapeReturn(escape bool) Option {
	return func(p *Pipeline) { p.EscapeReturn = escape }
}

// New builds a pipeline from editor names, e.g. "space", "number".
func New(names []string, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{Strip: true, EscapeReturn: true}
	if err := p.SetEditors(names); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// MustNew is New for package-level chains; it panics on a bad name.
func MustNew(names []string, opts ...Option) *Pipeline {
	p, err := New(names, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// SetEditors replaces the chain. On error the current chain is kept.
func (p *Pipeline) SetEditors(names []string) error {
	if len(names) == 0 {
		return errors.New(errors.ErrCodeConfiguration, "editors can't be empty")
	}

	editors := make([]Editor, 0, len(names))
	for _, name := range names {
		e, err := ParseEditor(name)
		if err != nil {
			return err
		}
		editors = append(editors, e)
	}

	p.editors = editors
	return nil
}

// Editors returns a copy of the configured chain.
func (p *Pipeline) Editors() []Editor {
	out := make([]Editor, len(p.editors))
	copy(out, p.editors)
	return out
}

// Names returns the configured chain as editor names.
func (p *Pipeline) Names() []string {
	out := make([]string, len(p.editors))
	for i, e := range p.editors {
		out[i] = e.String()
	}
	return out
}

// Run edits text and returns the result.
func (p *Pipeline) Run(text string) string {
	return edit(text, p.editors, p.Strip, p.EscapeReturn)
}

// NewSession snapshots the current chain and flags into a single-caller
// session.
func (p *Pipeline) NewSession() *Session {
	return &Session{
		editors:      p.Editors(),
		strip:        p.Strip,
		escapeReturn: p.EscapeReturn,
	}
}

// Session is one editing run over one input. Not safe for concurrent use.
type Session struct {
	editors      []Editor
	strip        bool
	escapeReturn bool

	original string
	edited   string
	done     bool
}

// Run edits *original. A nil pointer is rejected; an empty string is not.
func (s *Session) Run(original *string) (string, error) {
	if original == nil {
		return "", errors.New(errors.ErrCodeInvalidInput, "original text can't be nil")
	}

	s.done = false
	s.original = *original
	s.edited = edit(s.original, s.editors, s.strip, s.escapeReturn)
	s.done = true

	return s.edited, nil
}

// Original returns the text passed to the last Run.
func (s *Session) Original() (string, error) {
	if !s.done {
		return "", errors.New(errors.ErrCodeState, "you must call Run before accessing the original text")
	}
	return s.original, nil
}

// EditedText returns the result of the last Run.
func (s *Session) EditedText() (string, error) {
	if !s.done {
		return "", errors.New(errors.ErrCodeState, "you must call Run before accessing the edited text")
	}
	return s.edited, nil
}

func edit(text string, editors []Editor, strip, escapeReturn bool) string {
	text = generalPass(text, strip, escapeReturn)
	for _, e := range editors {
		text = e.Apply(text)
	}
	return text
}

// A CRLF pair is one line break and becomes one space.
var returnReplacer = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

func generalPass(text string, strip, escapeReturn bool) string {
	if strip {
		text = strings.TrimSpace(text)
	}
	if escapeReturn {
		text = returnReplacer.Replace(text)
	}
	return text
}
