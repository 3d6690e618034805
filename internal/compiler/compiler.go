// Package compiler implements the single-pass NewScript image compiler:
// it reads a source listing and compiles opcodes, literals, and method
// definitions directly into a flash image's cell array, in one pass with
// no intermediate AST.
package compiler

import (
	"bufio"
	"io"
	"log/slog"

	"github.com/cthulhuology/newscript/internal/firth"
	"github.com/cthulhuology/newscript/internal/image"
)

// Compiler holds the single-pass compile state: the image being written
// to, the source reader, and the cursors nsc.c keeps as globals (instr,
// slot, lexicon/lexiconEnd, strings/stringsEnd, object, ident, line,
// number).
type Compiler struct {
	img *image.Image
	in  *bufio.Reader
	log *slog.Logger

	ops []opEntry

	instr uint32
	slot  uint32

	lexicon    uint32
	lexiconEnd uint32
	strings    uint32
	stringsEnd uint32

	object uint32
	ident  uint32
	number uint32
	line   int
}

// Option configures a Compiler at construction time.
type Option func(*Compiler)

// WithLogger overrides the default slog.Logger used for compile
// diagnostics (nsc.c logs every object/method/opcode it compiles to
// stderr via fprintf; this is the structured equivalent).
func WithLogger(l *slog.Logger) Option {
	return func(c *Compiler) { c.log = l }
}

// New builds a Compiler writing into img and reading source from r, then
// bootstraps the opcode table and the vestigial Core lexicon object
// (nsc.c's init_strings/init_lexicon), run unconditionally before any
// source is read.
func New(img *image.Image, r io.Reader, opts ...Option) *Compiler {
	c := &Compiler{
		img:        img,
		in:         bufio.NewReader(r),
		log:        slog.Default(),
		lexicon:    image.LexiconOffset,
		lexiconEnd: image.LexiconOffset,
		strings:    image.StringsOffset,
		stringsEnd: image.StringsOffset,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.bootstrapOpcodes()
	c.bootstrapLexicon()
	return c
}

// Compile reads words from the source stream until end of input,
// compiling each one per nsc.c:compile's dispatch chain: an opcode
// mnemonic compiles directly, a method name on the current object
// compiles a call, an object name is a no-op reference, and anything
// else is dispatched by the current line mode (begin/define/literal/
// skip-as-comment).
func (c *Compiler) Compile() error {
	for {
		w, ok := c.nextWord()
		if !ok {
			break
		}

		if c.line > 2 {
			c.skip()
		}

		c.number = w.number
		c.ident = c.intern(w)
		if c.ident == 0 {
			continue
		}

		switch {
		case c.opcodeFor(c.ident) != 0:
			op := c.opcodeFor(c.ident)
			c.emitByte(byte(op))
			c.log.Debug("compiled opcode", "value", op)
		case c.method() != 0:
			addr := c.method()
			c.function(addr)
			c.log.Debug("compiled call", "addr", addr)
		case c.find() != 0:
			c.log.Debug("compiled object reference", "object", c.object)
		default:
			c.unknown()
		}

		if w.breakKey == firth.Newline {
			c.line = 0
		}
	}
	return nil
}

// unknown dispatches a word that named neither an opcode, a method on the
// current object, nor a known object, by the current line mode
// (nsc.c:unknown, which traces "%d >> unknown word [" + line + dump() +
// "]" to stderr before dispatching).
func (c *Compiler) unknown() {
	c.log.Debug("unknown word", "line", c.line, "ident", c.ident, "number", c.number)
	switch c.line {
	case 0:
		c.begin()
	case 1:
		c.define()
	case 2:
		c.literal()
	default:
		c.skip()
	}
}

// skip discards input up to and including the next newline, used for
// comment lines (three or more leading tabs). nsc.c's skip() loops
// forever if EOF is hit mid-comment, since inkey() returns the unknown
// sentinel forever past EOF and the loop only tests for newline; this
// also breaks on the unknown sentinel to avoid that hang.
func (c *Compiler) skip() {
	for {
		k := c.readKey()
		if k == firth.Newline || k == firth.Unknown {
			break
		}
	}
	c.line = 0
}
