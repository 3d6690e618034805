package compiler

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cthulhuology/newscript/internal/image"
	"github.com/cthulhuology/newscript/internal/vm"
)

// newTestImage builds an in-memory cell array the size of a real image,
// without going through image.Create's file I/O.
func newTestImage() *image.Image {
	return &image.Image{Cells: make([]uint32, image.TotalCells)}
}

func newTestCompiler(t *testing.T, src string) *Compiler {
	t.Helper()
	return New(newTestImage(), strings.NewReader(src))
}

func TestInternDeduplicatesWords(t *testing.T) {
	c := newTestCompiler(t, "")
	a := c.intern(wordFromString("foo"))
	b := c.intern(wordFromString("foo"))
	require.Equal(t, a, b, "interning the same word twice returns the same address")

	other := c.intern(wordFromString("bar"))
	require.NotEqual(t, a, other, "distinct words get distinct addresses")
}

func TestInternEmptyWordReturnsZero(t *testing.T) {
	c := newTestCompiler(t, "")
	require.Equal(t, uint32(0), c.intern(word{}))
}

func TestBootstrapInternsEveryOpcodeMnemonic(t *testing.T) {
	c := newTestCompiler(t, "")
	require.Len(t, c.ops, len(vm.Mnemonics))

	plusKey := c.intern(wordFromString("+"))
	require.Equal(t, uint32(vm.OpAdd), c.opcodeFor(plusKey))
}

func TestLiteralCompilesPositiveValue(t *testing.T) {
	c := newTestCompiler(t, "")
	c.number = 42
	c.literal()
	require.Equal(t, uint32(42), c.img.Cells[0])
	require.Equal(t, uint32(1), c.instr)
	require.Equal(t, uint32(0), c.slot, "a plain positive literal never touches slot")
}

func TestLiteralNegativeValueEmitsNegate(t *testing.T) {
	c := newTestCompiler(t, "")
	c.number = 0x80000005
	c.literal()

	n := uint32(0x80000005)
	want := (-n) & 0x7fffffff
	require.Equal(t, want, c.img.Cells[0], "sign-cleared magnitude is compiled as the literal")
	require.Equal(t, uint32(1), c.instr, "the negate opcode shares the next cell's first slot, not a new cell")
	require.Equal(t, byte(vm.OpNeg), byte(c.img.Cells[1]&0xff), "negate opcode follows the literal")
}

func TestBeginDefineAndMethodRoundTrip(t *testing.T) {
	c := newTestCompiler(t, "")

	c.ident = c.intern(wordFromString("Foo"))
	c.begin()

	c.ident = c.intern(wordFromString("Bar"))
	c.instr = 5
	c.define()
	require.Equal(t, uint32(1), c.img.Cells[c.object+1], "pair count incremented to 1")
	latestHeader := c.object

	c.ident = c.intern(wordFromString("Bar"))
	require.Equal(t, uint32(5), c.method(), "method resolves the address recorded by define")

	c.ident = c.intern(wordFromString("Foo"))
	require.Equal(t, latestHeader, c.find(), "find locates the object's current header by its key, unaffected by the intervening define")
}

func TestFindReturnsZeroForUnknownIdent(t *testing.T) {
	c := newTestCompiler(t, "")
	c.ident = c.intern(wordFromString("Nope"))
	require.Zero(t, c.find())
}

func TestCompileLiteralThenOpcodeByteLayout(t *testing.T) {
	// Two leading tabs put the parser in literal mode for "42"; the
	// opcode "+" compiles regardless of line mode, since opcode lookup
	// always runs first.
	c := newTestCompiler(t, "\t\t42\n\t\t+\n")
	require.NoError(t, c.Compile())

	require.Equal(t, uint32(42), c.img.Cells[0], "literal compiled to its own cell")
	require.Equal(t, byte(vm.OpAdd), byte(c.img.Cells[1]&0xff), "opcode byte landed in the next cell's first slot")
}

func TestCompileDefinesAndCallsMethod(t *testing.T) {
	// "Foo" at column 0 starts an object; one tab in, "Bar" names a
	// method (defined at whatever instr currently is); referencing "Bar"
	// again compiles a call to that same address.
	//
	// instr is seeded at 1, not 0: method() and "not found" are both
	// reported as address 0 (nsc.c has no separate sentinel), so a
	// method defined at the very first cell of the image is
	// indistinguishable from an unknown one and would be silently
	// redefined instead of called on the next reference. Preserved as a
	// property of the original format rather than a compiler bug; this
	// test seeds a nonzero instr to exercise the ordinary case.
	c := newTestCompiler(t, "Foo\n\tBar\n\tBar\n")
	c.instr = 1
	require.NoError(t, c.Compile())

	require.Equal(t, uint32(1), c.img.Cells[1], "call target literal: Bar was defined at instr 1")
	require.Equal(t, byte(vm.OpCall), byte(c.img.Cells[2]&0xff), "call opcode follows the target literal")
}

func TestSkipStopsAtEOFWithoutHanging(t *testing.T) {
	c := newTestCompiler(t, "")
	c.line = 3
	done := make(chan struct{})
	go func() {
		c.skip()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("skip() did not return at EOF")
	}
	require.Equal(t, 0, c.line)
}
