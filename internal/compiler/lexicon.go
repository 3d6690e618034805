package compiler

// The lexicon is a downward-growing table of object headers, each followed
// by its own downward-growing run of (name, address) method pairs. A
// header is two cells: [key, pairCount]. Each define() call copies the
// header two cells down, writes the new pair into the two cells the header
// occupied (between the header and the older pairs), and bumps pairCount
// by one -- it does NOT shift the existing pairs. find() skips
// 2*pairCount cells per record, but method() bounds its two-cell-stride
// scan by pairCount itself, as though it counted cells rather than pairs.
// The net effect, carried over unchanged from nsc.c: after N defines on the
// same object, method() can only ever reach the newest ~N/2 pairs. This
// is a property of the on-disk format, not a bug to fix here.

// begin starts a new object header for ident, the word just read at the
// start of a line (nsc.c:begin, which traces "Compiling object " + dump()
// to stderr as it does so).
func (c *Compiler) begin() {
	c.lexicon--
	c.img.Cells[c.lexicon] = 0
	c.lexicon--
	c.img.Cells[c.lexicon] = c.ident
	c.object = c.lexicon
	c.log.Debug("compiling object", "ident", c.ident)
}

// find locates the most recent object header whose key is ident, scanning
// header-to-header by skipping over each one's declared pair count
// (nsc.c:find). It also sets c.object as a side effect, matching the
// original -- a later define() or method() call operates against whatever
// object find() last located.
func (c *Compiler) find() uint32 {
	for i := c.lexicon; i < c.lexiconEnd; {
		if c.img.Cells[i] == c.ident {
			c.object = i
			return i
		}
		i += (c.img.Cells[i+1] << 1) + 2
	}
	return 0
}

// define adds a new method pair to the current object, writing it where
// the object's header was and copying the header two cells down with its
// pair count incremented (nsc.c:define, which traces "Defining method [" +
// dump() + "]" to stderr as it does so).
func (c *Compiler) define() {
	c.pad()
	c.lexicon -= 2
	c.img.Cells[c.lexicon] = c.img.Cells[c.lexicon+2]
	c.img.Cells[c.lexicon+1] = c.img.Cells[c.lexicon+3] + 1
	c.img.Cells[c.lexicon+2] = c.ident
	c.img.Cells[c.lexicon+3] = c.instr
	c.object = c.lexicon
	c.log.Debug("defining method", "ident", c.ident, "addr", c.instr)
}

// method looks up ident among the current object's method pairs, stepping
// two cells (one pair) at a time and bounding on the object's stored pair
// count (nsc.c:method). See the half-reachable-pairs note above.
func (c *Compiler) method() uint32 {
	count := c.img.Cells[c.object+1]
	for i := uint32(0); i < count; i += 2 {
		if c.img.Cells[c.object+i+2] == c.ident {
			return c.img.Cells[c.object+i+3]
		}
	}
	return 0
}
