package lzc

// Codes 0..255 are permanently bound to single bytes. In block mode 256 is
// the CLEAR signal and new sequences are assigned codes from 257 up; streams
// predating block mode assign from 256.
const (
	clearCode     = 256
	firstFree     = 257
	firstNonBlock = 256
)

// trie is the encoder's view of the dictionary: an arena of nodes whose
// index is the node's code. Children hang off their parent as a
// first-child/next-sibling chain keyed by the edge byte, so a CLEAR is a
// truncation of the arena, not a rebuild.
type trie struct {
	nodes    []trieNode
	width    uint8 // bits per emitted code
	maxWidth uint8
	maxCode  int // highest assignable code: 1<<maxWidth - 1
}

type trieNode struct {
	child   int32 // first child, -1 if none
	sibling int32 // next node under the same parent
	label   byte  // edge byte from the parent
}

func newTrie(maxWidth uint8) *trie {
	t := &trie{
		nodes:    make([]trieNode, firstFree, 1<<maxWidth),
		maxWidth: maxWidth,
		maxCode:  1<<maxWidth - 1,
	}
	t.reset()
	return t
}

// reset truncates the arena back to the 256 single-byte roots plus the
// reserved CLEAR slot and restores the starting code width.
func (t *trie) reset() {
	t.nodes = t.nodes[:firstFree]
	for i := range t.nodes {
		t.nodes[i] = trieNode{child: -1, sibling: -1, label: byte(i)}
	}
	t.width = MinCodeWidth
}

// lookup returns the code of (parent's sequence)+b, or -1 on a miss.
func (t *trie) lookup(parent int32, b byte) int32 {
	for n := t.nodes[parent].child; n >= 0; n = t.nodes[n].sibling {
		if t.nodes[n].label == b {
			return n
		}
	}
	return -1
}

// insert assigns the next free code to (parent's sequence)+b. Once the
// highest code has been assigned the table is frozen and insert reports
// false; encoding continues on the existing entries. Assigning code
// 1<<width widens subsequent codes by one bit, and the freeze gate keeps
// width from ever passing maxWidth.
func (t *trie) insert(parent int32, b byte) (int, bool) {
	if len(t.nodes) > t.maxCode {
		return 0, false
	}
	code := len(t.nodes)
	t.nodes = append(t.nodes, trieNode{child: -1, sibling: t.nodes[parent].child, label: b})
	t.nodes[parent].child = int32(code)
	if code == 1<<t.width {
		t.width++
	}
	return code, true
}

// codeTable is the decoder's view: entry code -> (parent code, trailing
// byte), with sequences rebuilt back-to-front through the parent chain.
// Entries above next are dead after a CLEAR; no per-entry teardown happens.
type codeTable struct {
	parent []uint16
	tail   []byte
	stack  []byte // reused by expand; valid until the next call

	next      int // next code to assign
	first     int // 257 in block mode, 256 otherwise
	maxCode   int
	width     uint8
	maxWidth  uint8
	blockMode bool
}

func newCodeTable(maxWidth uint8, blockMode bool) *codeTable {
	t := &codeTable{
		parent:    make([]uint16, 1<<maxWidth),
		tail:      make([]byte, 1<<maxWidth),
		first:     firstFree,
		maxCode:   1<<maxWidth - 1,
		maxWidth:  maxWidth,
		blockMode: blockMode,
	}
	if !blockMode {
		t.first = firstNonBlock
	}
	t.reset()
	return t
}

func (t *codeTable) reset() {
	t.next = t.first
	t.width = MinCodeWidth
}

// syncWidth grows the read width before the next code is read. The encoder
// widens immediately after assigning code 1<<width; at that instant this
// table still lacks the entry the encoder just created, so the equivalent
// check on this side is next >= 1<<width ahead of the read.
func (t *codeTable) syncWidth() {
	if t.next >= 1<<t.width && t.width < t.maxWidth {
		t.width++
	}
}

// add mirrors the encoder's insert, with the identical freeze gate.
func (t *codeTable) add(parent int, b byte) {
	if t.next > t.maxCode {
		return
	}
	t.parent[t.next] = uint16(parent)
	t.tail[t.next] = b
	t.next++
}

// expand rebuilds the byte sequence bound to an assigned code. The returned
// slice aliases the table's scratch buffer.
func (t *codeTable) expand(code int) []byte {
	t.stack = t.stack[:0]
	for code >= 256 {
		t.stack = append(t.stack, t.tail[code])
		code = int(t.parent[code])
	}
	t.stack = append(t.stack, byte(code))
	for i, j := 0, len(t.stack)-1; i < j; i, j = i+1, j-1 {
		t.stack[i], t.stack[j] = t.stack[j], t.stack[i]
	}
	return t.stack
}
