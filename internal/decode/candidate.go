package decode

// node is one matched character pair in a persistent prefix list.
// Nodes are never modified after creation, so beam members can share
// ancestors without affecting each other.
type node struct {
	parent *node
	c1, c2 byte
	depth  int
}

// Candidate is an immutable pair of plaintext prefixes and their cumulative log score.
// The zero value is the empty candidate with score 0.
type Candidate struct {
	tail  *node
	score float64
}

// Score returns the cumulative log score.
func (c Candidate) Score() float64 {
	return c.score
}

// Len returns the length of each prefix.
func (c Candidate) Len() int {
	if c.tail == nil {
		return 0
	}
	return c.tail.depth
}

// last returns the final character of each prefix, or Sentinel for an empty candidate.
func (c Candidate) last() (byte, byte) {
	if c.tail == nil {
		return Sentinel, Sentinel
	}
	return c.tail.c1, c.tail.c2
}

// extend returns a new candidate one pair longer. c is left untouched.
func (c Candidate) extend(c1, c2 byte, score float64) Candidate {
	return Candidate{
		tail:  &node{parent: c.tail, c1: c1, c2: c2, depth: c.Len() + 1},
		score: score,
	}
}

// window fills w1 and w2 with the last len(w1) characters of each prefix.
// The candidate must be at least len(w1) long.
func (c Candidate) window(w1, w2 []byte) {
	n := c.tail
	for i := len(w1) - 1; i >= 0; i-- {
		w1[i], w2[i] = n.c1, n.c2
		n = n.parent
	}
}

// Plaintexts rebuilds both prefixes.
func (c Candidate) Plaintexts() (string, string) {
	n := c.Len()
	p1 := make([]byte, n)
	p2 := make([]byte, n)
	for cur := c.tail; cur != nil; cur = cur.parent {
		p1[cur.depth-1] = cur.c1
		p2[cur.depth-1] = cur.c2
	}
	return string(p1), string(p2)
}
