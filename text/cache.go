package text

// DefaultOutlineCacheSize is the number of glyph outlines a Font keeps
// per size before evicting the least recently used.
const DefaultOutlineCacheSize = 1024

// CacheStats reports outline cache activity.
type CacheStats struct {
	Len       int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// outlineNode is an entry of the LRU list. The head is the most recently
// used.
type outlineNode struct {
	key        outlineKey
	segs       []segment
	prev, next *outlineNode
}

// outlineCache is an LRU of decoded glyph outlines. It is not safe for
// concurrent use; Font guards it with its mutex.
type outlineCache struct {
	capacity   int
	entries    map[outlineKey]*outlineNode
	head, tail *outlineNode

	hits, misses, evictions uint64
}

func newOutlineCache(capacity int) *outlineCache {
	if capacity <= 0 {
		capacity = DefaultOutlineCacheSize
	}
	return &outlineCache{
		capacity: capacity,
		entries:  make(map[outlineKey]*outlineNode),
	}
}

func (c *outlineCache) get(key outlineKey) ([]segment, bool) {
	n, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	c.moveToFront(n)
	return n.segs, true
}

func (c *outlineCache) set(key outlineKey, segs []segment) {
	if n, ok := c.entries[key]; ok {
		n.segs = segs
		c.moveToFront(n)
		return
	}
	for len(c.entries) >= c.capacity && c.tail != nil {
		oldest := c.tail
		c.unlink(oldest)
		delete(c.entries, oldest.key)
		c.evictions++
	}
	n := &outlineNode{key: key, segs: segs}
	c.pushFront(n)
	c.entries[key] = n
}

func (c *outlineCache) stats() CacheStats {
	return CacheStats{
		Len:       len(c.entries),
		Capacity:  c.capacity,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

func (c *outlineCache) pushFront(n *outlineNode) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

func (c *outlineCache) moveToFront(n *outlineNode) {
	if n == c.head {
		return
	}
	c.unlink(n)
	c.pushFront(n)
}

func (c *outlineCache) unlink(n *outlineNode) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.prev, n.next = nil, nil
}
