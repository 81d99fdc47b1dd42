package cache

import (
	"container/list"
	"sync"
)

// NamespaceLRU is a namespace-based LRU cache implementation. Entries
// across all namespaces share one recency queue and one capacity, but
// each namespace keeps its own key index so a whole namespace can be
// dropped without scanning unrelated entries.
type NamespaceLRU struct {
	capacity int
	spaces   map[string]map[string]*list.Element
	queue    *list.List
	mutex    sync.Mutex
}

type entry struct {
	namespace string
	key       string
	value     interface{}
}

// NewNamespaceLRU creates a new namespace-based LRU cache with specified capacity
func NewNamespaceLRU(capacity int) *NamespaceLRU {
	return &NamespaceLRU{
		capacity: capacity,
		spaces:   make(map[string]map[string]*list.Element),
		queue:    list.New(),
	}
}

// Set adds or updates a key-value pair in the cache with a namespace
func (c *NamespaceLRU) Set(namespace, key string, value interface{}) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	space, ok := c.spaces[namespace]
	if !ok {
		space = make(map[string]*list.Element)
		c.spaces[namespace] = space
	}

	// Check if key exists
	if element, exists := space[key]; exists {
		c.queue.MoveToFront(element)
		element.Value.(*entry).value = value
		return
	}

	// Add new item to the front
	element := c.queue.PushFront(&entry{
		namespace: namespace,
		key:       key,
		value:     value,
	})
	space[key] = element

	// Evict items if over capacity
	if c.queue.Len() > c.capacity {
		c.evict()
	}
}

// Get retrieves a value from the cache by namespace and key
func (c *NamespaceLRU) Get(namespace, key string) (interface{}, bool) {
	// Full lock: a hit updates recency
	c.mutex.Lock()
	defer c.mutex.Unlock()

	space, ok := c.spaces[namespace]
	if !ok {
		return nil, false
	}

	element, exists := space[key]
	if !exists {
		return nil, false
	}

	// Move to front (mark as recently used)
	c.queue.MoveToFront(element)
	return element.Value.(*entry).value, true
}

// Invalidate removes an item from the cache by namespace and key
func (c *NamespaceLRU) Invalidate(namespace, key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	space, ok := c.spaces[namespace]
	if !ok {
		return
	}

	if element, exists := space[key]; exists {
		c.queue.Remove(element)
		delete(space, key)
		if len(space) == 0 {
			delete(c.spaces, namespace)
		}
	}
}

// InvalidateNamespace removes all items from the specified namespace
func (c *NamespaceLRU) InvalidateNamespace(namespace string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	space, ok := c.spaces[namespace]
	if !ok {
		return
	}

	for _, element := range space {
		c.queue.Remove(element)
	}
	delete(c.spaces, namespace)
}

// Clear empties the cache
func (c *NamespaceLRU) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.spaces = make(map[string]map[string]*list.Element)
	c.queue = list.New()
}

// Size returns the current number of items in the cache
func (c *NamespaceLRU) Size() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.queue.Len()
}

// evict removes the least recently used item from the cache
func (c *NamespaceLRU) evict() {
	// Get the oldest element (from the back of the queue)
	element := c.queue.Back()
	if element == nil {
		return
	}

	// Remove it from the queue
	c.queue.Remove(element)

	// Get the entry and remove it from its namespace index
	e := element.Value.(*entry)
	if space, ok := c.spaces[e.namespace]; ok {
		delete(space, e.key)
		if len(space) == 0 {
			delete(c.spaces, e.namespace)
		}
	}
}
