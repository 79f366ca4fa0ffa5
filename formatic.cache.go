package formatic

import (
	"container/list"
	"sync"

	"go.uber.org/zap"
)

// compileCache is a bounded LRU of compiled templates keyed by raw source
type compileCache struct {
	maxSize int
	items   map[string]*list.Element
	lruList *list.List
	mu      sync.Mutex
	logger  *zap.Logger
}

type compileCacheItem struct {
	source   string
	template *Template
}

func newCompileCache(maxSize int, logger *zap.Logger) *compileCache {
	return &compileCache{
		maxSize: maxSize,
		items:   make(map[string]*list.Element),
		lruList: list.New(),
		logger:  logger,
	}
}

// get returns the cached template and marks it most recently used
func (c *compileCache) get(source string) (*Template, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	element, ok := c.items[source]
	if !ok {
		return nil, false
	}
	c.lruList.MoveToFront(element)
	return element.Value.(*compileCacheItem).template, true
}

// put stores a template, evicting the least recently used entry when full
func (c *compileCache) put(source string, tmpl *Template) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if element, ok := c.items[source]; ok {
		element.Value.(*compileCacheItem).template = tmpl
		c.lruList.MoveToFront(element)
		return
	}

	c.items[source] = c.lruList.PushFront(&compileCacheItem{source: source, template: tmpl})
	for c.lruList.Len() > c.maxSize {
		oldest := c.lruList.Back()
		item := oldest.Value.(*compileCacheItem)
		c.lruList.Remove(oldest)
		delete(c.items, item.source)
		c.logger.Debug(LogMsgCacheEvicted, zap.Int(LogFieldSourceLen, len(item.source)))
	}
}

// len returns the number of cached templates
func (c *compileCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lruList.Len()
}
