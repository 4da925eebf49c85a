package cache

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

// Namespace 缓存分区，同一手牌的不同计算结果互不覆盖
type Namespace byte

const (
	NsAgari   Namespace = 'a'
	NsWaits   Namespace = 'w'
	NsShanten Namespace = 's'
)

// Stats 命中统计
type Stats struct {
	Hits   uint64
	Misses uint64
}

// Ratio 命中率，没有访问时为 0
func (s Stats) Ratio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

func (s Stats) String() string {
	return fmt.Sprintf("命中 %d 未命中 %d 命中率 %.2f", s.Hits, s.Misses, s.Ratio())
}

// HandCache 手牌计算结果的本地缓存，键为手牌组成，每个条目成本为 1
// 多张牌桌可以共享同一个实例
type HandCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

// NewHandCache maxItems 为最多保留的条目数，ttl 为 0 表示不过期
func NewHandCache(maxItems int64, ttl time.Duration) (*HandCache, error) {
	if maxItems <= 0 {
		return nil, fmt.Errorf("缓存容量必须大于 0: %d", maxItems)
	}
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        maxItems * 10,
		MaxCost:            maxItems,
		BufferItems:        64,
		Metrics:            true,
		IgnoreInternalCost: true, // 成本只按条目计
	})
	if err != nil {
		return nil, fmt.Errorf("创建 ristretto 缓存失败: %w", err)
	}
	return &HandCache{cache: c, ttl: ttl}, nil
}

func key(ns Namespace, hand string) string {
	return string(ns) + ":" + hand
}

// Remember 写入是异步的，写入后立刻读取可能未命中
func (c *HandCache) Remember(ns Namespace, hand string, value interface{}) {
	c.cache.SetWithTTL(key(ns, hand), value, 1, c.ttl)
}

func (c *HandCache) Lookup(ns Namespace, hand string) (interface{}, bool) {
	return c.cache.Get(key(ns, hand))
}

// Forget 删除一条结果
func (c *HandCache) Forget(ns Namespace, hand string) {
	c.cache.Del(key(ns, hand))
}

// Flush 等待缓冲中的写入生效
func (c *HandCache) Flush() {
	c.cache.Wait()
}

func (c *HandCache) Stats() Stats {
	m := c.cache.Metrics
	return Stats{Hits: m.Hits(), Misses: m.Misses()}
}

func (c *HandCache) Close() {
	c.cache.Close()
}
