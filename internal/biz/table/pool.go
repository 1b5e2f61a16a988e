package table

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/go-kratos/kratos/v2/log"
)

// Pool 桌子池
type Pool struct {
	mu     sync.RWMutex
	tables map[string]*Table
}

// NewPool 创建桌子池
func NewPool() *Pool {
	return &Pool{
		tables: make(map[string]*Table),
	}
}

// Add 添加桌子
func (p *Pool) Add(t *Table) {
	p.mu.Lock()
	p.tables[t.ID()] = t
	p.mu.Unlock()
}

// Get 获取桌子
func (p *Pool) Get(id string) (*Table, bool) {
	p.mu.RLock()
	t, ok := p.tables[id]
	p.mu.RUnlock()
	return t, ok
}

func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.tables)
}

// List 列出所有桌子（按创建时间倒序）
func (p *Pool) List() []*Table {
	p.mu.RLock()
	out := make([]*Table, 0, len(p.tables))
	for _, t := range p.tables {
		out = append(out, t)
	}
	p.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].createdAt.After(out[j].createdAt)
	})
	return out
}

// Remove 移除桌子，调用方负责在帧线程 Close
func (p *Pool) Remove(id string) (*Table, bool) {
	p.mu.Lock()
	t, ok := p.tables[id]
	if ok {
		delete(p.tables, id)
	}
	p.mu.Unlock()
	return t, ok
}

// StartAutoCleanup 周期清理空闲桌子，被移除的桌子交给 onExpired 释放
func (p *Pool) StartAutoCleanup(ctx context.Context, logger log.Logger, ttl, interval time.Duration, onExpired func([]*Table)) {
	logHelper := log.NewHelper(logger)
	logHelper.Infof("Table cleaner started, ttl=%v, interval=%v", ttl, interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logHelper.Info("closing table cleaner")
			return
		case now := <-ticker.C:
			if removed := p.CleanupIdle(now, ttl); len(removed) > 0 {
				logHelper.Infof("Table cleanup: removed %d idle tables", len(removed))
				if onExpired != nil {
					onExpired(removed)
				}
			}
		}
	}
}

// CleanupIdle 移除 ttl 内没有操作也没有结算的桌子
func (p *Pool) CleanupIdle(now time.Time, ttl time.Duration) []*Table {
	p.mu.Lock()
	defer p.mu.Unlock()

	var removed []*Table
	for id, t := range p.tables {
		if !t.Idle(now, ttl) {
			continue
		}
		delete(p.tables, id)
		removed = append(removed, t)
	}
	return removed
}
