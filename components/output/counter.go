package output

import (
	"sync"
	"sync/atomic"
	"time"
)

type Progress struct {
	Completed int64 `json:"completed"`
	Total     int64 `json:"total"`
}

// Counter fuzz进度计数器，Complete由各发包协程并发调用
type Counter struct {
	StartTime time.Time `json:"start_time"`
	Rate      int64     `json:"rate"`
	Errors    int64     `json:"errors"`
	Task      Progress  `json:"task"`
	ticker    *time.Ticker
	mu        sync.Mutex
	stop      chan struct{}
}

func (c *Counter) Reset(total int) {
	c.StartTime = time.Now()
	atomic.StoreInt64(&c.Rate, 0)
	atomic.StoreInt64(&c.Errors, 0)
	atomic.StoreInt64(&c.Task.Completed, 0)
	atomic.StoreInt64(&c.Task.Total, int64(total))
}

func (c *Counter) Complete() {
	atomic.AddInt64(&c.Task.Completed, 1)
}

func (c *Counter) Error() {
	atomic.AddInt64(&c.Errors, 1)
}

func (c *Counter) Completed() int {
	return int(atomic.LoadInt64(&c.Task.Completed))
}

func (c *Counter) Total() int {
	return int(atomic.LoadInt64(&c.Task.Total))
}

func (c *Counter) GetErrors() int {
	return int(atomic.LoadInt64(&c.Errors))
}

func (c *Counter) GetRate() int {
	return int(atomic.LoadInt64(&c.Rate))
}

func (c *Counter) TimeLapsed() time.Duration {
	return time.Since(c.StartTime)
}

// StartRecordRate 开始计算速率
func (c *Counter) StartRecordRate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ticker != nil {
		return
	}
	c.ticker = time.NewTicker(time.Second) // 速率每秒统计1次
	// stop管道要在锁内建好，不然Stop和一次新Start赛跑时会看到nil把ticker漏掉
	c.stop = make(chan struct{})
	go func() {
		lastCompleted := c.Completed()
		for {
			select {
			case <-c.stop:
				c.ticker.Stop()
				c.ticker = nil
				return
			case <-c.ticker.C:
				cur := c.Completed()
				atomic.StoreInt64(&c.Rate, int64(cur-lastCompleted))
				lastCompleted = cur
			}
		}
	}()
}

// StopRecordRate 结束计算速率
func (c *Counter) StopRecordRate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop == nil {
		return
	}
	select {
	case c.stop <- struct{}{}:
	default:
	}
}
