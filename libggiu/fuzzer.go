package libggiu

import (
	"context"
	"errors"
	"sync"

	"github.com/nostalgist134/GqlGIU/components/fuzz"
	"github.com/nostalgist134/GqlGIU/components/gqlTypes"
	"github.com/nostalgist134/GqlGIU/components/output"
)

const (
	FuzzerStatIdle    = 0
	FuzzerStatRunning = 1
)

var (
	errAlreadyRunning = errors.New("a fuzz job is already running")
	errNotRunning     = errors.New("no fuzz job is running")
)

// Fuzzer 执行fuzz任务，同一时刻只允许一个任务在跑
// 和一次性的流水线不同，Stop之后可以直接用Start跑下一轮，结果集换新
type Fuzzer struct {
	stat    int8
	statMux sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	rs      *fuzz.ResultSet
	lastErr error
}

func NewFuzzer() *Fuzzer {
	return &Fuzzer{rs: fuzz.NewResultSet()}
}

// Start 启动一个fuzz任务，onResult在每行结果产出时被调用（可为nil）
// 校验同步完成，校验不过不会进入running状态
func (f *Fuzzer) Start(job *gqlTypes.Job, onResult fuzz.ResultHandler) error {
	f.statMux.Lock()
	defer f.statMux.Unlock()
	if f.stat == FuzzerStatRunning {
		return errAlreadyRunning
	}
	if err := fuzz.ValidateJob(job); err != nil {
		return err
	}

	// 新一轮任务开始时丢弃上一轮的结果
	f.rs.Clear()
	f.lastErr = nil
	output.Cntr.Reset(len(job.Words))
	output.Cntr.StartRecordRate()

	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	f.stat = FuzzerStatRunning

	handler := func(r *gqlTypes.FuzzResult) {
		output.Cntr.Complete()
		if len(r.Status) > 0 && (r.Status[0] < '0' || r.Status[0] > '9') {
			output.Cntr.Error()
		}
		if onResult != nil {
			onResult(r)
		}
	}

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		err := fuzz.Run(ctx, job, f.rs, handler)
		output.Cntr.StopRecordRate()
		f.statMux.Lock()
		f.lastErr = err
		f.stat = FuzzerStatIdle
		f.cancel = nil
		f.statMux.Unlock()
		cancel()
	}()
	return nil
}

// Stop 取消当前任务，已经完整收到响应的结果行保留，被打断的请求不会产生结果行
func (f *Fuzzer) Stop() error {
	f.statMux.Lock()
	defer f.statMux.Unlock()
	if f.stat != FuzzerStatRunning || f.cancel == nil {
		return errNotRunning
	}
	f.cancel()
	return nil
}

// Wait 阻塞直到当前任务退出
func (f *Fuzzer) Wait() {
	f.wg.Wait()
}

func (f *Fuzzer) Status() int8 {
	f.statMux.Lock()
	defer f.statMux.Unlock()
	return f.stat
}

// LastErr 上一轮任务的退出错误（被取消或正常跑完都为nil）
func (f *Fuzzer) LastErr() error {
	f.statMux.Lock()
	defer f.statMux.Unlock()
	return f.lastErr
}

// Results 按序号升序返回当前已有的结果行
func (f *Fuzzer) Results() []*gqlTypes.FuzzResult {
	return f.rs.Ordered()
}

// Progress 返回已完成数与总数
func (f *Fuzzer) Progress() (completed, total int) {
	return output.Cntr.Completed(), output.Cntr.Total()
}
