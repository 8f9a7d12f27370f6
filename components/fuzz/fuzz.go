package fuzz

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nostalgist134/GqlGIU/components/common"
	"github.com/nostalgist134/GqlGIU/components/gqlTypes"
	"github.com/nostalgist134/GqlGIU/components/send"
)

// ResultHandler 每产出一行结果时的回调，ws流和termui屏幕都挂在这上面
type ResultHandler func(*gqlTypes.FuzzResult)

// Run 执行一个fuzz任务，wordlist耗尽或者ctx取消时返回，结果写进rs
// 进来先克隆job，跑的过程中调用方改配置不影响本次任务
func Run(ctx context.Context, job *gqlTypes.Job, rs *ResultSet, onResult ResultHandler) error {
	if err := ValidateJob(job); err != nil {
		return err
	}
	job = job.Clone()
	job.Headers = common.EnsureContentType(job.Headers)
	if job.Method == "" {
		job.Method = http.MethodPost
	}

	switch {
	case job.Marker == nil:
		runBasic(ctx, job, rs, onResult)
	case job.Threads <= 1:
		runSequential(ctx, job, rs, onResult)
	default:
		runBatched(ctx, job, rs, onResult)
	}
	return nil
}

// doOne 发单次请求并合成结果行，请求被取消吞掉时返回nil
func doOne(ctx context.Context, job *gqlTypes.Job, seq int, word string) *gqlTypes.FuzzResult {
	query := Splice(job.Query, job.Marker, word)
	body := BuildBody(query, job.Variables)
	meta := &gqlTypes.SendMeta{
		URL:      job.URL,
		Method:   job.Method,
		Headers:  job.Headers,
		Body:     body,
		UseProxy: job.UseProxy,
		ProxyURL: job.ProxyURL,
	}

	start := time.Now()
	resp, err := send.Request(ctx, meta)
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		// 取消属于预期行为，不算结果
		if ctx.Err() != nil {
			return nil
		}
		res := &gqlTypes.FuzzResult{
			Seq:     seq,
			Word:    word,
			Length:  "0",
			TimeMs:  elapsed,
			ReqBody: string(body),
		}
		pe := (*send.ProxyError)(nil)
		if errors.As(err, &pe) {
			res.Status = "Proxy Error: " + pe.Msg
		} else {
			res.Status = "Error: " + err.Error()
		}
		return res
	}

	return &gqlTypes.FuzzResult{
		Seq:         seq,
		Word:        word,
		Status:      strconv.Itoa(resp.Status),
		Length:      contentLength(resp),
		TimeMs:      elapsed,
		ReqBody:     string(body),
		RespBody:    resp.Body,
		RespHeaders: resp.Headers,
	}
}

// contentLength 响应头里声明了content-length就用声明值，否则用实际读到的长度
func contentLength(resp *gqlTypes.Resp) string {
	for name, value := range resp.Headers {
		if strings.EqualFold(name, "content-length") {
			return value
		}
	}
	return strconv.Itoa(len(resp.Body))
}

func emit(rs *ResultSet, onResult ResultHandler, r *gqlTypes.FuzzResult) {
	if r == nil {
		return
	}
	rs.Put(r)
	if onResult != nil {
		onResult(r)
	}
}

// sleepCtx 可被取消的延时，被取消返回false
func sleepCtx(ctx context.Context, ms int) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(time.Duration(ms) * time.Millisecond):
		return true
	}
}

// runBasic basic模式：不替换，拿同一个请求一直打，只有取消能停
func runBasic(ctx context.Context, job *gqlTypes.Job, rs *ResultSet, onResult ResultHandler) {
	for seq := 1; ; seq++ {
		if ctx.Err() != nil {
			return
		}
		r := doOne(ctx, job, seq, "")
		emit(rs, onResult, r)
		if r == nil {
			return
		}
		if job.DelayMs > 0 && !sleepCtx(ctx, job.DelayMs) {
			return
		}
	}
}

// runSequential threads=1：一个接一个发，每次完成后可选固定延时
func runSequential(ctx context.Context, job *gqlTypes.Job, rs *ResultSet, onResult ResultHandler) {
	for i, word := range job.Words {
		if ctx.Err() != nil {
			return
		}
		r := doOne(ctx, job, i+1, word)
		emit(rs, onResult, r)
		if r == nil {
			return
		}
		if job.DelayMs > 0 && i != len(job.Words)-1 && !sleepCtx(ctx, job.DelayMs) {
			return
		}
	}
}

// runBatched threads=N>1：wordlist按顺序切成N个一批，批内全并发并等整批落地
// 批内单个请求失败不拖垮同批其他请求，批与批之间可选固定延时
// 语义上就是固定批宽+join屏障，不是滑动窗口
func runBatched(ctx context.Context, job *gqlTypes.Job, rs *ResultSet, onResult ResultHandler) {
	n := job.Threads
	for begin := 0; begin < len(job.Words); begin += n {
		if ctx.Err() != nil {
			return
		}
		end := min(begin+n, len(job.Words))
		batch := job.Words[begin:end]
		results := make([]*gqlTypes.FuzzResult, len(batch))

		wg := sync.WaitGroup{}
		for i := range batch {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = doOne(ctx, job, begin+i+1, batch[i])
			}(i)
		}
		wg.Wait()

		for _, r := range results {
			emit(rs, onResult, r)
		}
		if job.DelayMs > 0 && end < len(job.Words) && !sleepCtx(ctx, job.DelayMs) {
			return
		}
	}
}
