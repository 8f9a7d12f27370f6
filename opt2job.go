package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/nostalgist134/GqlGIU/components/common"
	"github.com/nostalgist134/GqlGIU/components/gqlTypes"
	"github.com/nostalgist134/GqlGIU/components/options"
	"github.com/nostalgist134/GqlGIU/components/wordlist"
)

// opt2job 把fuzz子命令的命令行参数转成一个job
func opt2job(opt *options.Fuzz) (*gqlTypes.Job, error) {
	job := &gqlTypes.Job{
		URL:       opt.URL,
		Method:    opt.Method,
		Query:     opt.Query,
		Variables: opt.Variables,
		Threads:   opt.Threads,
		DelayMs:   opt.Delay,
	}

	// 重复的-H拼成一个头块走统一的解析路径
	if len(opt.Headers) > 0 {
		job.Headers = common.EnsureContentType(common.ParseHeaderBlock(strings.Join(opt.Headers, "\n")))
	}

	if opt.ProxyURL != "" {
		job.UseProxy = true
		job.ProxyURL = opt.ProxyURL
	}

	// mark-start/mark-end都给了才算指定了marker
	if opt.MarkStart >= 0 || opt.MarkEnd >= 0 {
		if opt.MarkStart < 0 || opt.MarkEnd > len(opt.Query) || opt.MarkStart >= opt.MarkEnd {
			return nil, fmt.Errorf("invalid marker range [%d,%d) for query of length %d",
				opt.MarkStart, opt.MarkEnd, len(opt.Query))
		}
		job.Marker = &gqlTypes.Marker{
			Start: opt.MarkStart,
			End:   opt.MarkEnd,
			Orig:  opt.Query[opt.MarkStart:opt.MarkEnd],
		}
	}

	// 多个词表按出现顺序合并
	for _, fileName := range opt.Wordlists {
		words, err := wordlist.LoadFile(fileName)
		if err != nil {
			return nil, fmt.Errorf("failed to load wordlist %s: %v", fileName, err)
		}
		job.Words = append(job.Words, words...)
	}
	return job, nil
}

func quitErr(err error) {
	fmt.Fprintln(os.Stderr, err.Error())
	os.Exit(1)
}
