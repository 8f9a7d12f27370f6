package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nostalgist134/GqlGIU/components/gqlTypes"
)

func retNilStr(s string) string {
	if s == "" {
		return "[nil]"
	}
	return s
}

// jobInfoLines 将fuzz任务配置转化为任务信息窗口的行
func jobInfoLines(job *gqlTypes.Job) []string {
	if job == nil {
		return []string{"[no job]"}
	}
	marker := "[nil]"
	if job.Marker != nil {
		marker = fmt.Sprintf("[%d,%d)=%q", job.Marker.Start, job.Marker.End, job.Marker.Orig)
	}
	proxy := "[direct]"
	if job.UseProxy {
		proxy = job.ProxyURL
	}
	return []string{
		"URL     : " + retNilStr(job.URL),
		"MARKER  : " + marker,
		"WORDS   : " + strconv.Itoa(len(job.Words)),
		fmt.Sprintf("THREADS : %d    DELAY : %dms", job.Threads, job.DelayMs),
		"PROXY   : " + proxy,
	}
}

// resultLine 把单条结果压成一行，宽度不够的部分靠左右翻页看
func resultLine(res *gqlTypes.FuzzResult) string {
	word := res.Word
	if word == "" {
		word = "-"
	}
	body := strings.ReplaceAll(res.RespBody, "\n", " ")
	return fmt.Sprintf("#%-4d %-24s status: %-28s len: %-8s time: %dms    %s",
		res.Seq, word, res.Status, res.Length, res.TimeMs, body)
}
