package common

import "strings"

// ParseHeaderBlock 解析workbench里粘贴的原始请求头文本，返回名字->值的map
// 规则：
//  1. 允许开头带一行"METHOD path"形式的请求行，直接丢弃
//  2. 每行按第一个冒号切成名字和值，两边都trim
//  3. content-length一律丢弃（发送时由传输层重新计算）
//  4. 同名头后出现的覆盖先出现的
func ParseHeaderBlock(raw string) map[string]string {
	headers := make(map[string]string)
	first := true
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		indColon := strings.Index(line, ":")
		if first {
			first = false
			// 第一个非空行如果冒号出现在空格之后（或者根本没有冒号），
			// 就认为是"GET /path HTTP/1.1"这种请求行
			indSpace := strings.IndexByte(line, ' ')
			if indSpace != -1 && (indColon == -1 || indColon > indSpace) {
				continue
			}
		}
		var name, value string
		if indColon == -1 {
			name = strings.TrimSpace(line)
		} else {
			name = strings.TrimSpace(line[:indColon])
			value = strings.TrimSpace(line[indColon+1:])
		}
		if name == "" || strings.EqualFold(name, "content-length") {
			continue
		}
		headers[name] = value
	}
	return headers
}

// EnsureContentType 若头里没有content-type（不区分大小写）则补一个json的，其余条目不动
func EnsureContentType(headers map[string]string) map[string]string {
	if headers == nil {
		headers = make(map[string]string)
	}
	for name := range headers {
		if strings.EqualFold(name, "content-type") {
			return headers
		}
	}
	headers["Content-Type"] = "application/json"
	return headers
}
