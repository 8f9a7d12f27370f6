package common

import (
	"log"
	"os"
)

// Debug 由环境变量GQLGIU_DEBUG打开的详细请求/响应跟踪开关
var Debug = os.Getenv("GQLGIU_DEBUG") != ""

func Debugf(format string, args ...any) {
	if Debug {
		log.Printf("[debug] "+format, args...)
	}
}
