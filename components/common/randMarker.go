package common

import (
	"math/rand"
	"strings"
)

const markerDict = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandMarker 生成一个长度为12的随机字符串，api的访问token用的就是这个
func RandMarker() string {
	sb := strings.Builder{}
	for i := 0; i < 12; i++ {
		sb.WriteByte(markerDict[rand.Intn(len(markerDict))])
	}
	return sb.String()
}
