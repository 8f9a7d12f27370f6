package fuzz

import (
	"errors"

	"github.com/nostalgist134/GqlGIU/components/gqlTypes"
)

var (
	ErrEmptyURL      = errors.New("empty target url")
	ErrEmptyWordlist = errors.New("empty wordlist")
	ErrStaleMarker   = errors.New("marker does not match query text")
	ErrNoProxyURL    = errors.New("use_proxy set but proxy url is empty")
)

// ValidateJob 开跑前的前置检查
// basic模式（没有marker）不需要wordlist，反正就是拿原始请求一直打到手动停为止
func ValidateJob(job *gqlTypes.Job) error {
	if job.URL == "" {
		return ErrEmptyURL
	}
	if job.UseProxy && job.ProxyURL == "" {
		return ErrNoProxyURL
	}
	if job.Marker != nil {
		if !job.Marker.ValidFor(job.Query) {
			return ErrStaleMarker
		}
		if len(job.Words) == 0 {
			return ErrEmptyWordlist
		}
	}
	return nil
}
