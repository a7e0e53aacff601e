package keys

import (
	"strings"
)

const (
	// PfxHttpCache is used for prefixing cached http responses
	PfxHttpCache = "httpCache"
	// PfxHealthCheck is used for prefixing health check redis key
	PfxHealthCheck = "healthcheck"
)

// RedisKey is used to join the redis key by components
func RedisKey(components ...string) string {
	return strings.Join(components, ":")
}
