package cache

import (
	"fmt"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const megabyte = 1024 * 1024

// DefaultReportCacheSizeMB is used when the configured size is not positive.
const DefaultReportCacheSizeMB = 32

var _ Cache = (*ReportCache)(nil)

type ReportCache struct {
	mainCache *freecache.Cache
}

func NewReportCache(sizeMB int) *ReportCache {
	if sizeMB <= 0 {
		sizeMB = DefaultReportCacheSizeMB
	}
	return &ReportCache{
		mainCache: freecache.NewCache(sizeMB * megabyte),
	}
}

func (rc *ReportCache) Get(key string) ([]byte, bool) {
	val, err := rc.mainCache.Get([]byte(key))
	if err != nil {
		log.Tracef("report cache miss for %s: %s", key, err)
		return nil, false
	}
	return val, true
}

// Set stores value for ttl. A non-positive ttl keeps the entry until it is evicted.
func (rc *ReportCache) Set(key string, value []byte, ttl time.Duration) error {
	expire := 0
	if ttl > 0 {
		expire = int(ttl.Seconds())
		if expire == 0 {
			expire = 1
		}
	}
	if err := rc.mainCache.Set([]byte(key), value, expire); err != nil {
		return fmt.Errorf("set report cache %s: %w", key, err)
	}
	return nil
}

func (rc *ReportCache) Clear() {
	rc.mainCache.Clear()
}

func (rc *ReportCache) EntryCount() int64 {
	return rc.mainCache.EntryCount()
}
