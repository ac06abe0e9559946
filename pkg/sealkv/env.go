package sealkv

import (
	"fmt"
	"os"
	"strings"

	"github.com/sealkv/sealkv/pkg/store"
	"github.com/sealkv/sealkv/pkg/store/memstore"
	"github.com/sealkv/sealkv/pkg/store/pebblestore"
	"github.com/sealkv/sealkv/pkg/store/redisstore"
)

const (
	envStoreMode = "SEALKV_STORE"
	envRedisURL  = "SEALKV_REDIS_URL"
	envPebbleDir = "SEALKV_PEBBLE_DIR"

	modeAuto   = "auto"
	modeRedis  = "redis"
	modePebble = "pebble"
	modeMem    = "mem"
)

// StoreFromEnv builds a store from SEALKV_* environment variables and
// returns it with the resolved mode name. Auto mode prefers redis when
// SEALKV_REDIS_URL is set, then pebble when SEALKV_PEBBLE_DIR is set, and
// falls back to an in-memory store.
func StoreFromEnv() (st store.Store, mode string, err error) {
	mode = strings.ToLower(strings.TrimSpace(os.Getenv(envStoreMode)))
	redisURL := strings.TrimSpace(os.Getenv(envRedisURL))
	pebbleDir := strings.TrimSpace(os.Getenv(envPebbleDir))

	switch mode {
	case "", modeAuto:
		if redisURL != "" {
			return newRedisStore(redisURL)
		}
		if pebbleDir != "" {
			return newPebbleStore(pebbleDir)
		}
		return memstore.New(), modeMem, nil
	case modeRedis:
		if redisURL == "" {
			return nil, "", fmt.Errorf("sealkv: redis mode requires %s", envRedisURL)
		}
		return newRedisStore(redisURL)
	case modePebble:
		if pebbleDir == "" {
			return nil, "", fmt.Errorf("sealkv: pebble mode requires %s", envPebbleDir)
		}
		return newPebbleStore(pebbleDir)
	case modeMem:
		return memstore.New(), modeMem, nil
	default:
		return nil, "", fmt.Errorf("sealkv: unsupported %s value %q", envStoreMode, mode)
	}
}

func newRedisStore(url string) (store.Store, string, error) {
	st, err := redisstore.NewFromURL(url)
	if err != nil {
		return nil, "", fmt.Errorf("sealkv: init redis store: %w", err)
	}
	return st, modeRedis, nil
}

func newPebbleStore(dir string) (store.Store, string, error) {
	st, err := pebblestore.Open(dir)
	if err != nil {
		return nil, "", fmt.Errorf("sealkv: init pebble store: %w", err)
	}
	return st, modePebble, nil
}
