// ABOUTME: Injectable load-once cache for the target model.
// ABOUTME: A failed load is remembered for the life of the cache; there is no retry.
package targets

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// Loader reads a Model from path.
type Loader func(path string) (Model, error)

// Observer receives model lifecycle events. err is nil on success.
type Observer interface {
	ModelLoad(err error)
	ModelPredict(err error)
}

// ModelCache holds at most one Model, loaded lazily on first Get.
// Once loaded the slot is never written again, so readers need no lock.
type ModelCache struct {
	path   string
	load   Loader
	logger *log.Logger
	obs    Observer

	once   sync.Once
	loaded atomic.Bool
	model  Model
	err    error
}

// NewModelCache creates a cache that loads the artifact at path on first use.
// An empty path means no model is configured.
func NewModelCache(path string, logger *log.Logger, obs Observer) *ModelCache {
	return &ModelCache{path: path, load: LoadModel, logger: logger, obs: obs}
}

// NewModelCacheWithLoader is NewModelCache with a custom loader.
func NewModelCacheWithLoader(path string, load Loader, logger *log.Logger, obs Observer) *ModelCache {
	return &ModelCache{path: path, load: load, logger: logger, obs: obs}
}

// NewStaticModelCache returns a cache already holding m. A nil m yields a
// cache that always reports ErrModelUnavailable.
func NewStaticModelCache(m Model) *ModelCache {
	c := &ModelCache{}
	c.once.Do(func() {
		if m == nil {
			c.err = ErrModelUnavailable
			return
		}
		c.model = m
	})
	c.loaded.Store(true)
	return c
}

// Get returns the cached model, loading it on the first call.
func (c *ModelCache) Get() (Model, error) {
	c.once.Do(c.doLoad)
	return c.model, c.err
}

// Loaded reports whether a load attempt has completed.
func (c *ModelCache) Loaded() bool {
	return c.loaded.Load()
}

// Path returns the configured artifact path.
func (c *ModelCache) Path() string {
	return c.path
}

func (c *ModelCache) doLoad() {
	defer c.loaded.Store(true)

	if c.path == "" {
		c.err = fmt.Errorf("%w: no model path configured", ErrModelUnavailable)
		return
	}

	m, err := c.load(c.path)
	if err == nil && m == nil {
		err = errors.New("loader returned no model")
	}
	if c.obs != nil {
		c.obs.ModelLoad(err)
	}
	if err != nil {
		c.err = fmt.Errorf("%w: %v", ErrModelUnavailable, err)
		if c.logger != nil {
			if errors.Is(err, os.ErrNotExist) {
				c.logger.Debug("no target model on disk", "path", c.path)
			} else {
				c.logger.Warn("target model failed to load", "path", c.path, "err", err)
			}
		}
		return
	}

	c.model = m
	if c.logger != nil {
		c.logger.Info("target model loaded", "path", c.path)
	}
}
