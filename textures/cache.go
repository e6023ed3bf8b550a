package textures

import (
	"fmt"
	"image/color"
	"sync"

	"go.uber.org/zap"

	"forward-renderer/gpu"
)

// Cache uploads each file once and hands out the shared texture.
type Cache struct {
	dev      gpu.Device
	textures map[string]gpu.Texture
	mu       sync.RWMutex
	log      *zap.Logger
}

func NewCache(dev gpu.Device, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{dev: dev, textures: make(map[string]gpu.Texture), log: log}
}

// Load returns the cached texture for path, uploading it on first use.
func (c *Cache) Load(path string) (gpu.Texture, error) {
	c.mu.RLock()
	if tex, ok := c.textures[path]; ok {
		c.mu.RUnlock()
		return tex, nil
	}
	c.mu.RUnlock()

	img, err := Load(path)
	if err != nil {
		return nil, err
	}
	tex, err := Upload(c.dev, path, img)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.textures[path]; ok {
		tex.Release()
		return prev, nil
	}
	c.textures[path] = tex
	return tex, nil
}

// LoadOr returns the texture at path, or fallback when it cannot be loaded.
func (c *Cache) LoadOr(path string, fallback color.RGBA) gpu.Texture {
	if path != "" {
		tex, err := c.Load(path)
		if err == nil {
			return tex
		}
		c.log.Warn("texture load failed, using fallback", zap.String("path", path), zap.Error(err))
	}
	return c.Solid(fallback)
}

// Solid returns a shared 1x1 texture of col.
func (c *Cache) Solid(col color.RGBA) gpu.Texture {
	key := solidKey(col)
	c.mu.RLock()
	if tex, ok := c.textures[key]; ok {
		c.mu.RUnlock()
		return tex
	}
	c.mu.RUnlock()

	tex, err := c.dev.CreateTexture(Desc(key, Solid(col), false))
	if err != nil {
		c.log.Error("solid texture", zap.String("name", key), zap.Error(err))
		return nil
	}
	c.mu.Lock()
	c.textures[key] = tex
	c.mu.Unlock()
	return tex
}

func solidKey(c color.RGBA) string {
	return fmt.Sprintf("solid-#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// Len is the number of cached textures.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.textures)
}

// Release frees every cached texture.
func (c *Cache) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, tex := range c.textures {
		tex.Release()
	}
	c.textures = make(map[string]gpu.Texture)
}
