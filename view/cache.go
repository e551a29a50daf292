package view

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/golang/groupcache/lru"
)

type tileKey struct {
	tx, ty int
}

// CacheStats counts tile lookups of a BlockCacheView.
type CacheStats struct {
	Hits   uint64
	Misses uint64
}

// BlockCacheView keeps recently used tiles of an expensive source view in memory.
// The first read of a pixel rasterizes its whole tile across all planes; later reads
// within the tile are served from the cache until the tile is evicted.  Tiles are
// square and large enough tile sizes let a row or column scan reuse each tile many
// times.
type BlockCacheView[T any] struct {
	src      View[T]
	tileSize int

	mu    sync.Mutex
	cache *lru.Cache
	stats CacheStats
}

// BlockCache wraps src with an LRU cache holding up to maxTiles tiles of
// tileSize x tileSize pixels.
func BlockCache[T any](src View[T], tileSize, maxTiles int) (*BlockCacheView[T], error) {
	if err := CheckDims(src); err != nil {
		return nil, err
	}
	if tileSize <= 0 || maxTiles <= 0 {
		return nil, fmt.Errorf("block cache needs positive tile size and count, got %d and %d", tileSize, maxTiles)
	}
	return &BlockCacheView[T]{
		src:      src,
		tileSize: tileSize,
		cache:    lru.New(maxTiles),
	}, nil
}

func (v *BlockCacheView[T]) Cols() int                { return v.src.Cols() }
func (v *BlockCacheView[T]) Rows() int                { return v.src.Rows() }
func (v *BlockCacheView[T]) Planes() int              { return v.src.Planes() }
func (v *BlockCacheView[T]) MultiplyAccessible() bool { return true }

func (v *BlockCacheView[T]) tile(key tileKey) *Image[T] {
	v.mu.Lock()
	if cached, found := v.cache.Get(key); found {
		v.stats.Hits++
		v.mu.Unlock()
		return cached.(*Image[T])
	}
	v.stats.Misses++
	v.mu.Unlock()

	x0, y0 := key.tx*v.tileSize, key.ty*v.tileSize
	bbox := image.Rect(x0, y0, x0+v.tileSize, y0+v.tileSize).Intersect(Bounds(v.src))
	img := NewImage[T](bbox.Dx(), bbox.Dy(), v.src.Planes())
	// A background context is never canceled, so filling the tile cannot fail.
	if err := rasterizeInto(context.Background(), img, image.Point{}, v.src, bbox); err != nil {
		panic(fmt.Sprintf("view.BlockCache: rasterizing tile %v: %v", bbox, err))
	}

	v.mu.Lock()
	v.cache.Add(key, img)
	v.mu.Unlock()
	return img
}

func (v *BlockCacheView[T]) At(i, j, p int) T {
	key := tileKey{i / v.tileSize, j / v.tileSize}
	return v.tile(key).At(i%v.tileSize, j%v.tileSize, p)
}

// Stats returns the number of tile cache hits and misses so far.
func (v *BlockCacheView[T]) Stats() CacheStats {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stats
}
