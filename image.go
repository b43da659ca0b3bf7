package cgpu

import (
	"fmt"

	"github.com/pablode/cgpu/core"
	"github.com/pablode/cgpu/hal"
	"github.com/pablode/cgpu/resource"
)

// CreateImage allocates an image through the Context's Resource
// Manager, applying spec.md §4.4's fixed tiling rules.
func (ctx *Context) CreateImage(req resource.ImageRequest) (core.ImageID, error) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	img, err := ctx.res.CreateImage(req)
	if err != nil {
		return core.ImageID{}, fmt.Errorf("cgpu: create image: %w", err)
	}
	return ctx.images.Register(img), nil
}

// DestroyImage releases an image previously created with CreateImage.
func (ctx *Context) DestroyImage(id core.ImageID) error {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	img, err := ctx.images.Unregister(id)
	if err != nil {
		return fmt.Errorf("cgpu: destroy image: %w", err)
	}
	ctx.res.DestroyImage(img)
	return nil
}

// MapImage maps a 2D linear-tiling transfer image created with
// CreateImage, the one case spec.md permits mapping an image directly.
func (ctx *Context) MapImage(id core.ImageID) ([]byte, error) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	img, err := ctx.images.Get(id)
	if err != nil {
		return nil, fmt.Errorf("cgpu: map image: %w", err)
	}
	return ctx.res.MapImage(img)
}

// UnmapImage unmaps an image previously mapped with MapImage.
func (ctx *Context) UnmapImage(id core.ImageID) error {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	img, err := ctx.images.Get(id)
	if err != nil {
		return fmt.Errorf("cgpu: unmap image: %w", err)
	}
	ctx.res.UnmapImage(img)
	return nil
}

func (ctx *Context) resolveImage(id core.ImageID) (hal.Image, error) {
	return ctx.images.Get(id)
}
