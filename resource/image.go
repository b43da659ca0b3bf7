package resource

import "github.com/pablode/cgpu/hal"

// ImageRequest is the caller-supplied intent for CreateImage; tiling,
// mip count, layer count and sample count are all fixed by spec.md §4.4
// and never caller-controlled.
type ImageRequest struct {
	Label  string
	Format hal.ImageFormat
	Width  uint32
	Height uint32
	Depth  uint32
	Usage  hal.ImageUsage
}

// CreateImage runs spec.md §4.4's image-creation rules: 2D linear tiling
// only for a 2D image with transfer src/dst usage, optimal tiling
// otherwise; always 1 mip, 1 array layer, sample count 1, device-local
// memory, a full-resource color-aspect view; initial layout UNDEFINED,
// access mask 0.
func (m *Manager) CreateImage(req ImageRequest) (hal.Image, error) {
	is2D := req.Depth <= 1
	hasTransfer := req.Usage&(hal.ImageUsageTransferSrc|hal.ImageUsageTransferDst) != 0

	desc := hal.ImageDescriptor{
		Label:        req.Label,
		Format:       req.Format,
		Width:        req.Width,
		Height:       req.Height,
		Depth:        req.Depth,
		Usage:        req.Usage,
		LinearTiling: is2D && hasTransfer,
	}

	return m.dev.CreateImage(desc)
}

// DestroyImage releases an image created by CreateImage.
func (m *Manager) DestroyImage(img hal.Image) {
	m.dev.DestroyImage(img)
}

// MapImage maps a 2D linear-tiling image created with transfer src/dst
// usage for host access — the one case spec.md permits an application to
// map an image directly, rather than staging through a buffer.
func (m *Manager) MapImage(img hal.Image) ([]byte, error) {
	return m.dev.MapImage(img)
}

// UnmapImage unmaps an image previously mapped with MapImage.
func (m *Manager) UnmapImage(img hal.Image) {
	m.dev.UnmapImage(img)
}
