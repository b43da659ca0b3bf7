package resource_test

import (
	"testing"

	"github.com/pablode/cgpu/hal"
	"github.com/pablode/cgpu/internal/haltest"
	"github.com/pablode/cgpu/resource"
)

func TestCreateImage_3DNeverLinear(t *testing.T) {
	dev := haltest.NewDevice(256)
	m := resource.NewManager(dev, false, 256, 64)

	img, err := m.CreateImage(resource.ImageRequest{
		Format: hal.ImageFormatRGBA8Unorm,
		Width:  64, Height: 64, Depth: 4,
		Usage: hal.ImageUsageTransferSrc | hal.ImageUsageTransferDst,
	})
	if err != nil {
		t.Fatalf("CreateImage: %v", err)
	}
	// A 3D image is never linear, so MapImage must fail regardless of
	// transfer usage.
	if _, err := m.MapImage(img); err == nil {
		t.Error("expected MapImage to fail on a 3D image")
	}
}

func TestCreateImage_2DWithoutTransferUsageNotLinear(t *testing.T) {
	dev := haltest.NewDevice(256)
	m := resource.NewManager(dev, false, 256, 64)

	img, err := m.CreateImage(resource.ImageRequest{
		Format: hal.ImageFormatRGBA8Unorm,
		Width:  64, Height: 64, Depth: 1,
		Usage: hal.ImageUsageSampled | hal.ImageUsageStorage,
	})
	if err != nil {
		t.Fatalf("CreateImage: %v", err)
	}
	if _, err := m.MapImage(img); err == nil {
		t.Error("expected MapImage to fail on a 2D image with no transfer usage")
	}
}

func TestCreateImage_2DWithTransferUsageIsLinearAndMappable(t *testing.T) {
	dev := haltest.NewDevice(256)
	m := resource.NewManager(dev, false, 256, 64)

	img, err := m.CreateImage(resource.ImageRequest{
		Format: hal.ImageFormatRGBA8Unorm,
		Width:  4, Height: 4, Depth: 1,
		Usage: hal.ImageUsageTransferSrc | hal.ImageUsageTransferDst,
	})
	if err != nil {
		t.Fatalf("CreateImage: %v", err)
	}
	data, err := m.MapImage(img)
	if err != nil {
		t.Fatalf("MapImage: %v", err)
	}
	wantBytes := 4 * 4 * 4 // width * height * 4 bytes/pixel for RGBA8
	if len(data) != wantBytes {
		t.Errorf("len(data) = %d, want %d", len(data), wantBytes)
	}
}

func TestCreateImage_InitialLayoutUndefined(t *testing.T) {
	dev := haltest.NewDevice(256)
	m := resource.NewManager(dev, false, 256, 64)

	img, err := m.CreateImage(resource.ImageRequest{
		Format: hal.ImageFormatRGBA8Unorm,
		Width:  16, Height: 16, Depth: 1,
		Usage: hal.ImageUsageSampled,
	})
	if err != nil {
		t.Fatalf("CreateImage: %v", err)
	}
	if img.Layout() != hal.ImageLayoutUndefined {
		t.Errorf("Layout() = %v, want ImageLayoutUndefined", img.Layout())
	}
	if img.AccessMask() != hal.AccessNone {
		t.Errorf("AccessMask() = %v, want AccessNone", img.AccessMask())
	}
}

func TestUnmapImage_DoesNotPanic(t *testing.T) {
	dev := haltest.NewDevice(256)
	m := resource.NewManager(dev, false, 256, 64)

	img, err := m.CreateImage(resource.ImageRequest{
		Format: hal.ImageFormatRGBA8Unorm,
		Width:  4, Height: 4, Depth: 1,
		Usage: hal.ImageUsageTransferSrc,
	})
	if err != nil {
		t.Fatalf("CreateImage: %v", err)
	}
	if _, err := m.MapImage(img); err != nil {
		t.Fatalf("MapImage: %v", err)
	}
	m.UnmapImage(img)
}
