package bind_test

import (
	"testing"

	"github.com/pablode/cgpu/bind"
	"github.com/pablode/cgpu/hal"
	"github.com/pablode/cgpu/internal/fatal"
	"github.com/pablode/cgpu/internal/haltest"
)

func computePipeline(t *testing.T, dev *haltest.Device, layouts []hal.DescriptorSetLayout) hal.Pipeline {
	t.Helper()
	p, err := dev.CreateComputePipeline(hal.ComputePipelineDescriptor{})
	if err != nil {
		t.Fatalf("CreateComputePipeline: %v", err)
	}
	p.(interface {
		SetLayouts([]hal.DescriptorSetLayout)
	}).SetLayouts(layouts)
	return p
}

func TestCreate_AllocatesFromPipelinePool(t *testing.T) {
	dev := haltest.NewDevice(256)
	m := bind.NewManager(dev)
	p := computePipeline(t, dev, []hal.DescriptorSetLayout{
		{Set: 0, Bindings: []hal.Binding{{Binding: 0, Count: 1, DescriptorType: hal.DescriptorTypeStorageBuffer}}},
	})

	set, err := m.Create(p, 0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if set == nil {
		t.Fatal("expected a non-nil bind set")
	}
}

func TestCreate_UnknownSetIndexAborts(t *testing.T) {
	dev := haltest.NewDevice(256)
	m := bind.NewManager(dev)
	p := computePipeline(t, dev, []hal.DescriptorSetLayout{
		{Set: 0, Bindings: []hal.Binding{{Binding: 0, Count: 1}}},
	})

	aborted := false
	restore := fatal.WithTestExit(func(int) { aborted = true })
	defer restore()

	m.Create(p, 5)

	if !aborted {
		t.Error("expected fatal.Abort for an unknown set index")
	}
}

func TestUpdate_ResolvesWholeBufferSentinel(t *testing.T) {
	dev := haltest.NewDevice(256)
	m := bind.NewManager(dev)
	p := computePipeline(t, dev, []hal.DescriptorSetLayout{
		{Set: 0, Bindings: []hal.Binding{{Binding: 0, Count: 1, DescriptorType: hal.DescriptorTypeStorageBuffer}}},
	})
	set, err := m.Create(p, 0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	buf, err := dev.CreateBuffer(hal.BufferDescriptor{Size: 128})
	if err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}

	m.Update(p, 0, set, hal.BindSetBindings{
		BufferBindings: []hal.BufferBinding{
			{Binding: 0, Index: 0, Buffer: buf, Offset: 32, Range: hal.SizeWholeBuffer},
		},
	})

	got := set.(*haltest.BindSet).LastUpdate()
	if len(got.BufferBindings) != 1 {
		t.Fatalf("len(BufferBindings) = %d, want 1", len(got.BufferBindings))
	}
	if got.BufferBindings[0].Range != 96 {
		t.Errorf("Range = %d, want 96 (128-32)", got.BufferBindings[0].Range)
	}
}

func TestUpdate_IndexOutOfRangeAborts(t *testing.T) {
	dev := haltest.NewDevice(256)
	m := bind.NewManager(dev)
	p := computePipeline(t, dev, []hal.DescriptorSetLayout{
		{Set: 0, Bindings: []hal.Binding{{Binding: 0, Count: 1, DescriptorType: hal.DescriptorTypeSampledImage}}},
	})
	set, err := m.Create(p, 0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	img, err := dev.CreateImage(hal.ImageDescriptor{Width: 4, Height: 4})
	if err != nil {
		t.Fatalf("CreateImage: %v", err)
	}

	aborted := false
	restore := fatal.WithTestExit(func(int) { aborted = true })
	defer restore()

	m.Update(p, 0, set, hal.BindSetBindings{
		ImageBindings: []hal.ImageBinding{{Binding: 0, Index: 3, Image: img}},
	})

	if !aborted {
		t.Error("expected fatal.Abort for an out-of-range binding index")
	}
}
