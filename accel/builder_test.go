package accel_test

import (
	"testing"

	"github.com/pablode/cgpu/accel"
	"github.com/pablode/cgpu/hal"
	"github.com/pablode/cgpu/internal/fatal"
	"github.com/pablode/cgpu/internal/haltest"
	"github.com/pablode/cgpu/resource"
)

func newBuilder(t *testing.T) (*accel.Builder, *haltest.Device) {
	t.Helper()
	dev := haltest.NewDevice(256)
	res := resource.NewManager(dev, true, 256, 64)
	return accel.NewBuilder(dev, res), dev
}

func TestBuildBlas_Succeeds(t *testing.T) {
	b, dev := newBuilder(t)

	vtx, err := resource.NewManager(dev, true, 256, 64).CreateBuffer(resource.BufferRequest{
		Size: 12 * 3, Usage: hal.BufferUsageAccelerationStructureBuildInput,
	})
	if err != nil {
		t.Fatalf("create vertex buffer: %v", err)
	}
	idx, err := resource.NewManager(dev, true, 256, 64).CreateBuffer(resource.BufferRequest{
		Size: 4 * 3, Usage: hal.BufferUsageAccelerationStructureBuildInput,
	})
	if err != nil {
		t.Fatalf("create index buffer: %v", err)
	}

	blas, err := b.BuildBlas(accel.BlasInput{
		VertexBuffer:  vtx,
		IndexBuffer:   idx,
		MaxVertex:     2,
		TriangleCount: 1,
		IsOpaque:      true,
	})
	if err != nil {
		t.Fatalf("BuildBlas: %v", err)
	}
	if !blas.IsOpaque() {
		t.Error("expected IsOpaque() true")
	}
	if blas.DeviceAddress() == 0 {
		t.Error("expected a non-zero BLAS device address")
	}
}

func TestBuildTlas_ZeroInstancesStillProducesValidTlas(t *testing.T) {
	b, _ := newBuilder(t)

	tlas, err := b.BuildTlas(accel.TlasInput{})
	if err != nil {
		t.Fatalf("BuildTlas with zero instances: %v", err)
	}
	if tlas == nil {
		t.Fatal("expected a non-nil TLAS for zero instances")
	}
}

func TestBuildTlas_OpaqueWhenAllBlasOpaque(t *testing.T) {
	b, dev := newBuilder(t)

	opaqueBlas, err := dev.CreateBlas(nil, 512, true)
	if err != nil {
		t.Fatalf("CreateBlas: %v", err)
	}

	tlas, err := b.BuildTlas(accel.TlasInput{
		Instances: []accel.Instance{
			{Blas: opaqueBlas, CustomIndex: 1},
			{Blas: opaqueBlas, CustomIndex: 2},
		},
	})
	if err != nil {
		t.Fatalf("BuildTlas: %v", err)
	}
	if tlas == nil {
		t.Fatal("expected a non-nil TLAS")
	}
}

func TestBuildTlas_NotOpaqueWhenAnyBlasNonOpaque(t *testing.T) {
	b, dev := newBuilder(t)

	opaqueBlas, _ := dev.CreateBlas(nil, 512, true)
	nonOpaqueBlas, _ := dev.CreateBlas(nil, 512, false)

	// hal.TlasBuildInput carries no opacity field and the fake device
	// records no TLAS flags, so this test only confirms the build
	// completes without error for a mixed-opacity instance list.
	_, err := b.BuildTlas(accel.TlasInput{
		Instances: []accel.Instance{
			{Blas: opaqueBlas, CustomIndex: 1},
			{Blas: nonOpaqueBlas, CustomIndex: 2},
		},
	})
	if err != nil {
		t.Fatalf("BuildTlas: %v", err)
	}
}

func TestBuildTlas_CustomIndexOverflowAborts(t *testing.T) {
	b, dev := newBuilder(t)
	blas, _ := dev.CreateBlas(nil, 512, true)

	aborted := false
	restore := fatal.WithTestExit(func(int) { aborted = true })
	defer restore()

	_, _ = b.BuildTlas(accel.TlasInput{
		Instances: []accel.Instance{
			{Blas: blas, CustomIndex: 1 << 24},
		},
	})

	if !aborted {
		t.Error("expected fatal.Abort to be invoked for an out-of-range custom index")
	}
}

func TestBuildTlas_MaxValidCustomIndexDoesNotAbort(t *testing.T) {
	b, dev := newBuilder(t)
	blas, _ := dev.CreateBlas(nil, 512, true)

	aborted := false
	restore := fatal.WithTestExit(func(int) { aborted = true })
	defer restore()

	_, err := b.BuildTlas(accel.TlasInput{
		Instances: []accel.Instance{
			{Blas: blas, CustomIndex: 1<<24 - 1},
		},
	})
	if err != nil {
		t.Fatalf("BuildTlas: %v", err)
	}
	if aborted {
		t.Error("did not expect fatal.Abort for a valid 24-bit custom index")
	}
}
