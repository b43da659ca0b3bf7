package pipeline_test

import (
	"testing"

	"github.com/pablode/cgpu/pipeline"
)

// Scenario 5 from spec.md §8.
func TestComputeSBTLayout_Scenario5(t *testing.T) {
	l := pipeline.ComputeSBTLayout(32, 32, 64, 2, 3)

	if l.RayGenSize != 64 {
		t.Errorf("RayGenSize = %d, want 64", l.RayGenSize)
	}
	if l.RayGenStride != 64 {
		t.Errorf("RayGenStride = %d, want 64", l.RayGenStride)
	}
	if l.MissStride != 32 {
		t.Errorf("MissStride = %d, want 32", l.MissStride)
	}
	if l.MissSize != 64 {
		t.Errorf("MissSize = %d, want 64", l.MissSize)
	}
	if l.HitStride != 32 {
		t.Errorf("HitStride = %d, want 32", l.HitStride)
	}
	if l.HitSize != 128 {
		t.Errorf("HitSize = %d, want 128", l.HitSize)
	}
	if l.TotalSize != 256 {
		t.Errorf("TotalSize = %d, want 256", l.TotalSize)
	}
}

func TestComputeSBTLayout_RayGenSizeEqualsStride(t *testing.T) {
	l := pipeline.ComputeSBTLayout(16, 16, 32, 1, 1)
	if l.RayGenSize != l.RayGenStride {
		t.Errorf("RayGenSize (%d) != RayGenStride (%d)", l.RayGenSize, l.RayGenStride)
	}
}

func TestComputeSBTLayout_RegionsAreBaseAlignmentAligned(t *testing.T) {
	l := pipeline.ComputeSBTLayout(32, 32, 64, 2, 3)
	regions := l.Regions(1024) // 1024 is itself 64-aligned

	if regions.RayGen.DeviceAddress%64 != 0 {
		t.Errorf("rayGen address %d not 64-aligned", regions.RayGen.DeviceAddress)
	}
	if regions.Miss.DeviceAddress%64 != 0 {
		t.Errorf("miss address %d not 64-aligned", regions.Miss.DeviceAddress)
	}
	if regions.Hit.DeviceAddress%64 != 0 {
		t.Errorf("hit address %d not 64-aligned", regions.Hit.DeviceAddress)
	}
}

func TestComputeSBTLayout_ZeroMissGroups(t *testing.T) {
	l := pipeline.ComputeSBTLayout(32, 32, 64, 0, 1)
	if l.MissSize != 0 {
		t.Errorf("MissSize = %d, want 0 for zero miss groups", l.MissSize)
	}
}
