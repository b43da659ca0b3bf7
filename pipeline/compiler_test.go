package pipeline_test

import (
	"testing"

	"github.com/pablode/cgpu/hal"
	"github.com/pablode/cgpu/internal/haltest"
	"github.com/pablode/cgpu/pipeline"
	"github.com/pablode/cgpu/reflect"
	"github.com/pablode/cgpu/resource"
)

func TestCompileCompute_Succeeds(t *testing.T) {
	dev := haltest.NewDevice(256)
	res := resource.NewManager(dev, true, 256, 64)
	c := pipeline.NewCompiler(dev, res, pipeline.SBTHandleLayout{HandleSize: 32, HandleAlignment: 32, BaseAlignment: 64})

	shader, err := dev.CreateShader(hal.ShaderDescriptor{Stage: hal.ShaderStageCompute, Entry: "main"})
	if err != nil {
		t.Fatalf("CreateShader: %v", err)
	}

	p, err := c.CompileCompute(pipeline.ComputeDescriptor{
		Label:  "clear",
		Shader: shader,
		ReflectedSets: []reflect.DescriptorSet{
			{Set: 0, Bindings: []reflect.Binding{{Binding: 0, Count: 1, DescriptorType: reflect.DescriptorTypeStorageImage}}},
		},
	})
	if err != nil {
		t.Fatalf("CompileCompute: %v", err)
	}
	if p.BindPoint() != hal.PipelineBindPointCompute {
		t.Errorf("BindPoint() = %v, want Compute", p.BindPoint())
	}
	if len(p.DescriptorSetLayouts()) != 1 {
		t.Errorf("len(DescriptorSetLayouts()) = %d, want 1", len(p.DescriptorSetLayouts()))
	}
}

func TestCompileRayTracing_BuildsSBT(t *testing.T) {
	dev := haltest.NewDevice(256)
	res := resource.NewManager(dev, true, 256, 64)
	c := pipeline.NewCompiler(dev, res, pipeline.SBTHandleLayout{HandleSize: 32, HandleAlignment: 32, BaseAlignment: 64})

	rayGen, _ := dev.CreateShader(hal.ShaderDescriptor{Stage: hal.ShaderStageRayGen, Entry: "main"})
	miss1, _ := dev.CreateShader(hal.ShaderDescriptor{Stage: hal.ShaderStageMiss, Entry: "main"})
	miss2, _ := dev.CreateShader(hal.ShaderDescriptor{Stage: hal.ShaderStageMiss, Entry: "main"})
	chit, _ := dev.CreateShader(hal.ShaderDescriptor{Stage: hal.ShaderStageClosestHit, Entry: "main"})

	p, err := c.CompileRayTracing(pipeline.RayTracingDescriptor{
		Label:  "trace",
		RayGen: rayGen,
		Miss:   []hal.Shader{miss1, miss2},
		HitGroups: []pipeline.HitGroup{
			{ClosestHit: 0, AnyHit: pipeline.HitGroupUnused},
		},
		Shaders: []hal.Shader{chit},
		ReflectedSets: []reflect.DescriptorSet{
			{Set: 0, Bindings: []reflect.Binding{{Binding: 0, Count: 1, DescriptorType: reflect.DescriptorTypeAccelerationStructure}}},
		},
	})
	if err != nil {
		t.Fatalf("CompileRayTracing: %v", err)
	}
	if p.BindPoint() != hal.PipelineBindPointRayTracing {
		t.Errorf("BindPoint() = %v, want RayTracing", p.BindPoint())
	}

	sbt := p.ShaderBindingTable()
	if sbt.RayGen.Size != sbt.RayGen.Stride {
		t.Errorf("rayGen size (%d) != stride (%d)", sbt.RayGen.Size, sbt.RayGen.Stride)
	}
	if sbt.RayGen.DeviceAddress%64 != 0 {
		t.Errorf("rayGen address %d not baseAlignment-aligned", sbt.RayGen.DeviceAddress)
	}
	if sbt.Miss.DeviceAddress%64 != 0 {
		t.Errorf("miss address %d not baseAlignment-aligned", sbt.Miss.DeviceAddress)
	}
	if sbt.Hit.DeviceAddress%64 != 0 {
		t.Errorf("hit address %d not baseAlignment-aligned", sbt.Hit.DeviceAddress)
	}
}
