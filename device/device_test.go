package device

import (
	"os"
	"testing"
)

func fullExtensionSet(extra ...string) map[string]bool {
	set := make(map[string]bool)
	for _, e := range RequiredExtensions {
		set[e] = true
	}
	for _, e := range extra {
		set[e] = true
	}
	return set
}

func fullFeatureSet() Features {
	return Features{
		Maintenance5:              true,
		TimelineSemaphore:         true,
		Synchronization2:          true,
		AccelerationStructure:     true,
		RayTracingPipeline:        true,
		BufferDeviceAddress:       true,

		ShaderSampledImageArrayNonUniformIndexing: true,
		DescriptorBindingPartiallyBound:           true,
		RuntimeDescriptorArray:                    true,

		ShaderFloat16:            true,
		StorageBuffer16BitAccess: true,

		ShaderSampledImageArrayDynamicIndexing: true,
		ShaderInt16:                            true,
		ShaderInt64:                            true,
	}
}

func discreteCandidateFamilies() []QueueFamily {
	return []QueueFamily{
		{Index: 0, SupportsCompute: true, SupportsTransfer: true},
	}
}

func TestEvaluateCandidate_Suitable(t *testing.T) {
	props := Properties{
		Name:       "Test GPU",
		VendorID:   0x10DE,
		DeviceType: DeviceTypeDiscrete,
		APIVersion: minAPIVersion,
	}
	mem := MemoryInfo{LargestDeviceLocalHeapBytes: 8 << 30}

	c := EvaluateCandidate(0, props, fullFeatureSet(), mem, discreteCandidateFamilies(), fullExtensionSet(), false, false)

	if !c.Suitable() {
		t.Fatalf("candidate should be suitable, errors: %v", c.Errors)
	}
	if c.Score != 10008 {
		t.Errorf("score = %d, want 10008 (10000 discrete + 8 GiB)", c.Score)
	}
}

func TestEvaluateCandidate_MissingQueueFamily(t *testing.T) {
	props := Properties{DeviceType: DeviceTypeDiscrete, APIVersion: minAPIVersion}
	mem := MemoryInfo{LargestDeviceLocalHeapBytes: 1 << 30}

	families := []QueueFamily{{Index: 0, SupportsCompute: true, SupportsTransfer: false}}
	c := EvaluateCandidate(0, props, fullFeatureSet(), mem, families, fullExtensionSet(), false, false)

	if c.Suitable() {
		t.Fatal("candidate with no compute+transfer family should be unsuitable")
	}
}

func TestEvaluateCandidate_MissingRequiredExtension(t *testing.T) {
	props := Properties{DeviceType: DeviceTypeDiscrete, APIVersion: minAPIVersion}
	mem := MemoryInfo{LargestDeviceLocalHeapBytes: 1 << 30}

	extensions := fullExtensionSet()
	delete(extensions, "VK_KHR_ray_tracing_pipeline")

	c := EvaluateCandidate(0, props, fullFeatureSet(), mem, discreteCandidateFamilies(), extensions, false, false)

	if c.Suitable() {
		t.Fatal("candidate missing a required extension should be unsuitable")
	}
	found := false
	for _, m := range c.MissingExtensions {
		if m == "VK_KHR_ray_tracing_pipeline" {
			found = true
		}
	}
	if !found {
		t.Errorf("MissingExtensions = %v, want to contain VK_KHR_ray_tracing_pipeline", c.MissingExtensions)
	}
}

func TestEvaluateCandidate_BelowMinAPIVersion(t *testing.T) {
	props := Properties{DeviceType: DeviceTypeDiscrete, APIVersion: 1 << 22} // 1.0
	mem := MemoryInfo{LargestDeviceLocalHeapBytes: 1 << 30}

	c := EvaluateCandidate(0, props, fullFeatureSet(), mem, discreteCandidateFamilies(), fullExtensionSet(), false, false)

	if c.Suitable() {
		t.Fatal("candidate below API 1.1 should be unsuitable")
	}
}

func TestEvaluateCandidate_MissingRequiredFeature(t *testing.T) {
	props := Properties{DeviceType: DeviceTypeDiscrete, APIVersion: minAPIVersion}
	mem := MemoryInfo{LargestDeviceLocalHeapBytes: 1 << 30}

	feats := fullFeatureSet()
	feats.RayTracingPipeline = false

	c := EvaluateCandidate(0, props, feats, mem, discreteCandidateFamilies(), fullExtensionSet(), false, false)

	if c.Suitable() {
		t.Fatal("candidate missing rayTracingPipeline feature should be unsuitable")
	}
}

func TestEvaluateCandidate_OpportunisticFeaturesRequireDebug(t *testing.T) {
	props := Properties{DeviceType: DeviceTypeDiscrete, APIVersion: minAPIVersion}
	mem := MemoryInfo{LargestDeviceLocalHeapBytes: 1 << 30}

	feats := fullFeatureSet()
	feats.ShaderClock = true
	extensions := fullExtensionSet("VK_EXT_shader_clock")

	cNoDebug := EvaluateCandidate(0, props, feats, mem, discreteCandidateFamilies(), extensions, false, false)
	for _, o := range cNoDebug.OptionalEnabled {
		if o == "shader-clock" {
			t.Error("shader-clock should not be enabled without debug=true")
		}
	}

	cDebug := EvaluateCandidate(0, props, feats, mem, discreteCandidateFamilies(), extensions, false, true)
	found := false
	for _, o := range cDebug.OptionalEnabled {
		if o == "shader-clock" {
			found = true
		}
	}
	if !found {
		t.Error("shader-clock should be enabled with debug=true and extension present")
	}
}

func TestEvaluateCandidate_PipelineLibrariesNvidiaOnly(t *testing.T) {
	props := Properties{DeviceType: DeviceTypeDiscrete, APIVersion: minAPIVersion, VendorID: 0x8086}
	mem := MemoryInfo{LargestDeviceLocalHeapBytes: 1 << 30}

	feats := fullFeatureSet()
	feats.PipelineLibraries = true
	extensions := fullExtensionSet("VK_KHR_pipeline_library")

	c := EvaluateCandidate(0, props, feats, mem, discreteCandidateFamilies(), extensions, false, false)
	for _, o := range c.OptionalEnabled {
		if o == "pipeline-libraries" {
			t.Error("pipeline-libraries should not be enabled on non-NVIDIA vendor")
		}
	}

	props.VendorID = 0x10DE
	c = EvaluateCandidate(0, props, feats, mem, discreteCandidateFamilies(), extensions, false, false)
	found := false
	for _, o := range c.OptionalEnabled {
		if o == "pipeline-libraries" {
			found = true
		}
	}
	if !found {
		t.Error("pipeline-libraries should be enabled on NVIDIA with feature+extension present")
	}
}

func TestSelect_PicksHighestScore(t *testing.T) {
	integrated := Candidate{Index: 0, Score: 5, Errors: nil}
	discrete := Candidate{Index: 1, Score: 10008, Errors: nil}
	virtual := Candidate{Index: 2, Score: 8002, Errors: nil}

	got, err := Select([]Candidate{integrated, discrete, virtual})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got.Index != 1 {
		t.Errorf("Select() chose index %d, want 1 (highest score)", got.Index)
	}
}

func TestSelect_SkipsUnsuitableCandidates(t *testing.T) {
	bad := Candidate{Index: 0, Score: 0, Errors: []string{"missing extension"}}
	good := Candidate{Index: 1, Score: 100, Errors: nil}

	got, err := Select([]Candidate{bad, good})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got.Index != 1 {
		t.Errorf("Select() chose index %d, want 1 (only suitable candidate)", got.Index)
	}
}

func TestSelect_AllUnsuitableFails(t *testing.T) {
	bad := Candidate{Index: 0, Score: 0, Errors: []string{"no compute queue"}}

	_, err := Select([]Candidate{bad})
	if err == nil {
		t.Fatal("Select() with all-unsuitable candidates: want error, got nil")
	}
	var selErr *SelectionError
	if !asSelectionError(err, &selErr) {
		t.Fatalf("error = %v, want *SelectionError", err)
	}
}

func TestSelect_NoCandidatesFails(t *testing.T) {
	_, err := Select(nil)
	if err == nil {
		t.Fatal("Select() with no candidates: want error, got nil")
	}
}

func TestSelect_EnvOverride(t *testing.T) {
	os.Setenv("GTL_DEVICE_INDEX_OVERRIDE", "0")
	defer os.Unsetenv("GTL_DEVICE_INDEX_OVERRIDE")

	low := Candidate{Index: 0, Score: 1, Errors: nil}
	high := Candidate{Index: 1, Score: 10000, Errors: nil}

	got, err := Select([]Candidate{low, high})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got.Index != 0 {
		t.Errorf("Select() with override=0 chose index %d, want 0", got.Index)
	}
}

func TestSelect_EnvOverrideClamped(t *testing.T) {
	os.Setenv("GTL_DEVICE_INDEX_OVERRIDE", "99")
	defer os.Unsetenv("GTL_DEVICE_INDEX_OVERRIDE")

	a := Candidate{Index: 0, Score: 1, Errors: nil}
	b := Candidate{Index: 1, Score: 2, Errors: nil}

	got, err := Select([]Candidate{a, b})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got.Index != 1 {
		t.Errorf("Select() with out-of-range override chose index %d, want clamped to 1", got.Index)
	}
}

func TestSelect_EnvOverrideOfUnsuitableFails(t *testing.T) {
	os.Setenv("GTL_DEVICE_INDEX_OVERRIDE", "0")
	defer os.Unsetenv("GTL_DEVICE_INDEX_OVERRIDE")

	bad := Candidate{Index: 0, Score: 0, Errors: []string{"missing feature"}}
	good := Candidate{Index: 1, Score: 100, Errors: nil}

	_, err := Select([]Candidate{bad, good})
	if err == nil {
		t.Fatal("Select() overridden to an unsuitable candidate: want error, got nil")
	}
}

func TestVendorName(t *testing.T) {
	cases := []struct {
		id   uint32
		want string
	}{
		{0x1002, "AMD"},
		{0x10DE, "NVIDIA"},
		{0x8086, "Intel"},
		{0x13B5, "Mesa"},
	}
	for _, c := range cases {
		if got := VendorName(c.id); got != c.want {
			t.Errorf("VendorName(0x%X) = %q, want %q", c.id, got, c.want)
		}
	}
}

func TestFindComputeTransferFamily(t *testing.T) {
	families := []QueueFamily{
		{Index: 0, SupportsCompute: true, SupportsTransfer: false},
		{Index: 1, SupportsCompute: true, SupportsTransfer: true},
	}
	fam, ok := FindComputeTransferFamily(families)
	if !ok {
		t.Fatal("FindComputeTransferFamily() ok = false, want true")
	}
	if fam.Index != 1 {
		t.Errorf("FindComputeTransferFamily() index = %d, want 1", fam.Index)
	}

	_, ok = FindComputeTransferFamily([]QueueFamily{{Index: 0, SupportsCompute: true, SupportsTransfer: false}})
	if ok {
		t.Error("FindComputeTransferFamily() with no qualifying family: ok = true, want false")
	}
}

func asSelectionError(err error, target **SelectionError) bool {
	se, ok := err.(*SelectionError)
	if !ok {
		return false
	}
	*target = se
	return true
}
