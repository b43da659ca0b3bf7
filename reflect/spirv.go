package reflect

// SPIR-V opcodes, storage classes, decorations and other enum values this
// package needs to recognize. Only the subset relevant to descriptor,
// push-constant and ray-tracing interface-variable reflection is kept —
// this is not a general SPIR-V disassembler.
const (
	spirvMagicNumber uint32 = 0x07230203

	opNop                          = 0
	opEntryPoint                   = 15
	opExecutionMode                = 16
	opTypeVoid                     = 19
	opTypeBool                     = 20
	opTypeInt                      = 21
	opTypeFloat                    = 22
	opTypeVector                   = 23
	opTypeMatrix                   = 24
	opTypeImage                    = 25
	opTypeSampler                  = 26
	opTypeSampledImage             = 27
	opTypeArray                    = 28
	opTypeRuntimeArray             = 29
	opTypeStruct                   = 30
	opTypePointer                  = 32
	opConstant                     = 43
	opTypeAccelerationStructureKHR = 5341
	opVariable                     = 59
	opDecorate                     = 71
	opMemberDecorate               = 72
	opFunction                     = 54
)

const (
	executionModeLocalSize = 17
)

const (
	decorationBlock       = 2
	decorationBufferBlock = 3
	decorationNonWritable = 24
	decorationDescriptorSet = 34
	decorationBinding       = 33
)

// Storage classes, per the SPIR-V spec (including the KHR ray-tracing
// extension classes).
const (
	storageClassUniformConstant        = 0
	storageClassUniform                = 2
	storageClassPrivate                = 6
	storageClassPushConstant           = 9
	storageClassStorageBuffer          = 12
	storageClassRayPayloadKHR          = 5338
	storageClassHitAttributeKHR        = 5339
	storageClassIncomingRayPayloadKHR  = 5342
)
