package reflect

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// DescriptorType mirrors the fixed subset of Vulkan descriptor-type codes
// this layer understands.
type DescriptorType uint32

// Descriptor type codes, using the standard SPIR-V/Vulkan binding codes.
const (
	DescriptorTypeSampler               DescriptorType = 0
	DescriptorTypeSampledImage          DescriptorType = 2
	DescriptorTypeStorageImage          DescriptorType = 3
	DescriptorTypeUniformBuffer         DescriptorType = 6
	DescriptorTypeStorageBuffer         DescriptorType = 7
	DescriptorTypeAccelerationStructure DescriptorType = 1000150000
)

// Binding describes one reflected descriptor-set binding.
type Binding struct {
	Binding        uint32
	Count          uint32
	DescriptorType DescriptorType
	ReadAccess     bool
	WriteAccess    bool
	// Dim is the image dimensionality + 1 (SPIR-V's Dim enum starts at 0);
	// zero for non-image bindings.
	Dim uint32
}

// DescriptorSet is the ordered binding list for one set index.
type DescriptorSet struct {
	Set      uint32
	Bindings []Binding
}

// Module is the complete reflected metadata for one SPIR-V module.
type Module struct {
	// DescriptorSets is ordered by set index; sets with zero bindings are
	// omitted, mirroring the reference reflector's behavior.
	DescriptorSets []DescriptorSet

	// PushConstantsSize is the size, in bytes, of the single push-constant
	// block, or 0 if the module declares none.
	PushConstantsSize uint32

	// MaxRayPayloadSize and MaxRayHitAttribSize are the largest interface
	// variable, in bytes, seen in the corresponding ray-tracing storage
	// class. Both are 0 for non-ray-tracing shaders.
	MaxRayPayloadSize   uint32
	MaxRayHitAttribSize uint32

	// PayloadCount is the number of ray-payload interface variables
	// (incoming and outgoing combined).
	PayloadCount uint32

	// WorkgroupSize is taken from the single entry point's LocalSize
	// execution mode; zero for non-compute shaders.
	WorkgroupSize [3]uint32
}

// ReflectionFailure reports why Reflect could not parse a module: a missing
// or ambiguous entry point, a malformed word stream, or more than one
// push-constant block.
type ReflectionFailure struct {
	Reason string
}

func (e *ReflectionFailure) Error() string {
	return fmt.Sprintf("shader reflection failed: %s", e.Reason)
}

type typeKind int

const (
	typeKindOther typeKind = iota
	typeKindScalar
	typeKindVector
	typeKindArray
	typeKindStruct
	typeKindPointer
	typeKindImage
	typeKindSampledImage
	typeKindAccelerationStructure
)

type typeInfo struct {
	kind typeKind

	// scalar / vector
	scalarWidth uint32
	compCount   uint32

	// array
	elemType uint32
	length   uint32

	// struct
	members []uint32

	// pointer
	storageClass uint32
	pointee      uint32

	// image
	imageDim     uint32
	imageSampled uint32
}

type idInfo struct {
	set         uint32
	hasSet      bool
	binding     uint32
	hasBinding  bool
	nonWritable bool
	blockKind   int // 0 none, 1 Block, 2 BufferBlock
}

type variable struct {
	pointerType  uint32
	storageClass uint32
}

type parser struct {
	words []uint32
	pos   int

	decorations map[uint32]*idInfo
	types       map[uint32]*typeInfo
	constants   map[uint32]uint32
	variables   map[uint32]variable

	entryPointCount int
	workgroupSize   [3]uint32
}

// Reflect parses a raw SPIR-V module (as a little-endian byte span) and
// extracts descriptor, push-constant, ray-payload and workgroup metadata.
// The returned Module does not retain any reference into spv.
func Reflect(spv []byte) (*Module, error) {
	if len(spv) < 20 || len(spv)%4 != 0 {
		return nil, &ReflectionFailure{Reason: "input is not a valid SPIR-V word stream"}
	}

	words := make([]uint32, len(spv)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spv[i*4:])
	}

	if words[0] != spirvMagicNumber {
		return nil, &ReflectionFailure{Reason: "bad SPIR-V magic number"}
	}

	p := &parser{
		words:       words,
		pos:         5, // skip magic, version, generator, bound, schema
		decorations: make(map[uint32]*idInfo),
		types:       make(map[uint32]*typeInfo),
		constants:   make(map[uint32]uint32),
		variables:   make(map[uint32]variable),
	}

	if err := p.walk(); err != nil {
		return nil, err
	}

	if p.entryPointCount != 1 {
		return nil, &ReflectionFailure{Reason: fmt.Sprintf("module has %d entry points, want exactly 1", p.entryPointCount)}
	}

	mod := &Module{WorkgroupSize: p.workgroupSize}

	if err := p.fillDescriptorSets(mod); err != nil {
		return nil, err
	}
	if err := p.fillPushConstants(mod); err != nil {
		return nil, err
	}
	p.fillRayInterfaceVars(mod)

	return mod, nil
}

func (p *parser) walk() error {
	for p.pos < len(p.words) {
		instrStart := p.pos
		first := p.words[p.pos]
		wordCount := first >> 16
		opcode := first & 0xFFFF
		if wordCount == 0 {
			return &ReflectionFailure{Reason: "malformed instruction with zero word count"}
		}
		if instrStart+int(wordCount) > len(p.words) {
			return &ReflectionFailure{Reason: "instruction overruns module bounds"}
		}

		operands := p.words[instrStart+1 : instrStart+int(wordCount)]

		switch opcode {
		case opEntryPoint:
			p.entryPointCount++
		case opExecutionMode:
			if len(operands) >= 2 && operands[1] == executionModeLocalSize && len(operands) >= 5 {
				p.workgroupSize[0] = operands[2]
				p.workgroupSize[1] = operands[3]
				p.workgroupSize[2] = operands[4]
			}
		case opDecorate:
			p.handleDecorate(operands)
		case opMemberDecorate:
			// Member decorations (e.g. per-field Offset) don't affect the
			// size/binding metadata this package extracts.
		case opTypeInt:
			if len(operands) >= 2 {
				p.types[operands[0]] = &typeInfo{kind: typeKindScalar, scalarWidth: operands[1]}
			}
		case opTypeFloat:
			if len(operands) >= 2 {
				p.types[operands[0]] = &typeInfo{kind: typeKindScalar, scalarWidth: operands[1]}
			}
		case opTypeVector:
			if len(operands) >= 3 {
				compType := operands[1]
				width := uint32(32)
				if ct, ok := p.types[compType]; ok {
					width = ct.scalarWidth
				}
				p.types[operands[0]] = &typeInfo{kind: typeKindVector, scalarWidth: width, compCount: operands[2]}
			}
		case opTypeArray:
			if len(operands) >= 3 {
				length := p.constants[operands[2]]
				p.types[operands[0]] = &typeInfo{kind: typeKindArray, elemType: operands[1], length: length}
			}
		case opTypeRuntimeArray:
			if len(operands) >= 2 {
				p.types[operands[0]] = &typeInfo{kind: typeKindArray, elemType: operands[1], length: 0}
			}
		case opTypeStruct:
			if len(operands) >= 1 {
				p.types[operands[0]] = &typeInfo{kind: typeKindStruct, members: append([]uint32(nil), operands[1:]...)}
			}
		case opTypePointer:
			if len(operands) >= 3 {
				p.types[operands[0]] = &typeInfo{kind: typeKindPointer, storageClass: operands[1], pointee: operands[2]}
			}
		case opTypeImage:
			if len(operands) >= 7 {
				p.types[operands[0]] = &typeInfo{kind: typeKindImage, imageDim: operands[2], imageSampled: operands[6]}
			}
		case opTypeSampledImage:
			if len(operands) >= 2 {
				p.types[operands[0]] = &typeInfo{kind: typeKindSampledImage, elemType: operands[1]}
			}
		case opTypeSampler:
			if len(operands) >= 1 {
				p.types[operands[0]] = &typeInfo{kind: typeKindOther}
			}
		case opTypeAccelerationStructureKHR:
			if len(operands) >= 1 {
				p.types[operands[0]] = &typeInfo{kind: typeKindAccelerationStructure}
			}
		case opConstant:
			if len(operands) >= 3 {
				p.constants[operands[1]] = operands[2]
			}
		case opVariable:
			if len(operands) >= 3 {
				resultType := operands[0]
				resultID := operands[1]
				storageClass := operands[2]
				p.variables[resultID] = variable{pointerType: resultType, storageClass: storageClass}
			}
		case opFunction:
			// Everything we care about (types, decorations, global
			// variables) precedes the first function in a valid module.
			return nil
		}

		p.pos = instrStart + int(wordCount)
	}
	return nil
}

func (p *parser) handleDecorate(operands []uint32) {
	if len(operands) < 2 {
		return
	}
	target := operands[0]
	decoration := operands[1]

	info := p.decorations[target]
	if info == nil {
		info = &idInfo{}
		p.decorations[target] = info
	}

	switch decoration {
	case decorationDescriptorSet:
		if len(operands) >= 3 {
			info.set = operands[2]
			info.hasSet = true
		}
	case decorationBinding:
		if len(operands) >= 3 {
			info.binding = operands[2]
			info.hasBinding = true
		}
	case decorationNonWritable:
		info.nonWritable = true
	case decorationBlock:
		info.blockKind = 1
	case decorationBufferBlock:
		info.blockKind = 2
	}
}

// typeSize computes the byte size of a type the way the reference
// reflector does: sum of primitive+array+struct sizes, where a primitive's
// size is (scalar_width/8) * max(1, vector_component_count).
func (p *parser) typeSize(id uint32) uint32 {
	t, ok := p.types[id]
	if !ok {
		return 0
	}

	switch t.kind {
	case typeKindScalar:
		return t.scalarWidth / 8
	case typeKindVector:
		count := t.compCount
		if count == 0 {
			count = 1
		}
		return (t.scalarWidth / 8) * count
	case typeKindArray:
		return p.typeSize(t.elemType) * t.length
	case typeKindStruct:
		var size uint32
		for _, m := range t.members {
			size += p.typeSize(m)
		}
		return size
	case typeKindPointer:
		return p.typeSize(t.pointee)
	default:
		return 0
	}
}

func (p *parser) descriptorTypeFor(pointeeType uint32, storageClass uint32) (DescriptorType, uint32, bool) {
	t, ok := p.types[pointeeType]
	if !ok {
		return 0, 0, false
	}

	// Arrays of resources: the element carries the real descriptor type.
	elem := t
	elemID := pointeeType
	for elem.kind == typeKindArray {
		elemID = elem.elemType
		elem, ok = p.types[elemID]
		if !ok {
			return 0, 0, false
		}
	}

	switch elem.kind {
	case typeKindOther:
		return DescriptorTypeSampler, 0, true
	case typeKindSampledImage:
		img, ok := p.types[elem.elemType]
		dim := uint32(0)
		if ok {
			dim = img.imageDim + 1
		}
		return DescriptorTypeSampledImage, dim, true
	case typeKindImage:
		dim := elem.imageDim + 1
		if elem.imageSampled == 2 {
			return DescriptorTypeStorageImage, dim, true
		}
		return DescriptorTypeSampledImage, dim, true
	case typeKindAccelerationStructure:
		return DescriptorTypeAccelerationStructure, 0, true
	case typeKindStruct:
		info := p.decorations[elemID]
		isBufferBlock := info != nil && info.blockKind == 2
		if isBufferBlock || storageClass == storageClassStorageBuffer {
			return DescriptorTypeStorageBuffer, 0, true
		}
		return DescriptorTypeUniformBuffer, 0, true
	default:
		return 0, 0, false
	}
}

func (p *parser) fillDescriptorSets(mod *Module) error {
	sets := make(map[uint32][]Binding)

	for id, v := range p.variables {
		if v.storageClass != storageClassUniformConstant && v.storageClass != storageClassUniform && v.storageClass != storageClassStorageBuffer {
			continue
		}

		info := p.decorations[id]
		if info == nil || !info.hasSet || !info.hasBinding {
			continue
		}

		ptrType, ok := p.types[v.pointerType]
		if !ok || ptrType.kind != typeKindPointer {
			continue
		}

		descType, dim, ok := p.descriptorTypeFor(ptrType.pointee, v.storageClass)
		if !ok {
			continue
		}

		count := uint32(1)
		if elem, ok := p.types[ptrType.pointee]; ok && elem.kind == typeKindArray {
			count = elem.length
		}

		writeAccess := !info.nonWritable && (descType == DescriptorTypeStorageBuffer || descType == DescriptorTypeStorageImage)

		sets[info.set] = append(sets[info.set], Binding{
			Binding:        info.binding,
			Count:          count,
			DescriptorType: descType,
			ReadAccess:     true,
			WriteAccess:    writeAccess,
			Dim:            dim,
		})
	}

	if len(sets) == 0 {
		return nil
	}

	maxSet := uint32(0)
	for s := range sets {
		if s > maxSet {
			maxSet = s
		}
	}

	for s := uint32(0); s <= maxSet; s++ {
		bindings, ok := sets[s]
		if !ok || len(bindings) == 0 {
			continue
		}
		sort.Slice(bindings, func(i, j int) bool { return bindings[i].Binding < bindings[j].Binding })
		mod.DescriptorSets = append(mod.DescriptorSets, DescriptorSet{Set: s, Bindings: bindings})
	}

	return nil
}

func (p *parser) fillPushConstants(mod *Module) error {
	var found []uint32
	for id, v := range p.variables {
		if v.storageClass != storageClassPushConstant {
			continue
		}
		found = append(found, id)
	}

	if len(found) == 0 {
		return nil
	}
	if len(found) > 1 {
		return &ReflectionFailure{Reason: "more than one push-constant block declared"}
	}

	ptrType, ok := p.types[p.variables[found[0]].pointerType]
	if !ok || ptrType.kind != typeKindPointer {
		return nil
	}

	mod.PushConstantsSize = p.typeSize(ptrType.pointee)
	return nil
}

func (p *parser) fillRayInterfaceVars(mod *Module) {
	for _, v := range p.variables {
		switch v.storageClass {
		case storageClassRayPayloadKHR, storageClassIncomingRayPayloadKHR:
			ptrType, ok := p.types[v.pointerType]
			if !ok {
				continue
			}
			if size := p.typeSize(ptrType.pointee); size > mod.MaxRayPayloadSize {
				mod.MaxRayPayloadSize = size
			}
			mod.PayloadCount++
		case storageClassHitAttributeKHR:
			ptrType, ok := p.types[v.pointerType]
			if !ok {
				continue
			}
			if size := p.typeSize(ptrType.pointee); size > mod.MaxRayHitAttribSize {
				mod.MaxRayHitAttribSize = size
			}
		}
	}
}
