package cgpu

import (
	"fmt"

	"github.com/pablode/cgpu/core"
	"github.com/pablode/cgpu/hal"
	"github.com/pablode/cgpu/internal/workerpool"
	"github.com/pablode/cgpu/reflect"
)

// CreateShader reflects the shader's SPIR-V, compiles it through the
// Context's device, and stores the compiled module together with its
// reflection metadata so later pipeline compilation doesn't re-parse it.
func (ctx *Context) CreateShader(desc hal.ShaderDescriptor) (core.ShaderID, error) {
	mod, err := reflect.Reflect(desc.Code)
	if err != nil {
		return core.ShaderID{}, fmt.Errorf("cgpu: reflect shader: %w", err)
	}

	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	shader, err := ctx.dev.CreateShader(desc)
	if err != nil {
		return core.ShaderID{}, fmt.Errorf("cgpu: create shader: %w", err)
	}
	return ctx.shaders.Register(shaderRecord{shader: shader, module: mod}), nil
}

// shaderCompileResult is one CreateShadersParallel slot's outcome.
type shaderCompileResult struct {
	id  core.ShaderID
	err error
}

// CreateShadersParallel compiles N independent shaders across a bounded
// worker pool. Each worker allocates the handle of the shader it compiles
// (through CreateShader); no handle is allocated on the calling thread
// beforehand. If any compile fails, every shader of the batch that did
// compile is destroyed and the lowest-index error is returned, rather
// than leaving a partially-compiled batch live.
func (ctx *Context) CreateShadersParallel(descs []hal.ShaderDescriptor) ([]core.ShaderID, error) {
	n := len(descs)
	ids := make([]core.ShaderID, n)

	results := workerpool.Run(n, func(i int) shaderCompileResult {
		id, err := ctx.CreateShader(descs[i])
		return shaderCompileResult{id: id, err: err}
	})

	var firstErr error
	for i, r := range results {
		if r.err != nil && firstErr == nil {
			firstErr = fmt.Errorf("cgpu: create shaders parallel: shader %d: %w", i, r.err)
		}
		ids[i] = r.id
	}

	if firstErr != nil {
		for i, r := range results {
			if r.err == nil {
				_ = ctx.DestroyShader(ids[i])
			}
		}
		return nil, firstErr
	}

	return ids, nil
}

// DestroyShader releases a shader previously created with CreateShader
// or CreateShadersParallel.
func (ctx *Context) DestroyShader(id core.ShaderID) error {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	rec, err := ctx.shaders.Unregister(id)
	if err != nil {
		return fmt.Errorf("cgpu: destroy shader: %w", err)
	}
	ctx.dev.DestroyShader(rec.shader)
	return nil
}

func (ctx *Context) resolveShader(id core.ShaderID) (shaderRecord, error) {
	return ctx.shaders.Get(id)
}
