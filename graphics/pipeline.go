package graphics

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/pkg/errors"
)

// pipelineSet holds one render pipeline per shader variant and enabled
// blend mode. Blend state is baked into pipelines, so every mode a frame
// may select must be built up front.
type pipelineSet struct {
	pipelines [numVariants]map[BlendMode]hal.RenderPipeline
}

// buildPipelineSet creates the pipelines for every variant and requested
// blend mode. All pipelines share the same layout and target format.
func buildPipelineSet(
	dev hal.Device,
	layout hal.PipelineLayout,
	modules [numVariants]hal.ShaderModule,
	format gputypes.TextureFormat,
	samples uint32,
	modes []BlendMode,
) (*pipelineSet, error) {
	ps := &pipelineSet{}
	for v := range ps.pipelines {
		ps.pipelines[v] = make(map[BlendMode]hal.RenderPipeline, len(modes))
	}

	for v := Variant(0); v < numVariants; v++ {
		buffers := plainVertexLayout()
		if v == VariantInstanced {
			buffers = instancedVertexLayout()
		}
		vsEntry, fsEntry := v.entryPoints()

		for _, mode := range modes {
			blend := mode.blendState()
			p, err := dev.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
				Label:  "sprite_" + v.String() + "_" + mode.String(),
				Layout: layout,
				Vertex: hal.VertexState{
					Module:     modules[v],
					EntryPoint: vsEntry,
					Buffers:    buffers,
				},
				Fragment: &hal.FragmentState{
					Module:     modules[v],
					EntryPoint: fsEntry,
					Targets: []gputypes.ColorTargetState{
						{
							Format:    format,
							Blend:     &blend,
							WriteMask: gputypes.ColorWriteMaskAll,
						},
					},
				},
				Primitive: gputypes.PrimitiveState{
					Topology: gputypes.PrimitiveTopologyTriangleList,
					CullMode: gputypes.CullModeNone,
				},
				Multisample: gputypes.MultisampleState{
					Count: samples,
					Mask:  0xFFFFFFFF,
				},
			})
			if err != nil {
				ps.destroy(dev)
				return nil, errors.Wrapf(err, "create %s/%s pipeline", v, mode)
			}
			ps.pipelines[v][mode] = p
		}
	}
	return ps, nil
}

// get returns the pipeline for a variant and blend mode. Requesting a mode
// that was not enabled at context creation is an error.
func (ps *pipelineSet) get(v Variant, mode BlendMode) (hal.RenderPipeline, error) {
	p, ok := ps.pipelines[v][mode]
	if !ok {
		return nil, errors.Errorf("blend mode %s was not enabled when the context was created", mode)
	}
	return p, nil
}

func (ps *pipelineSet) destroy(dev hal.Device) {
	for v := range ps.pipelines {
		for _, p := range ps.pipelines[v] {
			dev.DestroyRenderPipeline(p)
		}
		ps.pipelines[v] = nil
	}
}
