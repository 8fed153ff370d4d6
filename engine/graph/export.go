package graph

import (
	"github.com/lumen3d/lumen-go/common"
	"github.com/lumen3d/lumen-go/engine/renderer"
)

// ExportContext gives an export read access to the finished frame's resolved
// resources and its frozen frame context. Exports push derived values out to
// collaborators that are not part of the graph; they must never feed data back
// into it.
type ExportContext struct {
	// Frame is the frame context the exported frame was rendered under.
	Frame *FrameContext

	registry *registryImpl
}

// Texture resolves a resource id and attachment selector to the texture as it
// stands after all passes have run. For ping-pong resources the color selector
// resolves to the half written this frame, since exports run before the swap.
//
// Parameters:
//   - id: the resource id
//   - sel: the attachment selector
//
// Returns:
//   - renderer.Texture: the resolved texture
//   - error: an error if the id is unknown or the selector invalid
func (c *ExportContext) Texture(id string, sel AttachmentSelector) (renderer.Texture, error) {
	return c.registry.Texture(id, sel)
}

// Dimensions returns the current physical size of every allocated resource.
//
// Returns:
//   - map[string]common.Size: resource id to allocated size
func (c *ExportContext) Dimensions() map[string]common.Size {
	return c.registry.Dimensions()
}

// Export is a post-execution hook invoked exactly once per frame, after all
// passes and before ping-pong swaps, in registration order. A returned error
// is logged as a degradation and never aborts the frame.
type Export func(ctx *ExportContext) error
