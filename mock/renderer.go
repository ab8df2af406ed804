package mock

import "github.com/fwojciec/prettyrfc"

var _ prettyrfc.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of prettyrfc.Renderer.
type Renderer struct {
	RenderFn func(source string, xrefs prettyrfc.CrossReferenceResolver) (*prettyrfc.Rendering, error)
}

func (r *Renderer) Render(source string, xrefs prettyrfc.CrossReferenceResolver) (*prettyrfc.Rendering, error) {
	return r.RenderFn(source, xrefs)
}
