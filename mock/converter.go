package mock

import "github.com/fwojciec/prettyrfc"

var _ prettyrfc.Converter = (*Converter)(nil)

// Converter is a mock implementation of prettyrfc.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
