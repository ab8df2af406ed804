package main

import (
	rfcgin "github.com/fwojciec/prettyrfc/gin"
	"github.com/gin-gonic/gin"
)

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	gin.SetMode(gin.ReleaseMode)
	s := rfcgin.NewServer(deps.Resolver, deps.Search, deps.Converter, deps.Logger)
	return s.ListenAndServe(deps.Ctx, c.Addr)
}
