package api

import "github.com/gin-gonic/gin"

// Controller wraps a gin group so modules can register typed handlers
// without repeating the endpoint-resolution boilerplate.
type Controller struct {
	Group *gin.RouterGroup
}

func (c *Controller) GET(path string, h HandlerFuncWithAuth) {
	c.Group.GET(path, ResolveEndpointWithAuth(h))
}

func (c *Controller) POST(path string, h HandlerFuncWithAuth) {
	c.Group.POST(path, ResolveEndpointWithAuth(h))
}

func (c *Controller) PUT(path string, h HandlerFuncWithAuth) {
	c.Group.PUT(path, ResolveEndpointWithAuth(h))
}

func (c *Controller) PATCH(path string, h HandlerFuncWithAuth) {
	c.Group.PATCH(path, ResolveEndpointWithAuth(h))
}

func (c *Controller) DELETE(path string, h HandlerFuncWithAuth) {
	c.Group.DELETE(path, ResolveEndpointWithAuth(h))
}

// Public* register endpoints that do not require an authenticated admin.

func (c *Controller) PublicGET(path string, h HandlerFunc) {
	c.Group.GET(path, ResolveEndpoint(h))
}

func (c *Controller) PublicPOST(path string, h HandlerFunc) {
	c.Group.POST(path, ResolveEndpoint(h))
}

// Handle registers a raw gin handler, e.g. a websocket upgrade.
func (c *Controller) Handle(method, path string, h gin.HandlerFunc) {
	c.Group.Handle(method, path, h)
}
