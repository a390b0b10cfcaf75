package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
)

type routeKey struct {
	method string
	path   string
}

// joinRoute cleans a mount point and relative path into an absolute route without a trailing slash.
func joinRoute(parts ...string) string {
	return path.Join(append([]string{"/"}, parts...)...)
}

func NewRESTController(name, mountPoint string, prepare func(*RouterService, *RESTController)) *RESTController {
	return &RESTController{name: name, mountPoint: joinRoute(mountPoint), prepare: prepare}
}

// NewVersionedRESTController mounts under /<version>/<mountPoint>.
func NewVersionedRESTController(name, version, mountPoint string, prepare func(*RouterService, *RESTController)) *RESTController {
	return &RESTController{name: name, mountPoint: joinRoute(version, mountPoint), version: version, prepare: prepare}
}

// claimRoute panics when another handler already owns method and route.
func (routerService *RouterService) claimRoute(controller *RESTController, method, route string) {
	key := routeKey{method: method, path: route}
	if owner, taken := routerService.routes[key]; taken {
		panic(fmt.Sprintf("%s %s is already registered by controller %q", method, route, owner.name))
	}
	routerService.routes[key] = controller
}

func render(handler HandlerFunction) MiddlewareFunc {
	return func(c *RequestContext) {
		result := handler(c)
		if result == nil {
			result = InternalServerErrorResult("Handler returned no result")
		}
		// Store errors caused by the request deadline surface as a timeout, not as the store's failure.
		if errors.Is(c.Request.Context().Err(), context.DeadlineExceeded) {
			GetLogger(c).Warn("Request deadline exceeded", "status", result.StatusCode, "message", result.Message)
			result = requestTimeoutResult()
		}

		if c.Request.Method == http.MethodHead {
			c.Status(result.StatusCode)
			return
		}
		c.JSON(result.StatusCode, result.ToJSON())
	}
}

func (routerService *RouterService) addHandler(method string, controller *RESTController, relativePath string, handler HandlerFunction, middlewares []MiddlewareFunc) {
	route := joinRoute(controller.mountPoint, relativePath)
	routerService.claimRoute(controller, method, route)
	controller.handlerCount++

	chain := append(append([]MiddlewareFunc{}, middlewares...), render(handler))
	routerService.engine.Handle(method, route, chain...)
	routerService.logger.Debug("Handler registered", "controller", controller.name, "method", method, "path", route)
}

func (routerService *RouterService) AddPostHandler(controller *RESTController, path string, handler HandlerFunction, middlewares ...MiddlewareFunc) {
	routerService.addHandler(http.MethodPost, controller, path, handler, middlewares)
}

func (routerService *RouterService) AddGetHandler(controller *RESTController, path string, handler HandlerFunction, middlewares ...MiddlewareFunc) {
	routerService.addHandler(http.MethodGet, controller, path, handler, middlewares)
}

func (routerService *RouterService) AddHeadHandler(controller *RESTController, path string, handler HandlerFunction, middlewares ...MiddlewareFunc) {
	routerService.addHandler(http.MethodHead, controller, path, handler, middlewares)
}
