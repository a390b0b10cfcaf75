package router

import (
	"github.com/gin-gonic/gin"
)

type RequestContext = gin.Context

type MiddlewareFunc = gin.HandlerFunc

// ServiceResult is the uniform {code, data, message} envelope every handler returns.
type ServiceResult struct {
	StatusCode int    `json:"code"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
}

type HandlerFunction func(*RequestContext) *ServiceResult

// RESTController groups the handlers mounted under one path prefix.
type RESTController struct {
	name         string
	mountPoint   string
	version      string
	handlerCount int
	prepare      func(*RouterService, *RESTController)
}

func (result *ServiceResult) ToJSON() gin.H {
	return gin.H{"code": result.StatusCode, "data": result.Data, "message": result.Message}
}

func (result *ServiceResult) IsError() bool {
	return result.StatusCode >= 400
}

func (controller *RESTController) Name() string {
	return controller.name
}

func (controller *RESTController) MountPoint() string {
	return controller.mountPoint
}
