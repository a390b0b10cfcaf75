package waitlist

import (
	"github.com/akeren/innr-waitlist/config/router"
	"github.com/akeren/innr-waitlist/pkg/edu"
	apperrors "github.com/akeren/innr-waitlist/pkg/errors"
)

func NewWaitlistController(service WaitlistService) *router.RESTController {
	return router.NewVersionedRESTController(
		"WaitlistController",
		"v1",
		"/waitlist",
		func(rs *router.RouterService, c *router.RESTController) {
			rs.AddPostHandler(c, "", submitSignupHandler(service))
			rs.AddGetHandler(c, "/check", checkEmailHandler(service))
		},
	)
}

func submitSignupHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req SubmitSignupRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind request", "error", err)
			if result := router.BodyTooLargeResult(err); result != nil {
				return result
			}
			validationErrors := apperrors.FormatValidationErrors(err, &req)
			if len(validationErrors) > 0 {
				return router.BadRequestResult("Invalid request payload", validationErrors)
			}
			return router.BadRequestResult("Invalid request body", nil)
		}

		response, err := service.SubmitSignup(ctx.Request.Context(), &req)
		if err != nil {
			return router.AppErrorResult(err)
		}

		return router.CreatedResult(response, response.Message)
	}
}

func checkEmailHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var query CheckEmailQuery
		if err := ctx.ShouldBindQuery(&query); err != nil {
			logger.Error("Failed to bind query", "error", err)
			validationErrors := apperrors.FormatValidationErrors(err, &query)
			if len(validationErrors) > 0 {
				return router.BadRequestResult("Invalid query parameters", validationErrors)
			}
			return router.BadRequestResult("Invalid query parameters", nil)
		}

		onWaitlist, err := service.IsEmailOnWaitlist(ctx.Request.Context(), query.Email)
		if err != nil {
			return router.AppErrorResult(err)
		}

		return router.OKResult(EmailCheckResponse{
			Email:      edu.NormalizeEmail(query.Email),
			OnWaitlist: onWaitlist,
		}, "Waitlist check completed")
	}
}
