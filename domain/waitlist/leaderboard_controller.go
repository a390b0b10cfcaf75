package waitlist

import (
	"context"

	"github.com/akeren/innr-waitlist/config/router"
)

const noLeaderboardDataMessage = "No schools have signed up yet"

func NewLeaderboardController(service WaitlistService) *router.RESTController {
	return router.NewVersionedRESTController(
		"LeaderboardController",
		"v1",
		"/leaderboard",
		func(rs *router.RouterService, c *router.RESTController) {
			rs.AddGetHandler(c, "", leaderboardHandler(service.GetSchoolLeaderboard))
			rs.AddGetHandler(c, "/top", leaderboardHandler(service.GetTopSchools))
			rs.AddGetHandler(c, "/stats", statsHandler(service))
			rs.AddGetHandler(c, "/schools/:domain", schoolStandingHandler(service))
		},
	)
}

// leaderboardHandler serves either listing; a missing limit lets the service pick its default.
func leaderboardHandler(list func(ctx context.Context, limit int) (*LeaderboardResponse, error)) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		limit, result := router.ParseLimitQuery(ctx, 0)
		if result != nil {
			return result
		}

		response, err := list(ctx.Request.Context(), limit)
		if err != nil {
			return router.AppErrorResult(err)
		}

		if !response.HasData {
			return router.OKResult(response, noLeaderboardDataMessage)
		}

		return router.OKResult(response, "Leaderboard retrieved successfully")
	}
}

func statsHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		response, err := service.GetWaitlistStats(ctx.Request.Context())
		if err != nil {
			return router.AppErrorResult(err)
		}

		return router.OKResult(response, "Waitlist stats retrieved successfully")
	}
}

func schoolStandingHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		domain, result := router.RequiredPathParam(ctx, "domain")
		if result != nil {
			return result
		}

		response, err := service.GetSchoolStanding(ctx.Request.Context(), domain)
		if err != nil {
			return router.AppErrorResult(err)
		}

		if response.Rank == nil {
			return router.OKResult(response, "School has no signups yet")
		}

		return router.OKResult(response, "School standing retrieved successfully")
	}
}
