package domain

import (
	"github.com/akeren/innr-waitlist/config"
	"github.com/akeren/innr-waitlist/domain/monitoring"
	"github.com/akeren/innr-waitlist/domain/waitlist"
)

func SetupCoreDomain(appConfig *config.ApplicationConfig) {
	waitlistConfig := &waitlist.FactoryConfig{
		Directory:  appConfig.Schools,
		Registerer: appConfig.RouterService.MetricsRegisterer(),
	}
	if appConfig.Cache != nil {
		waitlistConfig.Cache = appConfig.Cache
	}
	if appConfig.Config != nil {
		waitlistConfig.LeaderboardCacheTTL = appConfig.Config.LeaderboardCacheTTL
	}

	var schools monitoring.SchoolDirectory
	if appConfig.Schools != nil {
		schools = appConfig.Schools
	}

	appConfig.RouterService.MountController(
		monitoring.NewMonitoringControllerFactory(appConfig.DB, appConfig.Logger, appConfig.Cache, schools).CreateController(),
	)

	for _, controller := range waitlist.NewWaitlistServiceFactory(appConfig.DB, appConfig.Logger, waitlistConfig).CreateControllers() {
		appConfig.RouterService.MountController(controller)
	}
}
