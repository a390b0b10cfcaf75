package monitoring

import (
	"github.com/akeren/innr-waitlist/config/router"
	"github.com/akeren/innr-waitlist/internal/log"
	"gorm.io/gorm"
)

type MonitoringControllerFactory interface {
	CreateController() *router.RESTController
}

type DefaultMonitoringControllerFactory struct {
	db      *gorm.DB
	logger  *log.Logger
	cache   Cache
	schools SchoolDirectory
}

func NewMonitoringControllerFactory(db *gorm.DB, logger *log.Logger, cache Cache, schools SchoolDirectory) MonitoringControllerFactory {
	return &DefaultMonitoringControllerFactory{
		db:      db,
		logger:  logger,
		cache:   cache,
		schools: schools,
	}
}

func (f *DefaultMonitoringControllerFactory) CreateController() *router.RESTController {
	return NewMonitoringController(f.db, f.logger, f.cache, f.schools)
}
