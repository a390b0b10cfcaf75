package waitlist

import (
	"sync"
	"time"

	"github.com/akeren/innr-waitlist/config/router"
	"github.com/akeren/innr-waitlist/internal/log"
	"github.com/akeren/innr-waitlist/pkg/edu"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// FactoryConfig holds the optional collaborators; every field may be left zero.
type FactoryConfig struct {
	Directory           *edu.Directory
	Cache               Cache
	LeaderboardCacheTTL time.Duration
	Registerer          prometheus.Registerer
}

type WaitlistServiceFactory interface {
	CreateService() WaitlistService
	CreateControllers() []*router.RESTController
}

type DefaultWaitlistServiceFactory struct {
	db     *gorm.DB
	logger *log.Logger
	config FactoryConfig

	once    sync.Once
	service WaitlistService
}

func NewWaitlistServiceFactory(db *gorm.DB, logger *log.Logger, config *FactoryConfig) WaitlistServiceFactory {
	f := &DefaultWaitlistServiceFactory{
		db:     db,
		logger: logger,
	}
	if config != nil {
		f.config = *config
	}
	return f
}

// CreateService builds the service once; its metrics can only be registered a single time.
func (f *DefaultWaitlistServiceFactory) CreateService() WaitlistService {
	f.once.Do(func() {
		repository := NewWaitlistRepository(f.db, f.config.Directory)
		f.service = NewWaitlistService(f.logger, repository, &ServiceConfig{
			Leaderboard: NewLeaderboardCache(f.config.Cache, f.config.LeaderboardCacheTTL, f.logger),
			Metrics:     NewMetrics(f.config.Registerer),
		})
	})
	return f.service
}

func (f *DefaultWaitlistServiceFactory) CreateControllers() []*router.RESTController {
	service := f.CreateService()
	return []*router.RESTController{
		NewWaitlistController(service),
		NewLeaderboardController(service),
	}
}
