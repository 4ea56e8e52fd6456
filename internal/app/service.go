package app

import (
	"strings"
	"sync"
	"time"

	"github.com/defensoria/expedientes/internal/domain"
)

// ServiceConfig holds configuration for service.
type ServiceConfig struct {
	NotificationLimit int
	DefaultActor      string
}

// IDGenerator returns unique identifiers for new entities.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// Service coordinates domain transitions, persistence and status-change publication.
type Service struct {
	repo              Repository
	publisher         StatusPublisher
	idGen             IDGenerator
	clock             Clock
	notificationLimit int
	defaultActor      string

	// numbering serializes max+1 number allocation within the process.
	numbering sync.Mutex
}

// NewService constructs a new value for this package.
func NewService(repo Repository, publisher StatusPublisher, idGen IDGenerator, clock Clock, cfg ServiceConfig) *Service {
	if idGen == nil {
		idGen = func() string { return "" }
	}
	if clock == nil {
		clock = time.Now
	}
	if cfg.NotificationLimit <= 0 {
		cfg.NotificationLimit = domain.DefaultNotificationLimit
	}
	return &Service{
		repo:              repo,
		publisher:         publisher,
		idGen:             idGen,
		clock:             clock,
		notificationLimit: cfg.NotificationLimit,
		defaultActor:      strings.TrimSpace(cfg.DefaultActor),
	}
}

// Now returns the service clock time.
func (s *Service) Now() time.Time {
	return s.clock()
}

// actorOr returns actor, or the configured default actor when actor is blank.
func (s *Service) actorOr(actor string) string {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return s.defaultActor
	}
	return actor
}
