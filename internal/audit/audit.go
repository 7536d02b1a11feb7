package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"ziklo-timetrack-backend/internal/model"
)

// Entry describes one action to append to the audit log.
type Entry struct {
	Actor     string
	Action    string
	Entity    string
	EntityID  string
	Payload   map[string]any
	IP        string
	UserAgent string
}

// Sink accepts audit entries. Implementations must never let a failed or
// slow write reach the caller: auditing is strictly best-effort.
type Sink interface {
	Record(e Entry)
}

// Pool is an asynchronous Sink backed by a pool of writer goroutines. When
// the queue is full the entry is dropped and logged rather than blocking
// the request that produced it.
type Pool struct {
	jobs   chan model.AuditLog
	db     *gorm.DB
	logger *zap.Logger
}

// NewPool creates an audit writer pool. Start must be called before
// entries are recorded.
func NewPool(queueSize int, db *gorm.DB, logger *zap.Logger) *Pool {
	return &Pool{
		jobs:   make(chan model.AuditLog, queueSize),
		db:     db,
		logger: logger,
	}
}

// Start launches the writer goroutines. They exit when ctx is cancelled.
func (p *Pool) Start(ctx context.Context, workers int) {
	for i := 0; i < workers; i++ {
		go p.worker(ctx)
	}
}

func (p *Pool) worker(ctx context.Context) {
	for {
		select {
		case rec := <-p.jobs:
			if err := p.db.WithContext(ctx).Create(&rec).Error; err != nil {
				p.logger.Warn("audit write failed",
					zap.String("action", rec.Action),
					zap.String("entity", rec.Entity),
					zap.String("entity_id", rec.EntityID),
					zap.Error(err))
			}
		case <-ctx.Done():
			return
		}
	}
}

// Record enqueues an entry for writing. Non-blocking.
func (p *Pool) Record(e Entry) {
	actor := e.Actor
	if actor == "" {
		actor = "system"
	}
	userAgent := e.UserAgent
	if userAgent == "" {
		userAgent = "API"
	}
	rec := model.AuditLog{
		ID:          uuid.NewString(),
		ActorUserID: actor,
		Action:      e.Action,
		Entity:      e.Entity,
		EntityID:    e.EntityID,
		Payload:     e.Payload,
		IP:          e.IP,
		UserAgent:   userAgent,
		CreatedAt:   time.Now().UTC(),
	}

	select {
	case p.jobs <- rec:
	default:
		p.logger.Warn("audit queue full, dropping entry",
			zap.String("action", rec.Action),
			zap.String("entity", rec.Entity),
			zap.String("entity_id", rec.EntityID))
	}
}

// Nop is a Sink that discards everything. Used in tests.
type Nop struct{}

func (Nop) Record(Entry) {}
