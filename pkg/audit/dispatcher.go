// Package audit records domain events off the request path. Events are
// queued in an actor mailbox and written to a Sink one at a time.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/example/market/pkg/checkout"
	"github.com/example/market/pkg/repository"
	"go.uber.org/zap"
)

const defaultWriteTimeout = 5 * time.Second

// Sink stores audit entries. repository.MongoRepository satisfies it.
type Sink interface {
	CreateAuditLog(ctx context.Context, log *repository.AuditLog) error
}

type Options struct {
	Service      string
	WriteTimeout time.Duration
	Logger       *zap.Logger
}

// Dispatcher implements checkout.Publisher on top of an actor.
type Dispatcher struct {
	system *actor.ActorSystem
	pid    *actor.PID
	logger *zap.Logger
}

type recordEvent struct {
	event checkout.Event
	at    time.Time
}

type auditActor struct {
	sink    Sink
	service string
	timeout time.Duration
	logger  *zap.Logger
}

func (a *auditActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *recordEvent:
		wctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()

		entry := &repository.AuditLog{
			Service:   a.service,
			Instance:  msg.event.Instance,
			Action:    msg.event.Action,
			EntityID:  msg.event.EntityID,
			Data:      msg.event.Data,
			CreatedAt: msg.at,
		}
		if err := a.sink.CreateAuditLog(wctx, entry); err != nil {
			a.logger.Error("Failed to write audit log",
				zap.String("action", entry.Action),
				zap.String("entity_id", entry.EntityID),
				zap.Error(err))
			return
		}
		a.logger.Debug("Audit log written",
			zap.String("action", entry.Action),
			zap.String("entity_id", entry.EntityID))

	case *actor.Started:
		a.logger.Info("Audit actor started")

	case *actor.Stopping:
		a.logger.Info("Audit actor stopping")
	}
}

func NewDispatcher(sink Sink, opts Options) (*Dispatcher, error) {
	if sink == nil {
		return nil, fmt.Errorf("audit: nil sink")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultWriteTimeout
	}
	logger := opts.Logger.Named("audit-actor")

	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return &auditActor{
			sink:    sink,
			service: opts.Service,
			timeout: opts.WriteTimeout,
			logger:  logger,
		}
	})
	pid, err := system.Root.SpawnNamed(props, "audit")
	if err != nil {
		return nil, fmt.Errorf("failed to spawn audit actor: %w", err)
	}

	return &Dispatcher{system: system, pid: pid, logger: logger}, nil
}

// Publish queues ev and returns immediately.
func (d *Dispatcher) Publish(ev checkout.Event) {
	d.system.Root.Send(d.pid, &recordEvent{event: ev, at: time.Now()})
}

// Close stops the actor after every queued event has been handled.
func (d *Dispatcher) Close() error {
	return d.system.Root.PoisonFuture(d.pid).Wait()
}
