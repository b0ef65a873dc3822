package conversation

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zulandar/quotewire/internal/extract"
	"github.com/zulandar/quotewire/internal/models"
	"github.com/zulandar/quotewire/internal/quote"
)

// Notifier receives best-effort completion events. Implementations must
// not block the conversation path; errors are logged, never propagated.
type Notifier interface {
	SessionCompleted(ctx context.Context, session models.Session, q models.Quotation) error
}

// Event is one inbound vendor utterance.
type Event struct {
	SessionID     string
	Channel       string
	VendorAddress string
	Utterance     string
	Company       models.Company
}

// Reply is what the engine hands back to the channel transport.
type Reply struct {
	Text   string
	Done   bool
	Reason string
}

// Engine runs the per-utterance pipeline: extract, fold into context,
// decide termination, generate the next prompt, persist the audit trail.
type Engine struct {
	store    *Store
	adapter  *extract.Adapter
	gen      Generator
	db       *gorm.DB
	notifier Notifier
}

// EngineOpts configures a new Engine. Store, Adapter, and Generator are
// required; DB and Notifier may be nil, which disables persistence and
// completion notifications respectively.
type EngineOpts struct {
	Store     *Store
	Adapter   *extract.Adapter
	Generator Generator
	DB        *gorm.DB
	Notifier  Notifier
}

// NewEngine validates opts and builds an engine.
func NewEngine(opts EngineOpts) (*Engine, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("conversation: engine requires a store")
	}
	if opts.Adapter == nil {
		return nil, fmt.Errorf("conversation: engine requires an extraction adapter")
	}
	if opts.Generator == nil {
		return nil, fmt.Errorf("conversation: engine requires a generator")
	}
	return &Engine{
		store:    opts.Store,
		adapter:  opts.Adapter,
		gen:      opts.Generator,
		db:       opts.DB,
		notifier: opts.Notifier,
	}, nil
}

// Store exposes the engine's context store for inspection endpoints.
func (e *Engine) Store() *Store { return e.store }

// Begin registers a session and returns the opening prompt. Calling it
// again for a live session is a no-op that returns the greeting anyway,
// so redelivered call-started webhooks are harmless.
func (e *Engine) Begin(ctx context.Context, ev Event) (string, error) {
	if _, ok := e.store.Get(ev.SessionID); !ok {
		if err := e.store.Put(NewContext(ev.SessionID)); err != nil {
			return "", err
		}
		if e.db != nil {
			session := models.Session{
				ID:            ev.SessionID,
				Channel:       ev.Channel,
				VendorAddress: ev.VendorAddress,
				CompanyID:     ev.Company.ID,
				Status:        models.SessionActive,
			}
			if err := e.db.WithContext(ctx).Create(&session).Error; err != nil {
				return "", fmt.Errorf("conversation: create session %s: %w", ev.SessionID, err)
			}
		}
		log.Printf("conversation: session %s started on %s", ev.SessionID, ev.Channel)
	}
	return e.gen.Greeting(ctx, ev.Company), nil
}

// ProcessUtterance runs one turn. Events for an unknown session start it
// implicitly, so mid-call restarts lose history but keep talking.
func (e *Engine) ProcessUtterance(ctx context.Context, ev Event) (Reply, error) {
	if _, ok := e.store.Get(ev.SessionID); !ok {
		if _, err := e.Begin(ctx, ev); err != nil {
			return Reply{}, err
		}
	}

	frag := e.adapter.Extract(ctx, ev.Utterance, ev.Company)

	var snapshot *Context
	err := e.store.Update(ev.SessionID, func(c *Context) error {
		Update(c, ev.Utterance, frag)
		snapshot = c.clone()
		return nil
	})
	if err != nil {
		return Reply{}, err
	}

	decision := Decide(snapshot)

	var reply Reply
	if decision.ShouldEnd {
		reply = Reply{
			Text:   e.gen.Closing(decision.Reason),
			Done:   true,
			Reason: decision.Reason,
		}
	} else {
		reply = Reply{Text: e.gen.FollowUp(ctx, snapshot, ev.Company)}
	}

	e.recordTurn(ctx, ev, frag, reply.Text, snapshot.TurnCount)

	if decision.ShouldEnd {
		if err := e.complete(ctx, ev, snapshot, decision.Reason); err != nil {
			return Reply{}, err
		}
	}
	return reply, nil
}

// OnSessionDropped ends a live session whose channel went away (hangup,
// chat timeout) without a termination decision. The context collected so
// far still yields a quotation record.
func (e *Engine) OnSessionDropped(ctx context.Context, ev Event, reason string) error {
	snapshot, ok := e.store.Get(ev.SessionID)
	if !ok || snapshot.Frozen {
		return nil
	}
	return e.complete(ctx, ev, snapshot, reason)
}

func (e *Engine) complete(ctx context.Context, ev Event, snapshot *Context, reason string) error {
	if err := e.store.Freeze(ev.SessionID); err != nil {
		return err
	}
	log.Printf("conversation: session %s ended after %d turns: %s",
		ev.SessionID, snapshot.TurnCount, reason)

	q := quote.Aggregate(quote.Input{
		SessionID:     ev.SessionID,
		VendorAddress: ev.VendorAddress,
		CompanyID:     ev.Company.ID,
		Items:         snapshot.ItemsDiscussed,
		Fragments:     snapshot.Fragments,
	})

	if e.db != nil {
		now := time.Now()
		err := e.db.WithContext(ctx).Model(&models.Session{}).
			Where("id = ?", ev.SessionID).
			Updates(map[string]any{
				"status":       models.SessionCompleted,
				"end_reason":   reason,
				"completed_at": &now,
			}).Error
		if err != nil {
			return fmt.Errorf("conversation: complete session %s: %w", ev.SessionID, err)
		}
		if err := e.db.WithContext(ctx).Create(&q).Error; err != nil {
			return fmt.Errorf("conversation: store quotation for %s: %w", ev.SessionID, err)
		}
	}

	if e.notifier != nil {
		session := models.Session{
			ID:            ev.SessionID,
			Channel:       ev.Channel,
			VendorAddress: ev.VendorAddress,
			CompanyID:     ev.Company.ID,
			Status:        models.SessionCompleted,
			EndReason:     reason,
		}
		if err := e.notifier.SessionCompleted(ctx, session, q); err != nil {
			log.Printf("conversation: completion notification for %s failed: %v", ev.SessionID, err)
		}
	}
	return nil
}

func (e *Engine) recordTurn(ctx context.Context, ev Event, frag extract.Fragment, response string, number int) {
	if e.db == nil {
		return
	}
	turn := models.Turn{
		ID:         uuid.NewString(),
		SessionID:  ev.SessionID,
		Number:     number,
		Channel:    ev.Channel,
		Utterance:  ev.Utterance,
		Response:   response,
		Method:     frag.Method,
		Confidence: frag.Confidence,
		Language:   extract.DetectLanguage(ev.Utterance),
	}
	if err := e.db.WithContext(ctx).Create(&turn).Error; err != nil {
		log.Printf("conversation: record turn %d for %s: %v", number, ev.SessionID, err)
	}
}
