package quiz

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/neuroquiz/internal/logger"
	"github.com/vytor/neuroquiz/internal/models"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrEngineStopped   = errors.New("quiz engine is not running")
)

// Sampler picks and prepares items for a new session.
type Sampler interface {
	RandomItems(topic models.Topic, count int) []models.QuizItem
	ShuffleOptions(item models.QuizItem) models.QuizItem
}

// Notifier is told about every accepted answer. Calls happen on the engine
// loop, so implementations must return quickly; they cannot fail the answer.
// The default is LogNotifier.
type Notifier interface {
	AnswerSelected(ctx context.Context, sessionID string, correct bool)
}

// CompletionFunc receives a sealed copy of every session the engine completes.
// It runs on the engine loop and must not block.
type CompletionFunc func(ctx context.Context, session models.QuizSession)

type Config struct {
	QuestionsPerSession int
	QuestionBudget      time.Duration
	FeedbackDelay       time.Duration
	TickInterval        time.Duration
	// RetainCompleted is how long a finished session stays readable before
	// it is evicted.
	RetainCompleted     time.Duration
}

func DefaultConfig() Config {
	return Config{
		QuestionsPerSession: 10,
		QuestionBudget:      30 * time.Second,
		FeedbackDelay:       2500 * time.Millisecond,
		TickInterval:        time.Second,
		RetainCompleted:     5 * time.Minute,
	}
}

type EngineOption func(*Engine)

func WithScheduler(s Scheduler) EngineOption {
	return func(e *Engine) { e.sched = s }
}

func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

func WithIDGenerator(gen func() string) EngineOption {
	return func(e *Engine) { e.newID = gen }
}

func WithNotifier(n Notifier) EngineOption {
	return func(e *Engine) { e.notifier = n }
}

func WithCompletion(fn CompletionFunc) EngineOption {
	return func(e *Engine) { e.onComplete = fn }
}

type eventKind int

const (
	evStart eventKind = iota
	evSelect
	evTick
	evAdvance
	evGet
	evAbandon
	evExpire
)

type event struct {
	kind      eventKind
	sessionID string
	index     int // question the timer was armed for
	topic     models.Topic
	optionID  string
	reply     chan reply
}

type reply struct {
	snapshot Snapshot
	session  models.QuizSession
	answer   *models.QuizAnswer
	err      error
}

// Engine owns every live session and applies all events to them on a single
// goroutine, in arrival order. Between an explicit selection and a timeout for
// the same question, whichever is dequeued first is accepted.
//
// A question that runs out of time before the client ever looked at it means
// the client has gone away: the session is dropped without completing, so
// nothing it never showed is reported as missed. Finished sessions are
// evicted after Config.RetainCompleted.
type Engine struct {
	cfg        Config
	sampler    Sampler
	sched      Scheduler
	now        func() time.Time
	newID      func() string
	notifier   Notifier
	onComplete CompletionFunc
	log        *logger.Logger

	events chan event
	done   chan struct{}
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// owned by the loop goroutine
	sessions map[string]*Session
	timers   *timerArena
}

func NewEngine(cfg Config, sampler Sampler, opts ...EngineOption) *Engine {
	def := DefaultConfig()
	if cfg.QuestionsPerSession <= 0 {
		cfg.QuestionsPerSession = def.QuestionsPerSession
	}
	if cfg.QuestionBudget <= 0 {
		cfg.QuestionBudget = def.QuestionBudget
	}
	if cfg.FeedbackDelay < 0 {
		cfg.FeedbackDelay = def.FeedbackDelay
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = def.TickInterval
	}
	if cfg.RetainCompleted <= 0 {
		cfg.RetainCompleted = def.RetainCompleted
	}

	e := &Engine{
		cfg:      cfg,
		sampler:  sampler,
		sched:    RealScheduler(),
		now:      time.Now,
		newID:    uuid.NewString,
		notifier: LogNotifier{},
		log:      logger.Default().WithPrefix("quiz-engine"),
		events:   make(chan event, 64),
		done:     make(chan struct{}),
		sessions: make(map[string]*Session),
		timers:   newTimerArena(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start runs the event loop until ctx is cancelled or Stop is called.
func (e *Engine) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.log.Info("starting quiz engine: questions=%d budget=%v feedback_delay=%v",
		e.cfg.QuestionsPerSession, e.cfg.QuestionBudget, e.cfg.FeedbackDelay)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer close(e.done)
		for {
			select {
			case <-ctx.Done():
				e.timers.stopAll()
				e.log.Info("quiz engine stopped, dropped %d live sessions", len(e.sessions))
				return
			case ev := <-e.events:
				e.handle(ctx, ev)
			}
		}
	}()
}

// Stop cancels every pending timer and waits for the loop to exit.
func (e *Engine) Stop() {
	if e.cancel != nil {
		e.cancel()
	}
	e.wg.Wait()
}

// StartSession draws a fresh set of items for topic and opens a session on them.
func (e *Engine) StartSession(ctx context.Context, topic models.Topic) (Snapshot, error) {
	r, err := e.call(ctx, event{kind: evStart, topic: topic})
	return r.snapshot, err
}

// Select submits the user's option for the current question.
func (e *Engine) Select(ctx context.Context, sessionID, optionID string) (Snapshot, models.QuizAnswer, error) {
	r, err := e.call(ctx, event{kind: evSelect, sessionID: sessionID, optionID: optionID})
	if err != nil {
		return r.snapshot, models.QuizAnswer{}, err
	}
	return r.snapshot, *r.answer, nil
}

// Get returns the session's snapshot and a copy of its record.
func (e *Engine) Get(ctx context.Context, sessionID string) (Snapshot, models.QuizSession, error) {
	r, err := e.call(ctx, event{kind: evGet, sessionID: sessionID})
	return r.snapshot, r.session, err
}

// Abandon tears a session down and cancels its timers.
func (e *Engine) Abandon(ctx context.Context, sessionID string) error {
	_, err := e.call(ctx, event{kind: evAbandon, sessionID: sessionID})
	return err
}

func (e *Engine) call(ctx context.Context, ev event) (reply, error) {
	ev.reply = make(chan reply, 1)
	select {
	case e.events <- ev:
	case <-ctx.Done():
		return reply{}, ctx.Err()
	case <-e.done:
		return reply{}, ErrEngineStopped
	}
	select {
	case r := <-ev.reply:
		return r, r.err
	case <-ctx.Done():
		return reply{}, ctx.Err()
	case <-e.done:
		return reply{}, ErrEngineStopped
	}
}

// post is used by timer callbacks, which have nobody waiting on a reply.
func (e *Engine) post(ev event) {
	select {
	case e.events <- ev:
	case <-e.done:
	}
}

func (e *Engine) handle(ctx context.Context, ev event) {
	var r reply
	switch ev.kind {
	case evStart:
		r = e.handleStart(ctx, ev)
	case evSelect:
		r = e.handleSelect(ctx, ev)
	case evTick:
		e.handleTick(ctx, ev)
	case evAdvance:
		e.handleAdvance(ctx, ev)
	case evGet:
		if s, ok := e.sessions[ev.sessionID]; ok {
			s.MarkSeen()
			r = reply{snapshot: s.Snapshot(), session: s.Data()}
		} else {
			r.err = ErrSessionNotFound
		}
	case evAbandon:
		r = e.handleAbandon(ev)
	case evExpire:
		e.handleExpire(ev)
	}
	if ev.reply != nil {
		ev.reply <- r
	}
}

func (e *Engine) handleStart(ctx context.Context, ev event) reply {
	picked := e.sampler.RandomItems(ev.topic, e.cfg.QuestionsPerSession)
	items := make([]models.QuizItem, 0, len(picked))
	for _, it := range picked {
		items = append(items, e.sampler.ShuffleOptions(it))
	}

	id := e.newID()
	s := NewSession(id, string(ev.topic), items, e.now(), e.cfg.QuestionBudget)
	e.sessions[id] = s
	// The caller receives the first question in the reply.
	s.MarkSeen()

	log := e.log.WithField("session_id", id)
	log.Info("session started: topic=%s items=%d", ev.topic, len(items))

	if s.State() == StateComplete {
		log.Warn("topic %q has no items, session is empty", ev.topic)
		e.finish(ctx, s)
	} else {
		e.armTick(s)
	}
	return reply{snapshot: s.Snapshot()}
}

func (e *Engine) handleSelect(ctx context.Context, ev event) reply {
	s, ok := e.sessions[ev.sessionID]
	if !ok {
		return reply{err: ErrSessionNotFound}
	}
	s.MarkSeen()
	ans, err := s.Answer(ev.optionID, e.now())
	if err != nil {
		e.log.WithField("session_id", ev.sessionID).Debug("selection rejected: option=%s err=%v", ev.optionID, err)
		return reply{snapshot: s.Snapshot(), err: err}
	}
	e.accepted(ctx, s, ans)
	return reply{snapshot: s.Snapshot(), answer: &ans}
}

func (e *Engine) handleTick(ctx context.Context, ev event) {
	s, ok := e.sessions[ev.sessionID]
	if !ok || s.State() == StateComplete {
		return
	}
	// Armed for a question that has since been replaced; its successor is
	// already pending.
	if s.Index() != ev.index {
		return
	}
	e.timers.clear(ev.sessionID, tickTimer)

	if s.Expiring() && !s.Seen() {
		e.drop(s, "question expired before the client saw it")
		return
	}
	if ans, timedOut := s.Tick(e.now()); timedOut {
		e.log.WithField("session_id", s.ID()).Debug("question %d timed out", s.Index())
		e.accepted(ctx, s, ans)
	}
	e.armTick(s)
}

func (e *Engine) handleAdvance(ctx context.Context, ev event) {
	s, ok := e.sessions[ev.sessionID]
	if !ok {
		return
	}
	// A stale advance armed for an earlier question must not move this one.
	if s.State() == StateComplete || s.Index() != ev.index || !s.Answered() {
		return
	}
	e.timers.clear(ev.sessionID, advanceTimer)

	complete, err := s.Advance(e.now())
	if err != nil {
		e.log.WithField("session_id", s.ID()).Warn("advance failed: %v", err)
		return
	}
	if complete {
		e.finish(ctx, s)
		return
	}
	// The next question gets its full budget from now.
	e.armTick(s)
}

func (e *Engine) handleAbandon(ev event) reply {
	s, ok := e.sessions[ev.sessionID]
	if !ok {
		return reply{err: ErrSessionNotFound}
	}
	e.drop(s, "closed by client")
	return reply{}
}

func (e *Engine) handleExpire(ev event) {
	s, ok := e.sessions[ev.sessionID]
	if !ok || s.State() != StateComplete {
		return
	}
	e.timers.clear(ev.sessionID, retainTimer)
	e.drop(s, "retention elapsed")
}

// drop forgets a session and its timers without running the completion hook.
func (e *Engine) drop(s *Session, reason string) {
	n := e.timers.cancelAll(s.ID())
	delete(e.sessions, s.ID())
	e.log.WithField("session_id", s.ID()).Info("session dropped (%s): state=%s answered=%d/%d cancelled_timers=%d",
		reason, s.State(), len(s.data.Answers), len(s.data.Items), n)
}

// accepted runs after an answer (explicit or timeout) has been recorded.
func (e *Engine) accepted(ctx context.Context, s *Session, ans models.QuizAnswer) {
	e.log.WithField("session_id", s.ID()).Debug("answer accepted: item=%s correct=%t timed_out=%t spent=%ds",
		ans.ItemID, ans.IsCorrect, ans.TimedOut, ans.TimeSpent)
	if e.notifier != nil {
		e.notifier.AnswerSelected(ctx, s.ID(), ans.IsCorrect)
	}
	e.armAdvance(s.ID(), s.Index())
}

func (e *Engine) finish(ctx context.Context, s *Session) {
	e.timers.cancelAll(s.ID())
	data := s.Data()
	e.log.WithField("session_id", s.ID()).Info("session complete: score=%d/%d", data.Score, len(data.Items))
	if e.onComplete != nil {
		e.onComplete(ctx, data)
	}
	e.armRetention(s.ID())
}

func (e *Engine) armTick(s *Session) {
	sessionID, index := s.ID(), s.Index()
	t := e.sched.AfterFunc(e.cfg.TickInterval, func() {
		e.post(event{kind: evTick, sessionID: sessionID, index: index})
	})
	e.timers.set(sessionID, tickTimer, t)
}

func (e *Engine) armRetention(sessionID string) {
	t := e.sched.AfterFunc(e.cfg.RetainCompleted, func() {
		e.post(event{kind: evExpire, sessionID: sessionID})
	})
	e.timers.set(sessionID, retainTimer, t)
}

func (e *Engine) armAdvance(sessionID string, index int) {
	t := e.sched.AfterFunc(e.cfg.FeedbackDelay, func() {
		e.post(event{kind: evAdvance, sessionID: sessionID, index: index})
	})
	e.timers.set(sessionID, advanceTimer, t)
}
