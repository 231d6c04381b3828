/*
Package learner orchestrates the continuous-learning loop.

One Learner instance owns the model reference, the pending-interaction
table and the recent-outcome ring buffer. It is constructed once per
process with an explicit lifecycle: New loads state and starts the
background janitor, Shutdown flushes the current model version and stops
it. Callers receive the instance by reference; there is no singleton.

Per interaction the learner walks IDLE -> FEATURE_EXTRACTION ->
PREDICTION_ISSUED -> AWAITING_OUTCOME (Ingest) and AWAITING_OUTCOME ->
REWARD_COMPUTED -> MODEL_UPDATED (Complete). Predictions are served
concurrently against the current model; weight updates are serialized
by the model's single-writer lock.
*/
package learner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khanglvm/intent-hub-mcp/internal/config"
	"github.com/khanglvm/intent-hub-mcp/internal/feature"
	"github.com/khanglvm/intent-hub-mcp/internal/model"
	"github.com/khanglvm/intent-hub-mcp/internal/reward"
	"github.com/khanglvm/intent-hub-mcp/internal/router"
	"github.com/khanglvm/intent-hub-mcp/internal/samples"
	"github.com/khanglvm/intent-hub-mcp/internal/storage"
	"github.com/khanglvm/intent-hub-mcp/internal/toolmap"
)

const (
	// janitorInterval is how often expired pending slots are collected.
	janitorInterval = 30 * time.Second

	// persistAttempts and persistBackoff shape the snapshot retry loop.
	persistAttempts = 3
	persistBackoff  = 100 * time.Millisecond

	// lowConfidence marks an outcome as high-value: it is persisted
	// immediately regardless of batch size.
	lowConfidence = 0.5

	// outcomeRetention is how long archived outcomes are kept before the
	// startup cleanup removes them. Snapshots are never cleaned up.
	outcomeRetention = 30 * 24 * time.Hour
)

// UnknownInteractionError reports a Complete call for an id that was never
// ingested, already completed, or expired.
type UnknownInteractionError struct {
	InteractionID string
}

func (e *UnknownInteractionError) Error() string {
	return fmt.Sprintf("unknown or already completed interaction: %s", e.InteractionID)
}

// PredictionResult is what Ingest hands to the caller: the prediction,
// the proposed tool sequence, and the routing decision.
type PredictionResult struct {
	InteractionID string             `json:"interactionId"`
	Intent        string             `json:"intent"`
	Confidence    float64            `json:"confidence"`
	Scores        map[string]float64 `json:"scores"`
	Tools         []string           `json:"tools"`
	Decision      router.Decision    `json:"decision"`
	ModelVersion  int64              `json:"modelVersion"`
}

// Status is the monitoring surface computed from the ring buffer.
type Status struct {
	CurrentVersion  int64   `json:"currentVersion"`
	SampleCount     int64   `json:"sampleCount"`
	RollingAccuracy float64 `json:"rollingAccuracy"`
	PendingCount    int     `json:"pendingCount"`
	BufferedCount   int     `json:"bufferedCount"`
}

// pendingInteraction is the slot held between Ingest and Complete.
type pendingInteraction struct {
	text       string
	features   feature.Vector
	prediction model.Prediction
	tools      []string
	decision   router.Decision
	createdAt  time.Time
}

// Learner drives the ingest/complete loop and owns all mutable state.
type Learner struct {
	extractor *feature.Extractor
	model     *model.Model
	mapper    *toolmap.Mapper
	router    *router.Router
	rewards   *reward.Engine
	store     storage.Store
	logger    *zap.Logger

	mu      sync.Mutex
	cfg     *config.Config
	pending map[string]*pendingInteraction
	buffer  *ring
	ttl     time.Duration

	// sinceSnapshot counts learned completions since the last persisted
	// snapshot.
	sinceSnapshot int

	persistWG sync.WaitGroup
	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// New creates a learner and starts its background janitor.
//
// If the store holds a snapshot compatible with the current feature
// space, the model resumes from it; a dimension mismatch is fatal.
func New(
	cfg *config.Config,
	extractor *feature.Extractor,
	m *model.Model,
	mapper *toolmap.Mapper,
	rt *router.Router,
	rewards *reward.Engine,
	store storage.Store,
	logger *zap.Logger,
) (*Learner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	snap, err := store.LoadLatest()
	if err != nil {
		return nil, fmt.Errorf("failed to load latest snapshot: %w", err)
	}
	if snap != nil {
		if err := m.Restore(snap); err != nil {
			return nil, err
		}
		logger.Info("model resumed from snapshot",
			zap.Int64("version", snap.Version),
			zap.Int64("samples", snap.SampleCount))
	}

	l := &Learner{
		extractor: extractor,
		model:     m,
		mapper:    mapper,
		router:    rt,
		rewards:   rewards,
		store:     store,
		logger:    logger,
		cfg:       cfg,
		pending:   make(map[string]*pendingInteraction),
		buffer:    newRing(cfg.Learning.BufferSize),
		ttl:       time.Duration(cfg.Learning.PendingTTLSeconds) * time.Second,
		stopChan:  make(chan struct{}),
	}

	l.wg.Add(1)
	go l.janitor()

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		if err := store.Cleanup(outcomeRetention); err != nil {
			logger.Warn("outcome cleanup failed", zap.Error(err))
		}
	}()

	return l, nil
}

// Ingest classifies text, proposes a tool sequence and routing decision,
// and parks the interaction awaiting its outcome.
func (l *Learner) Ingest(text string) (*PredictionResult, error) {
	features, err := l.extractor.Extract(text)
	if err != nil {
		// Fatal for this interaction only; model state is untouched.
		l.logger.Warn("feature extraction failed", zap.Error(err))
		return nil, err
	}

	pred := l.model.Predict(features)

	tools, err := l.mapper.Map(pred.Intent)
	if err != nil {
		return nil, err
	}

	decision := l.router.Route(pred.Confidence)

	id := uuid.NewString()

	l.mu.Lock()
	l.pending[id] = &pendingInteraction{
		text:       text,
		features:   features,
		prediction: pred,
		tools:      tools,
		decision:   decision,
		createdAt:  time.Now(),
	}
	l.mu.Unlock()

	return &PredictionResult{
		InteractionID: id,
		Intent:        pred.Intent,
		Confidence:    pred.Confidence,
		Scores:        pred.Scores,
		Tools:         tools,
		Decision:      decision,
		ModelVersion:  pred.Version,
	}, nil
}

// Complete consumes the outcome of a previously ingested interaction:
// it scores the reward, updates the model (unless the interaction was an
// unconfirmed hybrid guess), records the outcome, and persists a new
// model version per the batch policy.
//
// Completion is at-most-once: the first call claims the pending slot and
// every later call for the same id fails with *UnknownInteractionError.
func (l *Learner) Complete(interactionID string, out reward.Outcome) (*reward.Record, error) {
	l.mu.Lock()
	slot, ok := l.pending[interactionID]
	if ok {
		delete(l.pending, interactionID)
	}
	cfg := l.cfg
	l.mu.Unlock()

	if !ok {
		return nil, &UnknownInteractionError{InteractionID: interactionID}
	}

	out.Text = slot.text
	out.PredictedIntent = slot.prediction.Intent
	if len(out.ExpectedTools) == 0 {
		out.ExpectedTools = slot.tools
	}

	rec := l.rewards.Score(out)

	// Unconfirmed hybrid guesses are archived but never learned from;
	// that is what keeps the loop from reinforcing uncertain predictions.
	learn := slot.decision != router.HybridEscalate || out.Confirmed

	target := slot.prediction.Intent
	if out.ActualIntent != "" {
		if !cfg.HasIntent(out.ActualIntent) {
			return nil, &config.ConfigurationError{
				Field:   "intents",
				Message: fmt.Sprintf("outcome labeled with unknown intent %q", out.ActualIntent),
			}
		}
		target = out.ActualIntent
	}

	if learn {
		if err := l.model.Update(slot.features, target, rec.Total, cfg.Learning.LearningRate); err != nil {
			return nil, fmt.Errorf("model update failed: %w", err)
		}
		l.mapper.Observe(target, out.ActualTools, out.TaskSuccess)
	}

	l.archive(interactionID, slot, out, rec, learn)

	correct := out.TaskSuccess
	if out.ActualIntent != "" {
		correct = out.ActualIntent == slot.prediction.Intent
	}
	l.mu.Lock()
	l.buffer.push(entry{learned: learn, correct: correct})
	l.mu.Unlock()

	if learn {
		l.maybePersist(cfg, slot.prediction.Confidence, out)
	}

	return &rec, nil
}

// archive hands the completed interaction to the outcome store.
func (l *Learner) archive(id string, slot *pendingInteraction, out reward.Outcome, rec reward.Record, learned bool) {
	components := make(map[string]float64, len(rec.Components))
	for c, v := range rec.Components {
		components[string(c)] = v
	}

	l.store.ArchiveOutcome(storage.OutcomeRecord{
		InteractionID:    id,
		TextHash:         storage.HashText(slot.text),
		PredictedIntent:  slot.prediction.Intent,
		ActualIntent:     out.ActualIntent,
		Decision:         string(slot.decision),
		ActualTools:      out.ActualTools,
		ExpectedTools:    out.ExpectedTools,
		TaskSuccess:      out.TaskSuccess,
		LatencyMs:        out.LatencyMs,
		ErrorOccurred:    out.ErrorOccurred,
		Learned:          learned,
		RewardTotal:      rec.Total,
		RewardComponents: components,
		Penalty:          rec.Penalty,
		Timestamp:        time.Now(),
	})
}

// maybePersist snapshots the model per the batch policy. Failed or
// low-confidence outcomes are high-value samples and persist immediately.
func (l *Learner) maybePersist(cfg *config.Config, confidence float64, out reward.Outcome) {
	l.mu.Lock()
	l.sinceSnapshot++
	highValue := !out.TaskSuccess || confidence < lowConfidence
	due := l.sinceSnapshot >= cfg.Learning.BatchSize || highValue
	if due {
		l.sinceSnapshot = 0
	}
	l.mu.Unlock()

	if !due {
		return
	}

	snap := l.model.Snapshot()
	l.persistWG.Add(1)
	go func() {
		defer l.persistWG.Done()
		l.persistSnapshot(snap)
	}()
}

// persistSnapshot writes a snapshot with exponential backoff. Exhaustion
// is downgraded to an alert: the in-memory model keeps serving.
func (l *Learner) persistSnapshot(snap *model.Snapshot) {
	var err error
	for attempt := 0; attempt < persistAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(persistBackoff << (attempt - 1))
		}
		if err = l.store.SaveSnapshot(snap); err == nil {
			return
		}
		l.logger.Warn("snapshot persistence failed, retrying",
			zap.Int64("version", snap.Version),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}

	// Alert condition: serving continues on the in-memory model.
	l.logger.Error("snapshot persistence exhausted retries, serving from memory",
		zap.Int64("version", snap.Version),
		zap.Error(err))
}

// Bootstrap trains the model on labeled samples and persists the result.
// Sample weight acts as the reward signal for the update step.
func (l *Learner) Bootstrap(set []*samples.TrainingSample, epochs int) error {
	l.mu.Lock()
	cfg := l.cfg
	l.mu.Unlock()

	if epochs < 1 {
		epochs = 1
	}

	for epoch := 0; epoch < epochs; epoch++ {
		for _, s := range set {
			if err := s.Validate(cfg.HasIntent); err != nil {
				return err
			}
			features, err := l.extractor.Extract(s.Text)
			if err != nil {
				return err
			}
			if err := l.model.Update(features, s.Intent, s.Weight, cfg.Learning.LearningRate); err != nil {
				return err
			}
		}
	}

	snap := l.model.Snapshot()
	if err := l.store.SaveSnapshot(snap); err != nil {
		return err
	}

	l.logger.Info("bootstrap complete",
		zap.Int("samples", len(set)),
		zap.Int("epochs", epochs),
		zap.Int64("version", snap.Version))
	return nil
}

// Rollback restores the model to a previously persisted version.
//
// History is append-only: the restored weights are re-persisted under a
// fresh version above the stored maximum, so the rollback survives a
// restart and versions stay monotonic.
func (l *Learner) Rollback(version int64) error {
	snap, err := l.store.LoadVersion(version)
	if err != nil {
		return err
	}

	latest, err := l.store.LoadLatest()
	if err != nil {
		return err
	}
	if latest != nil && latest.Version >= snap.Version {
		snap.Version = latest.Version + 1
	}

	if err := l.model.Restore(snap); err != nil {
		return err
	}
	if err := l.store.SaveSnapshot(snap); err != nil {
		return err
	}

	l.logger.Info("model rolled back",
		zap.Int64("restored_from", version),
		zap.Int64("new_version", snap.Version))
	return nil
}

// Status reports the monitoring surface.
func (l *Learner) Status() Status {
	l.mu.Lock()
	pendingCount := len(l.pending)
	accuracy, buffered := l.buffer.stats()
	l.mu.Unlock()

	return Status{
		CurrentVersion:  l.model.Version(),
		SampleCount:     l.model.SampleCount(),
		RollingAccuracy: accuracy,
		PendingCount:    pendingCount,
		BufferedCount:   buffered,
	}
}

// ApplyConfig hot-reloads the tunable parameters: routing thresholds,
// reward weights, learning rate, batch size and pending TTL.
func (l *Learner) ApplyConfig(cfg *config.Config) {
	l.router.SetThresholds(cfg.Routing)
	l.rewards.SetWeights(cfg.Reward)

	l.mu.Lock()
	l.cfg = cfg
	l.ttl = time.Duration(cfg.Learning.PendingTTLSeconds) * time.Second
	l.mu.Unlock()
}

// Shutdown flushes the current model version, waits for in-flight
// persistence, and stops the janitor.
func (l *Learner) Shutdown(ctx context.Context) error {
	l.stopOnce.Do(func() {
		close(l.stopChan)
	})

	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		l.persistWG.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	// Final flush: persist the in-memory model if it is ahead of the
	// last stored version.
	snap := l.model.Snapshot()
	stored, err := l.store.LoadLatest()
	if err != nil {
		l.logger.Warn("final snapshot flush skipped", zap.Error(err))
	} else if stored == nil || stored.Version < snap.Version {
		if err := l.store.SaveSnapshot(snap); err != nil {
			l.logger.Warn("final snapshot flush failed", zap.Error(err))
		}
	}

	return l.store.Close()
}

// janitor expires pending slots whose outcome never arrived.
func (l *Learner) janitor() {
	defer l.wg.Done()

	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.expirePending()
		case <-l.stopChan:
			return
		}
	}
}

func (l *Learner) expirePending() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for id, slot := range l.pending {
		if now.Sub(slot.createdAt) > l.ttl {
			delete(l.pending, id)
			l.logger.Warn("pending interaction expired",
				zap.String("interaction_id", id),
				zap.String("intent", slot.prediction.Intent))
		}
	}
}
