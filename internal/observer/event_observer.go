package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/anime-shed/card-inspector-go/pkg/models"
)

// AnalysisEvent represents a card analysis lifecycle event
type AnalysisEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	Label          string                 `json:"label"`
	Category       models.Category        `json:"category"`
	State          models.AnalysisState   `json:"state"`
	Rarity         models.Rarity          `json:"rarity"`
	QualityScore   int                    `json:"quality_score"`
	Confidence     float64                `json:"confidence"`
	ProcessingTime time.Duration          `json:"processing_time"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of analysis event
type EventType string

const (
	// AnalysisStarted when analysis begins
	AnalysisStarted EventType = "analysis_started"
	// AnalysisCompleted when a result has been produced, whatever its state
	AnalysisCompleted EventType = "analysis_completed"
	// AnalysisDegraded when a pixel analyzer fell back to its default
	AnalysisDegraded EventType = "analysis_degraded"
	// AnalysisFallback when the image could not be read and the label alone was used
	AnalysisFallback EventType = "analysis_fallback"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event AnalysisEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event AnalysisEvent)
}

// LoggingObserver logs analysis events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles analysis events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event AnalysisEvent) {
	fields := logrus.Fields{
		"event_type": event.EventType,
		"label":      event.Label,
		"category":   event.Category,
	}

	if event.EventType == AnalysisCompleted {
		fields["state"] = event.State.String()
		fields["rarity"] = event.Rarity.String()
		fields["quality_score"] = event.QualityScore
		fields["confidence"] = event.Confidence
		fields["processing_time_ms"] = event.ProcessingTime.Milliseconds()
	}

	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}

	for k, v := range event.Metadata {
		fields[k] = v
	}

	switch event.EventType {
	case AnalysisStarted:
		o.logger.WithFields(fields).Debug("Card analysis started")
	case AnalysisCompleted:
		o.logger.WithFields(fields).Info("Card analysis completed")
	case AnalysisDegraded:
		o.logger.WithFields(fields).Warn("Metric degraded to default")
	case AnalysisFallback:
		o.logger.WithFields(fields).Warn("Image unreadable, using label-only fallback")
	default:
		o.logger.WithFields(fields).Info("Analysis event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver collects counters from analysis events
type MetricsObserver struct {
	mu                  sync.RWMutex
	totalAnalyses       int64
	completedAnalyses   int64
	degradedMetrics     int64
	byState             map[models.AnalysisState]int64
	byRarity            map[models.Rarity]int64
	totalProcessingTime time.Duration
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{
		byState:  make(map[models.AnalysisState]int64),
		byRarity: make(map[models.Rarity]int64),
	}
}

// OnEvent handles analysis events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event AnalysisEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case AnalysisStarted:
		o.totalAnalyses++
	case AnalysisCompleted:
		o.completedAnalyses++
		o.byState[event.State]++
		o.byRarity[event.Rarity]++
		o.totalProcessingTime += event.ProcessingTime
	case AnalysisDegraded:
		o.degradedMetrics++
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns current metrics
func (o *MetricsObserver) GetMetrics() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	avgProcessingTime := time.Duration(0)
	if o.completedAnalyses > 0 {
		avgProcessingTime = o.totalProcessingTime / time.Duration(o.completedAnalyses)
	}

	states := make(map[string]int64, len(o.byState))
	for st, n := range o.byState {
		states[st.String()] = n
	}
	rarities := make(map[string]int64, len(o.byRarity))
	for r, n := range o.byRarity {
		rarities[r.String()] = n
	}

	return map[string]interface{}{
		"total_analyses":         o.totalAnalyses,
		"completed_analyses":     o.completedAnalyses,
		"degraded_metrics":       o.degradedMetrics,
		"analyses_by_state":      states,
		"analyses_by_rarity":     rarities,
		"total_processing_time":  o.totalProcessingTime.String(),
		"avg_processing_time_ms": avgProcessingTime.Milliseconds(),
	}
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers fans the event out to every observer concurrently and
// returns once all of them have handled it
func (p *EventPublisher) NotifyObservers(ctx context.Context, event AnalysisEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	var wg sync.WaitGroup
	for _, observer := range observers {
		wg.Add(1)
		go func(obs Observer) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					// Log panic but don't crash the application
					logrus.WithField("observer", obs.GetObserverName()).
						WithField("panic", r).
						Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
	wg.Wait()
}
