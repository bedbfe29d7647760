package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/thisdougb/healthview/internal/catalog"
	"github.com/thisdougb/healthview/internal/config"
	"github.com/thisdougb/healthview/internal/format"
	"github.com/thisdougb/healthview/internal/metrics"
	"github.com/thisdougb/healthview/internal/source"
	"github.com/thisdougb/healthview/internal/units"
)

var (
	ErrNotAuthorized = errors.New("read access has not been granted")
	ErrNoSource      = errors.New("no health source configured")
)

// AccessState is the authorization state of a Builder.
type AccessState int

const (
	Uninitialized AccessState = iota
	Authorized
	Denied
)

func (s AccessState) String() string {
	switch s {
	case Authorized:
		return "authorized"
	case Denied:
		return "denied"
	}
	return "uninitialized"
}

// Query labels used for logs and metrics of the two non-quantity fetches.
const (
	ecgQuery   = "electrocardiogram"
	sleepQuery = "sleepAnalysis"
)

// Builder fills a Store with the latest formatted value of every catalog
// metric, plus ECG and sleep totals, read from a health source.
type Builder struct {
	identity string
	Started  int64

	source  source.Source
	store   *Store
	metrics *metrics.Metrics

	mu    sync.RWMutex
	state AccessState

	accessOnce sync.Once
	accessErr  error

	startOnce sync.Once
	startDone <-chan struct{}
	startErr  error
}

// NewBuilder creates a builder writing into store. src may be nil when only
// the offline snapshot is used.
func NewBuilder(src source.Source, store *Store, m *metrics.Metrics) *Builder {
	return &Builder{
		source:  src,
		store:   store,
		metrics: m,
		Started: time.Now().Unix(),
	}
}

// Info sets the identity string shown in Dump output.
func (b *Builder) Info(identity string) {
	if len(identity) == 0 {
		b.identity = "identity unset"
	} else {
		b.identity = identity
	}
}

// Identity returns the string set by Info.
func (b *Builder) Identity() string {
	return b.identity
}

// State returns the current authorization state.
func (b *Builder) State() AccessState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

func (b *Builder) setState(s AccessState) {
	b.mu.Lock()
	b.state = s
	b.mu.Unlock()
}

// Store returns the snapshot store the builder writes into.
func (b *Builder) Store() *Store {
	return b.store
}

// Snapshot returns a copy of the current snapshot.
func (b *Builder) Snapshot() map[string]string {
	return b.store.Snapshot()
}

// Start populates the store. In simulation mode, or with no source, the
// offline snapshot is used and no authorization is requested. Otherwise read
// access is requested and, when granted, every fetch is issued. Only the first
// call against a source does this; later and concurrent calls share its
// channel and error. The returned channel closes once all fetch results are
// applied.
func (b *Builder) Start(ctx context.Context) (<-chan struct{}, error) {
	if config.IsSimulationMode(ctx) || b.source == nil {
		config.LogInfo(ctx, "using offline snapshot")
		return b.store.Replace(OfflineSnapshot()), nil
	}

	b.startOnce.Do(func() {
		if err := b.RequestAccess(ctx); err != nil {
			b.startErr = err
			return
		}
		b.startDone, b.startErr = b.FetchAll(ctx)
	})
	return b.startDone, b.startErr
}

// RequestAccess asks the source for read access to every catalog type.
// Access is requested once. Concurrent callers wait for that request, and
// every caller gets its outcome.
func (b *Builder) RequestAccess(ctx context.Context) error {
	if b.source == nil {
		return ErrNoSource
	}

	b.accessOnce.Do(func() {
		b.accessErr = b.requestAccess(ctx)
	})
	return b.accessErr
}

func (b *Builder) requestAccess(ctx context.Context) error {
	err := b.source.RequestAuthorization(ctx, catalog.ReadTypes())
	if err != nil {
		b.setState(Denied)
		if errors.Is(err, source.ErrAuthorizationDenied) {
			b.metrics.ObserveAuthorization(metrics.OutcomeDenied)
		} else {
			b.metrics.ObserveAuthorization(metrics.OutcomeError)
		}
		config.LogError(ctx, "authorization failed", zap.Error(err))
		return fmt.Errorf("authorization failed: %w", err)
	}

	b.setState(Authorized)
	b.metrics.ObserveAuthorization(metrics.OutcomeGranted)
	config.LogInfo(ctx, "authorization granted")
	return nil
}

// FetchAll issues one fetch per catalog metric plus the ECG and sleep
// fetches, each on its own goroutine. Fetches are independent: a failure is
// written as "N/A" for its own keys only, and cancelling ctx does not stop
// fetches already issued. The returned channel closes when every result has
// been applied to the store.
func (b *Builder) FetchAll(ctx context.Context) (<-chan struct{}, error) {
	if b.State() != Authorized {
		return nil, ErrNotAuthorized
	}
	ctx = context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	run := func(query string, keys []string, fetch func(context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer b.recoverFetch(ctx, query, keys)
			fetch(ctx)
		}()
	}

	for _, desc := range catalog.Quantities() {
		run(string(desc.ID), []string{desc.DisplayName}, func(ctx context.Context) {
			b.FetchLatest(ctx, desc)
		})
	}
	run(ecgQuery, []string{catalog.ECGClassificationKey, catalog.ECGHeartRateKey}, b.FetchECG)
	run(sleepQuery, []string{catalog.TotalSleepKey}, b.FetchSleep)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	return done, nil
}

// recoverFetch turns a panicking source into "N/A" for the fetch's keys.
func (b *Builder) recoverFetch(ctx context.Context, query string, keys []string) {
	r := recover()
	if r == nil {
		return
	}
	config.LogError(ctx, "fetch panicked", zap.String("query", query), zap.Any("panic", r))
	b.metrics.ObserveQuery(query, metrics.OutcomeError, 0)
	for _, k := range keys {
		<-b.store.Apply(k, format.NotAvailable)
	}
}

// FetchLatest reads the most recent sample of one metric and writes it in
// the catalog unit with two decimals, or "N/A" when there is no usable
// sample.
func (b *Builder) FetchLatest(ctx context.Context, desc catalog.MetricDescriptor) {
	start := time.Now()
	query := string(desc.ID)

	samples, err := b.source.QueryQuantity(ctx, source.Query{
		Type:  desc.ID.SampleType(),
		Limit: 1,
		Sort:  source.SortStartDescending,
	})

	value := format.NotAvailable
	outcome := metrics.OutcomeEmpty

	switch {
	case err != nil:
		outcome = metrics.OutcomeError
		config.LogError(ctx, "quantity query failed", zap.String("metric", query), zap.Error(err))
	case len(samples) > 0:
		v, convErr := samples[0].Quantity.In(catalog.UnitFor(desc.ID))
		if convErr != nil {
			outcome = metrics.OutcomeError
			config.LogError(ctx, "unit conversion failed", zap.String("metric", query), zap.Error(convErr))
			break
		}
		value = format.Fixed2(v)
		outcome = metrics.OutcomeSample
	default:
		config.LogDebug(ctx, "no samples", zap.String("metric", query))
	}

	b.metrics.ObserveQuery(query, outcome, time.Since(start))
	<-b.store.Apply(desc.DisplayName, value)
}

// FetchECG reads every ECG recording and writes the classification and
// average heart rate of the most recent one. With no recordings, or on
// error, both keys are "N/A".
func (b *Builder) FetchECG(ctx context.Context) {
	start := time.Now()

	recordings, err := b.source.QueryElectrocardiograms(ctx, source.Query{
		Type:  catalog.Electrocardiogram,
		Limit: source.NoLimit,
		Sort:  source.SortNone,
	})

	classification, heartRate := format.NotAvailable, format.NotAvailable
	outcome := metrics.OutcomeEmpty

	switch {
	case err != nil:
		outcome = metrics.OutcomeError
		config.LogError(ctx, "electrocardiogram query failed", zap.Error(err))
	case len(recordings) > 0:
		latest := LatestRecording(recordings)
		classification = latest.Classification.String()
		heartRate = format.BPM(b.averageHeartRate(ctx, latest))
		outcome = metrics.OutcomeSample
	}

	b.metrics.ObserveQuery(ecgQuery, outcome, time.Since(start))
	classified := b.store.Apply(catalog.ECGClassificationKey, classification)
	rated := b.store.Apply(catalog.ECGHeartRateKey, heartRate)
	<-classified
	<-rated
}

func (b *Builder) averageHeartRate(ctx context.Context, ecg source.Electrocardiogram) float64 {
	if ecg.AverageHeartRate == nil {
		return 0
	}
	v, err := ecg.AverageHeartRate.In(units.CountPerMinute)
	if err != nil {
		config.LogError(ctx, "ecg heart rate conversion failed", zap.Error(err))
		return 0
	}
	return v
}

// LatestRecording returns the recording with the latest start. Equal starts
// resolve to the one iterated last. recordings must not be empty.
func LatestRecording(recordings []source.Electrocardiogram) source.Electrocardiogram {
	latest := recordings[0]
	for _, r := range recordings[1:] {
		if !r.Start.Before(latest.Start) {
			latest = r
		}
	}
	return latest
}

// FetchSleep sums the asleep time of every sleep-analysis sample and writes
// it as hours and minutes. No samples gives "0h 0m".
func (b *Builder) FetchSleep(ctx context.Context) {
	start := time.Now()

	samples, err := b.source.QueryCategory(ctx, source.Query{
		Type:  catalog.SleepAnalysis,
		Limit: source.NoLimit,
		Sort:  source.SortStartDescending,
	})

	value := format.NotAvailable
	outcome := metrics.OutcomeError

	if err != nil {
		config.LogError(ctx, "sleep analysis query failed", zap.Error(err))
	} else {
		value = format.FormatDuration(TotalSleep(samples))
		outcome = metrics.OutcomeSample
		if len(samples) == 0 {
			outcome = metrics.OutcomeEmpty
		}
	}

	b.metrics.ObserveQuery(sleepQuery, outcome, time.Since(start))
	<-b.store.Apply(catalog.TotalSleepKey, value)
}

// TotalSleep sums End-Start over samples in the asleep state. In-bed, awake
// and staged samples are excluded.
func TotalSleep(samples []source.CategorySample) time.Duration {
	var total time.Duration
	for _, s := range samples {
		if s.Value == source.SleepAsleep {
			total += s.Duration()
		}
	}
	return total
}

// OfflineSnapshot returns the fixed snapshot used when no health source is
// available. Each call returns a new map with the same content.
func OfflineSnapshot() map[string]string {
	return map[string]string{
		"Heart Rate":                 "72 bpm",
		"Systolic Blood Pressure":    "120 mmHg",
		"Diastolic Blood Pressure":   "80 mmHg",
		"Blood Glucose":              "90 mg/dL",
		"Oxygen Saturation":          "98%",
		"Body Temperature":           "36.5 °C",
		"Respiratory Rate":           "16 breaths/min",
		"Resting Heart Rate":         "60 bpm",
		"VO2 Max":                    "45 mL/kg·min",
		"Body Mass":                  "70 kg",
		"Height":                     "1.75 m",
		"Active Energy Burned":       "500 kcal",
		"Dietary Energy Consumed":    "2000 kcal",
		catalog.ECGClassificationKey: "Sinus Rhythm",
		catalog.ECGHeartRateKey:      "72 bpm",
		catalog.TotalSleepKey:        "7h 30m",
	}
}

// Dump returns a JSON string of the identity, authorization state and
// current snapshot.
func (b *Builder) Dump() string {
	output := map[string]interface{}{
		"Identity": b.identity,
		"Started":  b.Started,
		"State":    b.State().String(),
		"Snapshot": b.store.Snapshot(),
	}

	data, err := json.MarshalIndent(output, "", "    ")
	if err != nil {
		config.LogError(context.Background(), "JSON marshalling failed", zap.Error(err))
		return "{}"
	}

	return string(data)
}

// Close stops the store. The source is owned by the caller.
func (b *Builder) Close() error {
	b.store.Close()
	return nil
}
