package config

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

type (
	CorrelationContextKey    string
	DebugContextKey          string
	TimeCreatedContextKey    string
	SimulationModeContextKey string
	LogCollectionContextKey  string
	CollectedLogsContextKey  string
)

type CollectedLog struct {
	Timestamp time.Time `json:"timestamp"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	CID       string    `json:"correlation_id"`
	ElapsedMs float64   `json:"elapsed_ms"`
}

// logCollector is shared by every goroutine holding the context, fetches
// log concurrently.
type logCollector struct {
	mu   sync.Mutex
	logs []CollectedLog
}

func SetContextCorrelationId(ctx context.Context, value string) context.Context {

	id := uuid.NewString()[:8]

	newctx := context.WithValue(ctx, CorrelationContextKey("cid"), fmt.Sprintf("%s-%s", id, value))

	// if the created time is unset then set it. test for -1 as 0 could be
	// a symptom of a default unset value
	t := GetContextTimeCreated(ctx)
	if t == -1 {
		newctx = context.WithValue(
			newctx,
			TimeCreatedContextKey("timeCreated"),
			time.Now().Unix())
	}

	newctx = context.WithValue(newctx, DebugContextKey("debug"), BoolValue("HEALTHVIEW_DEBUG"))

	return newctx
}

func GetContextTimeCreated(ctx context.Context) int64 {

	key := TimeCreatedContextKey("timeCreated")

	if v := ctx.Value(key); v != nil {
		return v.(int64)
	}
	return -1
}

func AppendToContextCorrelationId(ctx context.Context, value string) context.Context {
	key := CorrelationContextKey("cid")
	id := GetContextCorrelationId(ctx)
	newctx := context.WithValue(ctx, key, id+"-"+value)
	return newctx
}

func GetContextCorrelationId(ctx context.Context) string {

	key := CorrelationContextKey("cid")

	if v := ctx.Value(key); v != nil {
		return v.(string)
	}

	return "no-id"
}

func GetContextDebug(ctx context.Context) bool {

	key := DebugContextKey("debug")

	if v := ctx.Value(key); v != nil {
		return v.(bool)
	}

	return false
}

// Simulation mode replaces the health source with the fixed offline snapshot.
func EnableSimulationMode(ctx context.Context) context.Context {
	return context.WithValue(ctx, SimulationModeContextKey("simulation_mode"), true)
}

func IsSimulationMode(ctx context.Context) bool {
	if v := ctx.Value(SimulationModeContextKey("simulation_mode")); v != nil {
		return v.(bool)
	}
	return false
}

// Log Collection Functions
func EnableLogCollection(ctx context.Context) context.Context {
	ctx = context.WithValue(ctx, LogCollectionContextKey("collect"), true)
	ctx = context.WithValue(ctx, CollectedLogsContextKey("logs"), &logCollector{})
	return ctx
}

func IsLogCollectionEnabled(ctx context.Context) bool {
	if v := ctx.Value(LogCollectionContextKey("collect")); v != nil {
		return v.(bool)
	}
	return false
}

// CollectedLogs returns a copy of the logs gathered so far.
func CollectedLogs(ctx context.Context) []CollectedLog {
	c, ok := ctx.Value(CollectedLogsContextKey("logs")).(*logCollector)
	if !ok {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]CollectedLog(nil), c.logs...)
}

func DumpLogsAsJSON(ctx context.Context) (string, error) {
	if _, ok := ctx.Value(CollectedLogsContextKey("logs")).(*logCollector); !ok {
		return "[]", nil
	}
	jsonData, err := json.Marshal(CollectedLogs(ctx))
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func collect(ctx context.Context, entry CollectedLog) {
	c, ok := ctx.Value(CollectedLogsContextKey("logs")).(*logCollector)
	if !ok {
		return
	}
	c.mu.Lock()
	c.logs = append(c.logs, entry)
	c.mu.Unlock()
}
