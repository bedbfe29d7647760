package config

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCorrelationIdContext(t *testing.T) {

	var TestCases = []struct {
		description string
		value       string
	}{
		{
			description: "test set and get id",
			value:       "abc-123456-123456",
		},
	}

	for _, tc := range TestCases {

		ctx := SetContextCorrelationId(context.Background(), tc.value)
		result := GetContextCorrelationId(ctx)

		if !strings.Contains(result, tc.value) {
			t.Error(tc.description)
		}
	}
}

func TestAppendToCid(t *testing.T) {

	ctx := SetContextCorrelationId(context.Background(), "testId")
	if !strings.Contains(GetContextCorrelationId(ctx), "testId") {
		t.Error("initial cid")
	}

	ctx = AppendToContextCorrelationId(ctx, "someText")
	if !strings.Contains(GetContextCorrelationId(ctx), "testId-someText") {
		t.Error("appended cid")
	}
}

func TestMissingContextValues(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "no-id", GetContextCorrelationId(ctx))
	assert.Equal(t, int64(-1), GetContextTimeCreated(ctx))
	assert.False(t, GetContextDebug(ctx))
	assert.False(t, IsSimulationMode(ctx))
	assert.False(t, IsLogCollectionEnabled(ctx))
}

func TestSimulationMode(t *testing.T) {
	ctx := EnableSimulationMode(context.Background())
	assert.True(t, IsSimulationMode(ctx))
}

func TestLogCollectionConcurrent(t *testing.T) {
	SetLogger(zap.NewNop())

	ctx := EnableLogCollection(SetContextCorrelationId(context.Background(), "collect"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			LogInfo(ctx, "fetch complete")
		}()
	}
	wg.Wait()
	LogError(ctx, "authorization denied")

	logs := CollectedLogs(ctx)
	require.Len(t, logs, 21)
	assert.Equal(t, "ERROR", logs[20].Severity)
	assert.Contains(t, logs[20].CID, "collect")

	out, err := DumpLogsAsJSON(ctx)
	require.NoError(t, err)
	assert.Contains(t, out, "authorization denied")
}

func TestDumpLogsWithoutCollection(t *testing.T) {
	out, err := DumpLogsAsJSON(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
}
