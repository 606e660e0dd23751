package logger

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLogBufferConcurrentAccess(t *testing.T) {
	spillFile := filepath.Join(t.TempDir(), "test_spill.log")

	buffer, err := NewLogBuffer(100, spillFile)
	require.NoError(t, err)
	defer buffer.Close()

	done := buffer.StartPeriodicFlush(50*time.Millisecond, zap.NewNop())
	defer close(done)

	var wg sync.WaitGroup
	numGoroutines := 10
	logsPerGoroutine := 100

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < logsPerGoroutine; j++ {
				fields := map[string]interface{}{
					"goroutine": id,
					"iteration": j,
				}
				err := buffer.Add("INFO", fmt.Sprintf("Log from goroutine %d, iteration %d", id, j), fields)
				if err != nil {
					t.Errorf("Failed to add log: %v", err)
				}
			}
		}(i)
	}

	// Concurrent reads
	go func() {
		for i := 0; i < 50; i++ {
			_ = buffer.GetRecentLogs(10)
			time.Sleep(time.Millisecond)
		}
	}()

	wg.Wait()

	require.NoError(t, buffer.Flush())

	total, spilled := buffer.GetStats()
	assert.Equal(t, uint64(numGoroutines*logsPerGoroutine), total)
	assert.Greater(t, spilled, uint64(0))
}

func TestLogBufferRecentOrder(t *testing.T) {
	spillFile := filepath.Join(t.TempDir(), "spill.log")

	buffer, err := NewLogBuffer(4, spillFile)
	require.NoError(t, err)
	defer buffer.Close()

	for i := 0; i < 6; i++ {
		require.NoError(t, buffer.Add("INFO", fmt.Sprintf("entry %d", i), nil))
	}

	logs := buffer.GetRecentLogs(0)
	require.Len(t, logs, 4)
	assert.Equal(t, "entry 2", logs[0].Message)
	assert.Equal(t, "entry 5", logs[len(logs)-1].Message)

	limited := buffer.GetRecentLogs(2)
	require.Len(t, limited, 2)
	assert.Equal(t, "entry 4", limited[0].Message)
	assert.Equal(t, "entry 5", limited[1].Message)
}

func TestBufferCoreMirrorsEntries(t *testing.T) {
	spillFile := filepath.Join(t.TempDir(), "spill.log")

	buffer, err := NewLogBuffer(16, spillFile)
	require.NoError(t, err)
	defer buffer.Close()

	log, err := CreatePrettyLogger(true, buffer)
	require.NoError(t, err)

	log.Info("contribution submitted", zap.String("mint", "So11111111111111111111111111111111111111112"))

	logs := buffer.GetRecentLogs(0)
	require.Len(t, logs, 1)
	assert.Equal(t, "contribution submitted", logs[0].Message)
	assert.Equal(t, "So11111111111111111111111111111111111111112", logs[0].Fields["mint"])
}

func TestTUILoggerNotifiesListener(t *testing.T) {
	spillFile := filepath.Join(t.TempDir(), "spill.log")

	buffer, err := NewLogBuffer(16, spillFile)
	require.NoError(t, err)
	defer buffer.Close()

	var levels []zapcore.Level
	var messages []string
	log, err := CreateTUILogger(true, buffer, func(level zapcore.Level, message string, fields map[string]interface{}) {
		levels = append(levels, level)
		messages = append(messages, message)
	})
	require.NoError(t, err)

	log.Warn("reserve lookup failed")

	require.Len(t, messages, 1)
	assert.Equal(t, zapcore.WarnLevel, levels[0])
	assert.Equal(t, "reserve lookup failed", messages[0])
}
