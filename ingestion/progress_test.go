package ingestion

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker_Basic(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, "archive 0001/bge-m3", 10)

	tracker.Start()
	assert.True(t, tracker.started, "should be started")

	tracker.Increment(25)
	tracker.Increment(25)

	elapsed := tracker.Elapsed()
	assert.Greater(t, elapsed, time.Duration(0), "elapsed time should be positive")
	assert.Equal(t, 50, tracker.Current())

	output := buf.String()
	assert.Contains(t, output, "archive 0001/bge-m3", "should carry the lane label")
	assert.Contains(t, output, "50 records", "should show the running count")
}

func TestProgressTracker_ReportInterval(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, "lane", 100)

	tracker.Start()
	tracker.Increment(50)
	assert.Empty(t, buf.String(), "should not report below the interval")

	tracker.Increment(50)
	assert.Contains(t, buf.String(), "100 records", "should report once the interval is crossed")
}

func TestProgressTracker_Finish(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, "lane", 10)

	tracker.Start()
	tracker.Increment(7)
	tracker.Finish()

	output := buf.String()
	assert.Contains(t, output, "7 records", "finish should report the final count")
	assert.Contains(t, output, "\n", "finish should print newline")
}

func TestProgressTracker_NotStarted(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, "lane", 1)

	tracker.Increment(5)
	tracker.Finish()

	assert.Empty(t, buf.String(), "should ignore updates before Start")
	assert.Equal(t, time.Duration(0), tracker.Elapsed())
}
