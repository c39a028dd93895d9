package notify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bufferLines struct {
	lines []string
}

func (b *bufferLines) WriteLine(line string) error {
	b.lines = append(b.lines, line)
	return nil
}

func TestEvents(t *testing.T) {
	w := &bufferLines{}
	events := NewEvents(w)

	events.Info("Connected to example.com")
	events.Warn("Worker exited unexpectedly, reconnecting")
	events.Error("upload a.txt failed:\nno such file")

	assert.Equal(t, []string{
		"event info Connected to example.com",
		"event warn Worker exited unexpectedly, reconnecting",
		"event error upload a.txt failed: no such file",
	}, w.lines)
}

func TestConsole(t *testing.T) {
	var out bytes.Buffer
	console := NewConsole(&out)

	console.Error("boom")
	console.Info("hello")

	assert.Contains(t, out.String(), "boom")
	assert.Contains(t, out.String(), "hello")
	assert.Equal(t, 2, bytes.Count(out.Bytes(), []byte("\n")))
}

func TestChannel_DropsWhenFull(t *testing.T) {
	ch := NewChannel(1)

	ch.Info("first")
	ch.Error("second")

	require.Len(t, ch.Messages(), 1)
	msg := <-ch.Messages()
	assert.Equal(t, Message{Level: LevelInfo, Text: "first"}, msg)
}
