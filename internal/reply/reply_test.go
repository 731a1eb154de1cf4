package reply

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCaptureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, nil)), &buf
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name       string
		visibility Visibility
		want       Message
		wantWarn   bool
	}{
		{
			name:       "ephemeral",
			visibility: Ephemeral,
			want:       Message{ResponseType: "ephemeral", Text: "some text"},
		},
		{
			name:       "in channel",
			visibility: InChannel,
			want:       Message{ResponseType: "in_channel", Text: "some text"},
		},
		{
			name:       "invalid falls back to ephemeral",
			visibility: Visibility("everyone"),
			want:       Message{ResponseType: "ephemeral", Text: "some text"},
			wantWarn:   true,
		},
		{
			name:       "unset defaults to ephemeral quietly",
			visibility: "",
			want:       Message{ResponseType: "ephemeral", Text: "some text"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newCaptureLogger()
			got := NewBuilder(logger).Build("some text", tt.visibility)
			assert.Equal(t, tt.want, got)

			if tt.wantWarn {
				var entry map[string]any
				require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
				assert.Equal(t, "WARN", entry["level"])
				assert.Equal(t, string(tt.visibility), entry["response_type"])
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestBuildZeroBuilder(t *testing.T) {
	var b *Builder
	assert.Equal(t, Message{ResponseType: "ephemeral", Text: "x"}, b.Build("x", "bogus"))
}

func TestMessageJSON(t *testing.T) {
	data, err := json.Marshal(NewBuilder(nil).Build("hi", InChannel))
	require.NoError(t, err)
	assert.JSONEq(t, `{"response_type":"in_channel","text":"hi"}`, string(data))
}

func TestNewVisibility(t *testing.T) {
	assert.Equal(t, InChannel, NewVisibility("in_channel", nil))
	assert.Equal(t, Ephemeral, NewVisibility("ephemeral", nil))
	assert.Equal(t, Ephemeral, NewVisibility("IN_CHANNEL", nil))
	assert.True(t, InChannel.Valid())
	assert.False(t, Visibility("channel").Valid())
}

func TestNewVisibilityUnsetLogsNothing(t *testing.T) {
	logger, buf := newCaptureLogger()
	assert.Equal(t, Ephemeral, NewVisibility("", logger))
	assert.Empty(t, buf.String())

	assert.Equal(t, Ephemeral, NewVisibility(" ", logger))
	assert.Contains(t, buf.String(), "unknown response type")
}
