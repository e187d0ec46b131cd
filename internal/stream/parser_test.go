package stream

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectFrames(t *testing.T, input string) []frame {
	t.Helper()
	var frames []frame
	err := readFrames(strings.NewReader(input), func(f frame) {
		frames = append(frames, f)
	})
	require.ErrorIs(t, err, io.EOF)
	return frames
}

func TestReadFrames_Basic(t *testing.T) {
	input := "id: 7\n" +
		"event: notification\n" +
		"data: {\"code\":\"CONFLICT_DETECTED\"}\n" +
		"\n" +
		"data: {\"code\":\"EXPORT_EMPTY\"}\n" +
		"\n"

	frames := collectFrames(t, input)
	require.Len(t, frames, 2)
	assert.Equal(t, "7", frames[0].id)
	assert.Equal(t, "notification", frames[0].event)
	assert.Equal(t, `{"code":"CONFLICT_DETECTED"}`, string(frames[0].data))

	// Field state does not leak between frames.
	assert.Empty(t, frames[1].id)
	assert.Empty(t, frames[1].event)
}

func TestReadFrames_CommentsAndUnknownFields(t *testing.T) {
	input := ": keepalive\n" +
		"retry: 3000\n" +
		"data: hello\n" +
		": another comment\n" +
		"\n"

	frames := collectFrames(t, input)
	require.Len(t, frames, 1)
	assert.Equal(t, "hello", string(frames[0].data))
}

func TestReadFrames_MultilineData(t *testing.T) {
	frames := collectFrames(t, "data: line one\ndata: line two\n\n")
	require.Len(t, frames, 1)
	assert.Equal(t, "line one\nline two", string(frames[0].data))
}

func TestReadFrames_NoDataNeverDispatches(t *testing.T) {
	frames := collectFrames(t, "id: 4\nevent: notification\n\n")
	assert.Empty(t, frames)
}

func TestReadFrames_FinalFrameWithoutTrailingBlank(t *testing.T) {
	frames := collectFrames(t, "data: tail")
	require.Len(t, frames, 1)
	assert.Equal(t, "tail", string(frames[0].data))
}
