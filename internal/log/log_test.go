package log

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoggerDeliversToSink(t *testing.T) {
	var got []Entry
	l := New(func(e Entry) { got = append(got, e) })

	l.Warn().Src("recorder.recover").Msgf("using fallback parameter set: %d", 7)

	require.Len(t, got, 1)
	require.Equal(t, LevelWarning, got[0].Level)
	require.Equal(t, "recorder.recover", got[0].Src)
	require.Equal(t, "using fallback parameter set: 7", got[0].Msg)
}

func TestNilLoggerDiscardsSilently(t *testing.T) {
	var l *Logger
	require.NotPanics(t, func() {
		l.Warn().Src("x").Msg("should be discarded")
	})
}
