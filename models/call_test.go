package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCallType(t *testing.T) {
	cases := map[string]CallType{
		"audio": CallTypeAudio,
		"video": CallTypeVideo,
		"":      CallTypeVideo,
		"Audio": CallTypeVideo, // birebir eşleşme dışında her şey video
		"AUDIO": CallTypeVideo,
		"voice": CallTypeVideo,
	}

	for raw, want := range cases {
		assert.Equal(t, want, NormalizeCallType(raw), "raw=%q", raw)
	}
}

func TestClampCallDuration(t *testing.T) {
	assert.Equal(t, 0, ClampCallDuration(-1))
	assert.Equal(t, 0, ClampCallDuration(0))
	assert.Equal(t, 125, ClampCallDuration(125))
	assert.Equal(t, MaxCallDurationSeconds, ClampCallDuration(MaxCallDurationSeconds))
	assert.Equal(t, MaxCallDurationSeconds, ClampCallDuration(MaxCallDurationSeconds+1))
}
