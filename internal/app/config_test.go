package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Stages(t *testing.T) {
	tests := []struct {
		name string
		in   []Stage
		want []Stage
	}{
		{"default is every stage", nil, AllStages},
		{"reordered into pipeline order", []Stage{StageEmit, StagePack}, []Stage{StagePack, StageEmit}},
		{"duplicates collapse", []Stage{StageUpload, StageUpload}, []Stage{StageUpload}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewConfig(Config{Stages: tt.in})
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Stages)
		})
	}
}

func TestNewConfig_Rejects(t *testing.T) {
	_, err := NewConfig(Config{Stages: []Stage{"deploy"}})
	assert.Error(t, err)
	_, err = NewConfig(Config{WorkerCount: -1})
	assert.Error(t, err)
}

func TestParseStage(t *testing.T) {
	st, err := ParseStage(" Upload ")
	require.NoError(t, err)
	assert.Equal(t, StageUpload, st)
	_, err = ParseStage("publish")
	assert.ErrorContains(t, err, "unknown stage")
}
