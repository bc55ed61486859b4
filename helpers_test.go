package emotext

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsawler/emotext/internal/logging"
)

func quietLogger() *slog.Logger {
	return logging.New(io.Discard, slog.LevelError)
}

// fixture is a small corpus where every class has its own keyword.
func fixture() Dataset {
	return Dataset{
		{"I am happy", Happy},
		{"so happy and cheerful", Happy},
		{"happy joyful smile", Happy},
		{"happy with the gift", Happy},
		{"what a happy moment", Happy},
		{"happy delighted laugh", Happy},
		{"happy sunshine party", Happy},
		{"happy grin", Happy},

		{"I am sad", Sad},
		{"sad and lonely", Sad},
		{"so sad crying", Sad},
		{"sad tears", Sad},
		{"sad gloomy evening", Sad},
		{"sad grief loss", Sad},
		{"sad heartbroken", Sad},
		{"sad miserable", Sad},

		{"I am angry", Angry},
		{"angry furious", Angry},
		{"so angry rage", Angry},
		{"angry shouting", Angry},
		{"angry annoyed", Angry},
		{"angry outraged", Angry},
		{"furious angry driver", Angry},
		{"angry livid", Angry},

		{"I am scared", Fear},
		{"scared terrified", Fear},
		{"scared frightened", Fear},
		{"scared nervous", Fear},
		{"scared panic", Fear},
		{"scared dark", Fear},
		{"terrified scared spiders", Fear},
		{"scared trembling", Fear},

		{"ordinary routine", Neutral},
		{"routine meeting", Neutral},
		{"ordinary errands", Neutral},
		{"routine paperwork", Neutral},
		{"ordinary schedule", Neutral},
		{"routine commute", Neutral},
		{"ordinary weather report", Neutral},
		{"routine update", Neutral},
	}
}

// fullConfig trains on every sample so results do not depend on the split.
func fullConfig() TrainingConfig {
	cfg := DefaultTrainingConfig()
	cfg.TestSize = 0
	cfg.Logger = quietLogger()
	return cfg
}

func trainedDetector(t *testing.T, cfg TrainingConfig) *Detector {
	t.Helper()
	model, _, err := ModelFromData("test", fixture(), cfg)
	require.NoError(t, err)
	d, err := NewDetector(model, WithLogger(quietLogger()))
	require.NoError(t, err)
	return d
}
