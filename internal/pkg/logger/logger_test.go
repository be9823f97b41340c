package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRejectsUnknownLevel(t *testing.T) {
	err := Init(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestInitWritesLogFile(t *testing.T) {
	saved, savedLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = saved
		zerolog.SetGlobalLevel(savedLevel)
	})

	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, Init(Config{
		Level:         "debug",
		Format:        "json",
		FileEnabled:   true,
		Dir:           dir,
		RotationSize:  1,
		RetentionDays: 1,
		Command:       "test",
	}))
	log.Info().Msg("hello")

	raw, err := os.ReadFile(filepath.Join(dir, "featrank.log"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"command":"test"`)
	assert.Contains(t, string(raw), `"message":"hello"`)
}
