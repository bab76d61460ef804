package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/tacbot/internal/bot"
	"github.com/Garsondee/tacbot/internal/nav"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_DefaultValues(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", c.Log.Level)
	assert.True(t, c.Log.Console)
	assert.Equal(t, 10.0, c.Bot.UpdateRate)
	assert.Equal(t, 30.0, c.Bot.TickRate)
	assert.Equal(t, "normal", c.Bot.Difficulty)
	assert.Equal(t, "normal", c.Bot.Chatter)
	assert.True(t, c.Bot.AllowSnipers)
	assert.False(t, c.Bot.DefuserPerfectKnowledge)
	assert.Equal(t, nav.DefaultDangerDecay, c.Nav.DangerDecayPerSecond)
	assert.Equal(t, 10.0, c.Nav.JitterBucketSeconds)
	assert.Equal(t, "none", c.Journal.Driver)
	assert.False(t, c.Metrics.Enabled)
}

func TestLoad_WithJSONFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "tacbot.json", `{
		"log": {"level": "debug"},
		"bot": {"difficulty": "Expert", "chatter": "radio", "updateRate": 20},
		"journal": {"driver": "sqlite", "dsn": "file::memory:"}
	}`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "expert", c.Bot.Difficulty)
	assert.Equal(t, "radio", c.Bot.Chatter)
	assert.Equal(t, 20.0, c.Bot.UpdateRate)
	assert.Equal(t, 30.0, c.Bot.TickRate, "unset keys keep their defaults")
	assert.Equal(t, "sqlite", c.Journal.Driver)
}

func TestLoad_WithYAMLFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "tacbot.yaml", "bot:\n  chatter: minimal\nnav:\n  jitterBucketSeconds: 4\n")
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "minimal", c.Bot.Chatter)
	assert.Equal(t, 4.0, c.Nav.JitterBucketSeconds)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("TACBOT_BOT_CHATTER", "off")
	t.Setenv("TACBOT_METRICS_ENABLED", "true")
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "off", c.Bot.Chatter)
	assert.True(t, c.Metrics.Enabled)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/tacbot.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.json", `{
		"bot": {"updateRate": 0, "tickRate": -1, "difficulty": "godlike", "chatter": "shouty"},
		"journal": {"driver": "mongo"}
	}`)
	_, err := Load(path)
	require.ErrorIs(t, err, ErrInvalid)
	for _, want := range []string{"bot.updateRate", "bot.tickRate", "godlike", "shouty", "mongo"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestBotSettings(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	c.Bot.Difficulty = "hard"
	c.Bot.Chatter = "minimal"
	c.Bot.MaxVisionDistance = 3000
	require.NoError(t, c.Validate())

	s := c.BotSettings()
	assert.Equal(t, bot.DifficultyHard, s.Difficulty)
	assert.Equal(t, bot.ChatterMinimal, s.Chatter)
	assert.Equal(t, 3000.0, s.MaxVisionDistance)
	assert.Equal(t, c.Nav.DangerDecayPerSecond, s.DangerDecayPerSecond)
	assert.Equal(t, c.Bot.UpdateRate, s.UpdateRate)
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := writeFile(t, t.TempDir(), "tacbot.yaml", "bot:\n  chatter: normal\n")
	v, err := New(path)
	require.NoError(t, err)

	got := make(chan *Config, 16)
	Watch(v, func(c *Config, err error) {
		if err == nil {
			got <- c
		}
	})
	require.NoError(t, os.WriteFile(path, []byte("bot:\n  chatter: radio\n"), 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-got:
			if c.Bot.Chatter == "radio" {
				return
			}
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}
}
