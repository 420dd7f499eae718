package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseOverlay(t *testing.T) {
	cases := map[string]float64{
		"":     DefaultOverlay,
		"abc":  DefaultOverlay,
		"NaN":  DefaultOverlay,
		"Inf":  DefaultOverlay,
		"0.5":  0.5,
		" 1 ":  1,
		"0.86": 0.86,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseOverlay(in), "input %q", in)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "Plans Board", cfg.Board.Title)
	assert.Equal(t, "default-board", cfg.Board.Slug)
	assert.Equal(t, "center", cfg.Board.BGPosition)
	assert.Equal(t, DefaultOverlay, cfg.Board.BGOverlay)
	assert.Equal(t, 5*time.Minute, cfg.RedisTTL)
	assert.Equal(t, "plans:changes", cfg.RedisChannel)
}

func TestLoadConfig_BoardFromEnv(t *testing.T) {
	t.Setenv("BOARD_TITLE", "Itxi & Canos")
	t.Setenv("BOARD_SLUG", "itxi")
	t.Setenv("NEXT_PUBLIC_BG_IMAGE", "/bg-itxi.jpg")
	t.Setenv("BG_OVERLAY", "not-a-number")
	t.Setenv("REDIS_TTL", "bogus")
	t.Setenv("FRONTEND_URL", "http://a.test, http://b.test ,")

	cfg := LoadConfig()

	assert.Equal(t, "Itxi & Canos", cfg.Board.Title)
	assert.Equal(t, "itxi", cfg.Board.Slug)
	assert.Equal(t, "/bg-itxi.jpg", cfg.Board.BGImage)
	assert.Equal(t, DefaultOverlay, cfg.Board.BGOverlay)
	assert.Equal(t, 5*time.Minute, cfg.RedisTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.FrontendOrigin)
}

func TestWebSocketURL(t *testing.T) {
	cfg := Config{APIURL: "https://plans.example.com"}
	assert.Equal(t, "wss://plans.example.com/ws", cfg.WebSocketURL())

	cfg.APIURL = "http://localhost:8080"
	assert.Equal(t, "ws://localhost:8080/ws", cfg.WebSocketURL())
}
