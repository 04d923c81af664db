package config

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocationDefault(t *testing.T) {
	cfg := ServerConfig{}
	assert.Equal(t, time.Local, cfg.Location())
}

func TestLocationInvalidFallsBack(t *testing.T) {
	cfg := ServerConfig{Timezone: "Not/AZone"}
	assert.Equal(t, time.Local, cfg.Location())
}

func TestLocationValid(t *testing.T) {
	cfg := ServerConfig{Timezone: "Asia/Shanghai"}
	loc := cfg.Location()
	assert.Equal(t, "Asia/Shanghai", loc.String())
}

func TestApplyReloadable(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Timezone: "Asia/Shanghai"},
		Gate:   GateConfig{AppHost: "habitloop.app"},
	}
	cfg.ApplyReloadable(&Config{
		Server: ServerConfig{Timezone: "UTC"},
		Gate:   GateConfig{AppHost: "new.habitloop.app", BlockPageURL: "/blocked.html"},
	})

	assert.Equal(t, "UTC", cfg.Location().String())
	assert.Equal(t, "new.habitloop.app", cfg.GateSnapshot().AppHost)
	assert.Equal(t, "/blocked.html", cfg.GateSnapshot().BlockPageURL)
}

// 热加载协程覆盖配置的同时请求处理仍在读取，-race 下必须干净
func TestApplyReloadableConcurrent(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Timezone: "Asia/Shanghai"},
		Gate:   GateConfig{AppHost: "habitloop.app"},
	}
	next := &Config{
		Server: ServerConfig{Timezone: "UTC"},
		Gate:   GateConfig{AppHost: "habitloop.app"},
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			cfg.ApplyReloadable(next)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_ = cfg.Location()
			_ = cfg.GateSnapshot()
		}
	}()
	wg.Wait()

	assert.Equal(t, "habitloop.app", cfg.GateSnapshot().AppHost)
}
