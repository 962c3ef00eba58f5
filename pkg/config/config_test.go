package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/torque2d/pkg/physics"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	require.NoError(t, config.Validate())
	assert.Equal(t, 60, config.TickRate)
	assert.Len(t, config.Bodies, 2)

	bodies, err := config.BuildBodies()
	require.NoError(t, err)
	require.Len(t, bodies, 2)

	wide := bodies[0]
	assert.Nil(t, wide.Tuggers[physics.LiveSlot], "the live slot starts empty")
	require.NotNil(t, wide.Tuggers[1])
	require.NotNil(t, wide.Tuggers[2])
	assert.Nil(t, wide.Tuggers[3])
	assert.Equal(t, physics.Vector2D{X: 190, Y: 100}, wide.Tuggers[1].Target)
}

func TestSaveLoad_RoundTripAllFormats(t *testing.T) {
	for _, ext := range []string{".json", ".yaml", ".yml", ".toml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "scene"+ext)
			original := DefaultConfig()

			require.NoError(t, SaveConfig(original, path))
			loaded, err := LoadConfig(path)
			require.NoError(t, err)

			assert.Equal(t, original, loaded)
		})
	}
}

func TestLoadConfig_YAMLFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	yamlDoc := `
name: single
tick_rate: 30
gravity: {x: 0, y: 0.2}
window: {title: demo, width: 640, height: 480}
bodies:
  - name: box
    coefficients:
      linear: {accel_scalar: 1, linear_friction: 0.9, constant_friction: 0.1}
      angular: {accel_scalar: 0.5, linear_friction: 0.8, constant_friction: 0.01}
    pose: {position: {x: 100, y: 50}, angle: 0.25}
    extent: {x: 20, y: 10}
    max_tug_distance: 12
    ropes:
      - anchor: {length: 10, angle: 1.5}
        target: {x: 100, y: 0}
        suspended: true
`
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 30, cfg.TickRate)
	assert.Equal(t, physics.Vector2D{Y: 0.2}, cfg.Gravity)
	require.Len(t, cfg.Bodies, 1)
	b := cfg.Bodies[0]
	assert.Equal(t, 0.8, b.Coefficients.Angular.LinearFriction)
	assert.Equal(t, physics.KinematicState{Position: physics.Vector2D{X: 100, Y: 50}, Angle: 0.25}, b.Pose)
	require.Len(t, b.Ropes, 1)
	assert.True(t, b.Ropes[0].Suspended)
	assert.Equal(t, physics.LengthAngle{Length: 10, Angle: 1.5}, b.Ropes[0].Anchor)
}

func TestLoadConfig_NonFiniteYAMLIsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	yamlDoc := `
tick_rate: 60
gravity: {x: .nan, y: 0}
window: {width: 100, height: 100}
bodies:
  - coefficients:
      linear: {linear_friction: 1}
      angular: {linear_friction: 1}
    max_tug_distance: 5
    ropes:
      - anchor: {length: 1, angle: .nan}
`
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	_, err = cfg.BuildBodies()
	assert.ErrorIs(t, err, ErrInvalidScene)

	cfg.Gravity.X = 0
	_, err = cfg.BuildBodies()
	assert.ErrorIs(t, err, ErrInvalidScene)
	assert.ErrorIs(t, err, physics.ErrInvalidBody)
}

func TestLoadConfig_TOMLFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.toml")
	tomlDoc := `
name = "single"
tick_rate = 120

[gravity]
x = 0.0
y = 0.5

[window]
title = "demo"
width = 320
height = 240

[[bodies]]
name = "box"
max_tug_distance = 5.0

[bodies.extent]
x = 4.0
y = 4.0

[bodies.coefficients.linear]
accel_scalar = 1.0
linear_friction = 1.0
constant_friction = 0.0

[bodies.coefficients.angular]
accel_scalar = 1.0
linear_friction = 1.0
constant_friction = 0.0
`
	require.NoError(t, os.WriteFile(path, []byte(tomlDoc), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 120, cfg.TickRate)
	assert.Equal(t, 5.0, cfg.Bodies[0].MaxTugDistance)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConfig(filepath.Join(dir, "scene.ini"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"tickRate": "fast"`), 0o644))
	_, err = LoadConfig(broken)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestSaveConfig_Errors(t *testing.T) {
	assert.ErrorIs(t, SaveConfig(nil, filepath.Join(t.TempDir(), "x.json")), ErrInvalidScene)
	assert.ErrorIs(t, SaveConfig(DefaultConfig(), filepath.Join(t.TempDir(), "x.txt")), ErrUnsupportedFormat)
	assert.Error(t, SaveConfig(DefaultConfig(), filepath.Join(t.TempDir(), "no", "such", "dir", "x.json")))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *SceneConfig)
		body   bool
	}{
		{name: "zero_tick_rate", mutate: func(c *SceneConfig) { c.TickRate = 0 }},
		{name: "no_window", mutate: func(c *SceneConfig) { c.Window.Width = 0 }},
		{name: "no_bodies", mutate: func(c *SceneConfig) { c.Bodies = nil }},
		{name: "nan_gravity", mutate: func(c *SceneConfig) { c.Gravity.X = math.NaN() }},
		{name: "infinite_gravity", mutate: func(c *SceneConfig) { c.Gravity.Y = math.Inf(1) }},
		{name: "too_many_ropes", mutate: func(c *SceneConfig) {
			r := c.Bodies[0].Ropes[0]
			c.Bodies[0].Ropes = []RopeConfig{r, r, r, r}
		}},
		{name: "rope_out_of_reach", body: true, mutate: func(c *SceneConfig) {
			c.Bodies[1].Ropes[0].Anchor.Length = 100
		}},
		{name: "bad_friction", body: true, mutate: func(c *SceneConfig) {
			c.Bodies[0].Coefficients.Linear.LinearFriction = 2
		}},
		{name: "nan_rope_angle", body: true, mutate: func(c *SceneConfig) {
			c.Bodies[0].Ropes[0].Anchor.Angle = math.NaN()
		}},
		{name: "nan_rope_target", body: true, mutate: func(c *SceneConfig) {
			c.Bodies[1].Ropes[0].Target.Y = math.NaN()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(c)

			err := c.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidScene)
			if tt.body {
				assert.ErrorIs(t, err, physics.ErrInvalidBody)
			}

			_, err = c.BuildBodies()
			assert.ErrorIs(t, err, ErrInvalidScene)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Run("overrides", func(t *testing.T) {
		t.Setenv(EnvGravityX, "-0.5")
		t.Setenv(EnvGravityY, "1.25")
		t.Setenv(EnvTickRate, "30")

		c := DefaultConfig()
		require.NoError(t, c.ApplyEnv())
		assert.Equal(t, physics.Vector2D{X: -0.5, Y: 1.25}, c.Gravity)
		assert.Equal(t, 30, c.TickRate)
	})

	t.Run("unset leaves defaults", func(t *testing.T) {
		c := DefaultConfig()
		require.NoError(t, c.ApplyEnv())
		assert.Equal(t, DefaultConfig(), c)
	})

	t.Run("nan gravity is rejected by validation", func(t *testing.T) {
		t.Setenv(EnvGravityX, "NaN")

		c := DefaultConfig()
		require.NoError(t, c.ApplyEnv())
		assert.ErrorIs(t, c.Validate(), ErrInvalidScene)
	})

	t.Run("malformed", func(t *testing.T) {
		t.Setenv(EnvTickRate, "sixty")
		err := DefaultConfig().ApplyEnv()
		assert.ErrorContains(t, err, EnvTickRate)
	})
}

func TestIsSceneFile(t *testing.T) {
	assert.True(t, IsSceneFile("a/b/scene.YAML"))
	assert.True(t, IsSceneFile("scene.toml"))
	assert.False(t, IsSceneFile("scene.tengo"))
	assert.False(t, IsSceneFile("scene"))
}

func TestWatcher_Relevant(t *testing.T) {
	w := &Watcher{path: filepath.Join(string(filepath.Separator), "tmp", "scene.yaml")}

	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"write", fsnotify.Event{Name: w.path, Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: w.path, Op: fsnotify.Create}, true},
		{"rename", fsnotify.Event{Name: w.path, Op: fsnotify.Rename}, true},
		{"chmod ignored", fsnotify.Event{Name: w.path, Op: fsnotify.Chmod}, false},
		{"other file", fsnotify.Event{Name: filepath.Join(filepath.Dir(w.path), "other.yaml"), Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.relevant(tt.ev))
		})
	}
}

func TestWatcher_ReportsLastWriteOfBurst(t *testing.T) {
	w := newWatcher(filepath.Join(string(filepath.Separator), "tmp", "scene.yaml"))
	events := make(chan fsnotify.Event)
	go w.run(events, make(chan error))
	defer func() {
		close(w.closeCh)
		<-w.done
	}()

	// truncate, then the write that completes the save
	events <- fsnotify.Event{Name: w.path, Op: fsnotify.Write}
	time.Sleep(20 * time.Millisecond)
	select {
	case <-w.Events:
		t.Fatal("change reported before the burst settled")
	default:
	}
	events <- fsnotify.Event{Name: w.path, Op: fsnotify.Write}
	second := time.Now()

	select {
	case got := <-w.Events:
		assert.Equal(t, w.path, got)
		assert.GreaterOrEqual(t, time.Since(second), watchDebounce*8/10)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case <-w.Events:
		t.Fatal("burst reported more than once")
	case <-time.After(3 * watchDebounce):
	}
}

func TestWatcher_ReportsWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	require.NoError(t, SaveConfig(DefaultConfig(), path))

	w, err := NewWatcher(path)
	require.NoError(t, err)
	defer w.Close()

	changed := DefaultConfig()
	changed.TickRate = 10
	require.NoError(t, SaveConfig(changed, path))

	select {
	case got := <-w.Events:
		abs, _ := filepath.Abs(path)
		assert.Equal(t, abs, got)
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcher_CloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	w, err := NewWatcher(path)
	require.NoError(t, err)

	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())

	_, open := <-w.Events
	assert.False(t, open)
}
