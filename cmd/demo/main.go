// Command demo opens a window and renders a small lit scene with a shadow
// casting sun, a sky and a keyboard-driven debug panel.
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"go.uber.org/zap"

	"forward-renderer/capture"
	"forward-renderer/config"
	"forward-renderer/debugui"
	"forward-renderer/gpu"
	"forward-renderer/input"
	"forward-renderer/internal/opengl"
	"forward-renderer/logging"
	"forward-renderer/renderer"
	"forward-renderer/shaders"
	"forward-renderer/window"
)

func main() {
	configPath := flag.String("config", "", "TOML settings file layered over the defaults")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "demo:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync()

	win, err := window.New(cfg.Window)
	if err != nil {
		return err
	}
	defer win.Destroy()

	var shaderFS fs.FS = shaders.FS
	if cfg.Assets.ShaderDir != "" {
		shaderFS = os.DirFS(cfg.Assets.ShaderDir)
	}
	dev, err := opengl.NewDevice(shaderFS, log.Named("gl"))
	if err != nil {
		return err
	}
	defer dev.Release()
	surface := opengl.NewSurface(win)

	w, err := buildWorld(dev, cfg, gpu.AspectRatio(surface), log.Named("scene"))
	if err != nil {
		return fmt.Errorf("build scene: %w", err)
	}
	defer w.Release()
	for _, d := range w.scene.Validate() {
		log.Debug("material check", d.Fields()...)
	}

	shadowVS, err := dev.LoadVertexShader(shaders.ShadowVertexShader)
	if err != nil {
		return err
	}
	defer shadowVS.Release()

	r, err := renderer.New(dev, surface, w.scene, shadowVS, cfg, log.Named("renderer"))
	if err != nil {
		return err
	}
	defer r.Release()

	grab := &captureOverlay{surface: surface, dir: cfg.Assets.CaptureDir, log: log}
	r.Overlay = grab

	loop(win, r, grab, debugui.NewPanel(w.scene))
	log.Info("shutting down", zap.Uint64("frames", r.Stats().Frames))
	return nil
}

func loop(win *window.Window, r *renderer.Renderer, grab *captureOverlay, panel *debugui.Panel) {
	sc := r.Scene()
	in := window.NewInput(win)
	var keys input.Edge
	dayNight := NewDayNight()
	status := &hud{}
	title := win.Title()

	last := time.Now()
	for !win.ShouldClose() {
		in.Poll()
		now := time.Now()
		dt := float32(min(now.Sub(last).Seconds(), 0.1))
		last = now

		if win.Resized() && !win.Minimized() {
			r.Resize()
		}
		if idle(win) {
			continue
		}

		if keys.Pressed(in, input.KeyEscape) {
			win.SetShouldClose(true)
		}
		if keys.Pressed(in, input.Key1) {
			sc.SetCurrentCamera(0)
		}
		if keys.Pressed(in, input.Key2) {
			sc.SetCurrentCamera(1)
		}
		if keys.Pressed(in, input.Key3) {
			dayNight.Active = !dayNight.Active
		}
		if keys.Pressed(in, input.KeyF12) {
			grab.pending = true
		}

		sc.Update(in, dt)
		panel.Drive(in, dt)
		dayNight.Update(dt)
		if dayNight.Active {
			r.SetClearColor(dayNight.Apply(sc.Lights))
		}

		r.Render()

		if status.tick(now) {
			stats := r.Stats()
			status.Clear()
			status.AddLine("%s", title)
			status.AddLine("%.0f fps", status.fps)
			status.AddLine("camera %d", sc.CurrentCameraIndex()+1)
			status.AddLine("%d draws, %d culled", stats.Draws, stats.Culled)
			if dayNight.Active {
				status.AddLine("%s", dayNight.TimeOfDay())
			}
			status.AddLine("%s", panel.Describe())
			win.SetTitle(status.Text())
		}
	}
}

// captureOverlay saves the finished back buffer before present when a
// capture was requested.
type captureOverlay struct {
	surface *opengl.Surface
	dir     string
	pending bool
	log     *zap.Logger
}

func (c *captureOverlay) Draw(gpu.Context) {
	if !c.pending {
		return
	}
	c.pending = false
	width, height, pixels := c.surface.ReadPixels()
	path := capture.FileName(c.dir, time.Now())
	if err := capture.SaveWebP(path, width, height, pixels, true); err != nil {
		c.log.Error("capture failed", zap.Error(err))
		return
	}
	c.log.Info("capture saved", zap.String("path", path))
}

type eventWaiter interface {
	Minimized() bool
	WaitEvents()
}

// idle blocks on window events while w is minimized and reports whether the
// frame should be skipped.
func idle(w eventWaiter) bool {
	if !w.Minimized() {
		return false
	}
	w.WaitEvents()
	return true
}
