package dialog

import (
	"context"
	"log/slog"
	"os"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"

	"github.com/jmylchreest/a11ysettings/internal/a11y"
	"github.com/jmylchreest/a11ysettings/internal/catalog"
	"github.com/jmylchreest/a11ysettings/internal/config"
	"github.com/jmylchreest/a11ysettings/internal/dbus"
	"github.com/jmylchreest/a11ysettings/internal/launcher"
	"github.com/jmylchreest/a11ysettings/internal/settings"
	"github.com/jmylchreest/a11ysettings/internal/style"
)

// AppID is the application id registered on the session bus.
const AppID = "io.github.jmylchreest.a11ysettings"

// AppOptions configures Run.
type AppOptions struct {
	Config  *config.Config
	Backend settings.Backend
	Session *dbus.Session
	Logger  *slog.Logger
}

// Run shows the dialog and blocks until it is closed or ctx is cancelled.
// It returns the process exit status.
func Run(ctx context.Context, opts AppOptions) int {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	app := adw.NewApplication(AppID, 0)

	var (
		ctrl   *a11y.Controller
		dlg    *Dialog
		loader *style.Loader
		status int
	)

	app.ConnectActivate(func() {
		if dlg != nil {
			dlg.Present()
			return
		}

		var err error
		ctrl, err = a11y.NewController(a11y.Options{
			Backend:   opts.Backend,
			Config:    cfg,
			Logger:    logger,
			ScreenDPI: ScreenDPIFunc(a11y.DPIRangeFromConfig(cfg)),
		})
		if err != nil {
			logger.Error("failed to open accessibility settings", "error", err)
			status = 1
			app.Quit()
			return
		}

		actx, err := a11y.NewContext(ctrl, launcher.New(logger), logger)
		if err != nil {
			logger.Error("failed to read accessibility settings", "error", err)
			status = 1
			app.Quit()
			return
		}

		loader = style.NewLoader(cfg.Style.Name, logger)
		if on, err := ctrl.HighContrast(); err == nil {
			loader.SetHighContrast(on)
		} else {
			loader.Load()
		}
		loader.Apply(nil)
		if cfg.Style.HotReload {
			loader.StartHotReload(ctx)
		}

		var session *dbus.SessionManager
		if opts.Session != nil {
			sm := opts.Session.SessionManager()
			if ok, err := sm.Available(ctx); ok {
				session = sm
			} else if err != nil {
				logger.Debug("session manager not available", "error", err)
			}
		}

		dlg, err = New(app, Options{
			Context: actx,
			Config:  cfg,
			Builder: catalog.NewBuilder(logger),
			Dirs:    cfg.SearchDirs(),
			Session: session,
			Style:   loader,
			Logger:  logger,
		})
		if err != nil {
			logger.Error("failed to build dialog", "error", err)
			status = 1
			app.Quit()
			return
		}
		dlg.Present()
	})

	go func() {
		<-ctx.Done()
		glib.IdleAdd(app.Quit)
	}()

	if code := app.Run(os.Args[:1]); code != 0 {
		status = code
	}

	if dlg != nil {
		dlg.Close()
	}
	if loader != nil {
		loader.StopHotReload()
	}
	if ctrl != nil {
		if err := ctrl.Close(); err != nil {
			logger.Warn("failed to close settings stores", "error", err)
		}
	}
	return status
}
