package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/a11ysettings/internal/a11y"
	"github.com/jmylchreest/a11ysettings/internal/dbus"
)

var setOpts struct {
	logout bool
}

var setCmd = &cobra.Command{
	Use:   "set <option> <value> [<option> <value>...]",
	Short: "Change accessibility settings",
	Long: `Change one or more accessibility options and save them.

Options:
  high-contrast, large-print      on/off, true/false, yes/no
  cursor-theme                    an installed theme name (see "themes")
  cursor-size                     pixels, snapped to the configured step
  screen-reader, onscreen-keyboard
                                  start with the next session

Turning the screen reader or on-screen keyboard on or off may require a new
session. Pass --logout to log out immediately in that case.

Examples:
  # Enable high contrast and large print
  a11ysettings set high-contrast on large-print on

  # Use a bigger pointer
  a11ysettings set cursor-theme DMZ-Black cursor-size 48

  # Start the screen reader and log out to apply
  a11ysettings set screen-reader on --logout`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 || len(args)%2 != 0 {
			return fmt.Errorf("expected option/value pairs, got %d arguments", len(args))
		}
		return nil
	},
	RunE: runSet,
}

var runCmd = &cobra.Command{
	Use:   "run <action>",
	Short: "Start an accessibility helper",
	Long: `Start one of the helpers the settings dialog offers.

Actions:
  screen-ruler             on-screen ruler (not started twice)
  keyboard-accessibility   keyboard accessibility preferences
  help                     online help, or the offline manual`,
	Args: cobra.ExactArgs(1),
	RunE: runAction,
}

func init() {
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(runCmd)

	setCmd.Flags().BoolVar(&setOpts.logout, "logout", false,
		"Log out when the change needs a new session")
}

func runSet(cmd *cobra.Command, args []string) error {
	c, err := openContext()
	if err != nil {
		return err
	}
	defer func() { _ = c.Controller.Close() }()

	for i := 0; i < len(args); i += 2 {
		id := a11y.ControlID(strings.ToLower(args[i]))
		h, err := a11y.Lookup(id)
		if err != nil {
			return err
		}
		if h.Set == nil {
			return fmt.Errorf("%w: %s", a11y.ErrReadOnly, id)
		}
		if id == a11y.ControlCursorTheme && c.Themes == nil {
			c.Themes = buildCatalog()
		}
		if err := h.Set(c, args[i+1]); err != nil {
			return fmt.Errorf("failed to set %s: %w", id, err)
		}
		logger.Debug("option set", "option", id, "value", args[i+1])
	}

	if err := c.Controller.PrepareAutostart(); err != nil {
		logger.Warn("failed to prepare autostart entries", "error", err)
	}

	needLogout, err := c.Commit()
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	if !needLogout {
		return nil
	}

	if !setOpts.logout {
		fmt.Println("Log out and back in for assistive technology changes to take effect.")
		return nil
	}
	return logout()
}

func logout() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	session, err := dbus.ConnectSession(logger)
	if err != nil {
		return err
	}
	sm := session.SessionManager()
	if ok, err := sm.Available(ctx); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("no session manager on the bus (%s)", dbus.SessionManagerBusName)
	}
	return sm.Logout(ctx, dbus.LogoutMode(cfg.Session.LogoutMode))
}

func runAction(cmd *cobra.Command, args []string) error {
	h, err := a11y.Lookup(a11y.ControlID(strings.ToLower(args[0])))
	if err != nil {
		return err
	}
	if h.Run == nil {
		return fmt.Errorf("%s is an option, use \"set\"", h.ID)
	}

	c, err := openContext()
	if err != nil {
		return err
	}
	defer func() { _ = c.Controller.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return h.Run(ctx, c)
}
