package dbus

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/godbus/dbus/v5"
)

const (
	// SessionManagerBusName is the MATE session manager's bus name.
	SessionManagerBusName = "org.mate.SessionManager"
	// SessionManagerPath is the session manager object path.
	SessionManagerPath = "/org/mate/SessionManager"
	// SessionManagerInterface is the session manager interface name.
	SessionManagerInterface = "org.mate.SessionManager"
)

// LogoutMode is the argument of SessionManager.Logout.
type LogoutMode uint32

const (
	LogoutNormal         LogoutMode = 0 // ask the user to confirm
	LogoutNoConfirmation LogoutMode = 1
	LogoutForce          LogoutMode = 2
)

func (m LogoutMode) String() string {
	switch m {
	case LogoutNormal:
		return "normal"
	case LogoutNoConfirmation:
		return "no-confirmation"
	case LogoutForce:
		return "force"
	default:
		return fmt.Sprintf("mode(%d)", uint32(m))
	}
}

// busObject is the subset of dbus.BusObject used here.
type busObject interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// Session wraps a session bus connection.
type Session struct {
	conn   *dbus.Conn
	bus    busObject
	logger *slog.Logger
}

// ConnectSession connects to the shared session bus.
func ConnectSession(logger *slog.Logger) (*Session, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return NewSession(conn, logger), nil
}

// NewSession wraps an existing connection.
func NewSession(conn *dbus.Conn, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		conn:   conn,
		bus:    conn.BusObject(),
		logger: logger,
	}
}

// NameHasOwner reports whether name is currently owned on the bus. It
// scans ListNames rather than asking for the owner, so activatable but
// stopped services count as absent.
func (s *Session) NameHasOwner(ctx context.Context, name string) (bool, error) {
	return nameHasOwner(ctx, s.bus, name)
}

func nameHasOwner(ctx context.Context, bus busObject, name string) (bool, error) {
	var names []string
	call := bus.CallWithContext(ctx, "org.freedesktop.DBus.ListNames", 0)
	if call.Err != nil {
		return false, fmt.Errorf("failed to list bus names: %w", call.Err)
	}
	if err := call.Store(&names); err != nil {
		return false, fmt.Errorf("failed to decode bus names: %w", err)
	}
	return slices.Contains(names, name), nil
}

// SessionManager returns a client for the MATE session manager.
func (s *Session) SessionManager() *SessionManager {
	return &SessionManager{
		obj:    s.conn.Object(SessionManagerBusName, SessionManagerPath),
		bus:    s.bus,
		logger: s.logger,
	}
}

// SessionManager calls org.mate.SessionManager.
type SessionManager struct {
	obj    busObject
	bus    busObject
	logger *slog.Logger
}

// Available reports whether the session manager is running.
func (m *SessionManager) Available(ctx context.Context) (bool, error) {
	return nameHasOwner(ctx, m.bus, SessionManagerBusName)
}

// Logout asks the session manager to end the session.
func (m *SessionManager) Logout(ctx context.Context, mode LogoutMode) error {
	call := m.obj.CallWithContext(ctx, SessionManagerInterface+".Logout", 0, uint32(mode))
	if call.Err != nil {
		return fmt.Errorf("failed to request logout: %w", call.Err)
	}
	m.logger.Info("requested logout", "mode", mode.String())
	return nil
}
