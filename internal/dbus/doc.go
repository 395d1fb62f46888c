// Package dbus talks to the desktop session over the D-Bus session bus:
// the MATE session manager for logging out, and the bus daemon for probing
// which services are present.
package dbus
