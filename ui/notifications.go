// Package ui provides the graphical user interface for the launcher.
// This file contains desktop notifications for session events.
package ui

import (
	"fmt"
	"os/exec"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/yllada/lexair-launcher/common"
)

const (
	notificationsService   = "org.freedesktop.Notifications"
	notificationsPath      = "/org/freedesktop/Notifications"
	notificationsInterface = "org.freedesktop.Notifications.Notify"
)

// NotificationType represents the type of notification
type NotificationType int

const (
	NotificationInfo NotificationType = iota
	NotificationSuccess
	NotificationWarning
	NotificationError
)

// Notification represents a system notification
type Notification struct {
	Title   string
	Message string
	Type    NotificationType
	Icon    string
}

// urgency maps the type to the freedesktop urgency byte.
func (n Notification) urgency() byte {
	switch n.Type {
	case NotificationError:
		return 2
	case NotificationWarning:
		return 1
	default:
		return 0
	}
}

func (n Notification) icon() string {
	if n.Icon != "" {
		return n.Icon
	}
	switch n.Type {
	case NotificationWarning:
		return "dialog-warning"
	case NotificationError:
		return "dialog-error"
	default:
		return common.AppIconName
	}
}

var _ common.Notifier = (*DBusNotifier)(nil)

// DBusNotifier sends notifications over the session bus.
type DBusNotifier struct {
	mu   sync.Mutex
	conn *dbus.Conn
}

// NewDBusNotifier creates a notifier. The bus is connected on first use.
func NewDBusNotifier() *DBusNotifier {
	return &DBusNotifier{}
}

// Notify implements common.Notifier.
func (d *DBusNotifier) Notify(title, message string) error {
	return d.Send(Notification{Title: title, Message: message})
}

// NotifyWithIcon implements common.Notifier.
func (d *DBusNotifier) NotifyWithIcon(title, message, icon string) error {
	return d.Send(Notification{Title: title, Message: message, Icon: icon})
}

// Send delivers n through org.freedesktop.Notifications.
func (d *DBusNotifier) Send(n Notification) error {
	conn, err := d.connection()
	if err != nil {
		return err
	}

	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(n.urgency()),
	}
	timeout := int32(common.NotificationTimeout.Milliseconds())

	obj := conn.Object(notificationsService, notificationsPath)
	call := obj.Call(notificationsInterface, 0,
		common.AppName, uint32(0), n.icon(), n.Title, n.Message,
		[]string{}, hints, timeout)
	if call.Err != nil {
		return fmt.Errorf("sending notification: %w", call.Err)
	}
	return nil
}

// Close releases the bus connection.
func (d *DBusNotifier) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn == nil {
		return nil
	}
	err := d.conn.Close()
	d.conn = nil
	return err
}

func (d *DBusNotifier) connection() (*dbus.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn != nil && d.conn.Connected() {
		return d.conn, nil
	}
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connecting to session bus: %w", err)
	}
	d.conn = conn
	return conn, nil
}

// ShowNotification displays n, falling back to notify-send when the bus
// is unreachable.
func ShowNotification(notifier *DBusNotifier, n Notification) {
	if notifier != nil {
		err := notifier.Send(n)
		if err == nil {
			return
		}
		common.LogDebug("D-Bus notification failed: %v", err)
	}

	cmd := exec.Command("notify-send",
		"--app-name="+common.AppName,
		"--icon="+n.icon(),
		fmt.Sprintf("--expire-time=%d", common.NotificationTimeout.Milliseconds()),
		n.Title,
		n.Message,
	)
	if err := cmd.Run(); err != nil {
		common.LogWarn("Error showing notification: %v", err)
	}
}

// NotifySessionEnded shows how long the launcher was open.
func NotifySessionEnded(notifier *DBusNotifier, seconds int) {
	ShowNotification(notifier, Notification{
		Title:   "Launcher closed",
		Message: "Session time " + common.FormatClock(seconds),
		Type:    NotificationInfo,
	})
}

// NotifyLaunchFailed reports that the launcher window could not open.
func NotifyLaunchFailed(notifier *DBusNotifier, err error) {
	ShowNotification(notifier, Notification{
		Title:   "Launcher unavailable",
		Message: err.Error(),
		Type:    NotificationError,
	})
}
