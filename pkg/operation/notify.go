package operation

import (
	"fmt"
	"io"

	"github.com/godbus/dbus/v5"
)

const (
	notifyDest   = "org.freedesktop.Notifications"
	notifyPath   = "/org/freedesktop/Notifications"
	notifyMethod = "org.freedesktop.Notifications.Notify"
)

type caller interface {
	Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

type NotifyController struct {
	// session returns the notification daemon object; nil means the
	// session bus.
	session func() (caller, io.Closer, error)
}

var Notify = &NotifyController{}

func sessionNotifier() (caller, io.Closer, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return conn.Object(notifyDest, notifyPath), conn, nil
}

// Percent converts level to a 0-100 value for display.
func Percent(level, maxLevel int) int {
	if maxLevel <= 0 {
		return 0
	}
	return Clamp(level*100/maxLevel, 100)
}

// Level shows an OSD style notification for a change. Daemons that honour
// the synchronous hint replace the previous one instead of stacking.
func (n *NotifyController) Level(res Result, maxLevel int) (uint32, error) {
	session := n.session
	if session == nil {
		session = sessionNotifier
	}
	obj, closer, err := session()
	if err != nil {
		return 0, err
	}
	defer closer.Close()

	hints := map[string]dbus.Variant{
		"value":                           dbus.MakeVariant(int32(Percent(res.New, maxLevel))),
		"x-canonical-private-synchronous": dbus.MakeVariant("kbdlight"),
		"transient":                       dbus.MakeVariant(true),
	}

	var id uint32
	err = obj.Call(notifyMethod, 0,
		"kbdlight",
		uint32(0),
		"keyboard-brightness-symbolic",
		"Keyboard backlight",
		fmt.Sprintf("%d → %d", res.Old, res.New),
		[]string{},
		hints,
		int32(1500),
	).Store(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to send notification: %w", err)
	}
	return id, nil
}
