package engine

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Notification is a transient success message shown to the viewer.
type Notification struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

var (
	revealStarted = Notification{
		Title:       "¡Preparando tu regalo!",
		Description: "Un momento especial está por comenzar",
	}
	voucherSaved = Notification{
		Title:       "Vale descargado",
		Description: "El vale se ha guardado en tu dispositivo",
	}
)

// Notifier presents notifications. Only successes are ever notified.
type Notifier interface {
	Notify(n Notification)
}

// LogNotifier writes notifications to a logger.
type LogNotifier struct {
	Log logrus.FieldLogger
}

func (l LogNotifier) Notify(n Notification) {
	l.Log.WithField("description", n.Description).Info(n.Title)
}

// NotificationLog keeps every notification in order.
type NotificationLog struct {
	mu  sync.Mutex
	all []Notification
}

func (l *NotificationLog) Notify(n Notification) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.all = append(l.all, n)
}

// All returns a copy of the notifications so far.
func (l *NotificationLog) All() []Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Notification(nil), l.all...)
}

type nopNotifier struct{}

func (nopNotifier) Notify(Notification) {}
