package page

import (
	"sync"
	"time"
)

type Level string

const (
	LevelError Level = "error"
	LevelInfo  Level = "info"
)

type Notification struct {
	Level   Level
	Message string
}

type Notifier interface {
	Notify(n Notification)
}

// Navigator уводит пользователя на path спустя delay
type Navigator interface {
	Navigate(path string, delay time.Duration)
}

// Toasts копит уведомления до следующей отрисовки
type Toasts struct {
	mu    sync.Mutex
	items []Notification
}

func (t *Toasts) Notify(n Notification) {
	t.mu.Lock()
	t.items = append(t.items, n)
	t.mu.Unlock()
}

// Drain отдает накопленное и очищает очередь
func (t *Toasts) Drain() []Notification {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.items
	t.items = nil
	return out
}

// Redirect - отложенная навигация, которую отрисует браузер
type Redirect struct {
	Path  string
	Delay time.Duration
}

type PendingRedirect struct {
	mu      sync.Mutex
	pending *Redirect
}

func (r *PendingRedirect) Navigate(path string, delay time.Duration) {
	r.mu.Lock()
	r.pending = &Redirect{Path: path, Delay: delay}
	r.mu.Unlock()
}

func (r *PendingRedirect) Take() *Redirect {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.pending
	r.pending = nil
	return out
}

// TimerNavigator выполняет навигацию в процессе по таймеру
type TimerNavigator struct {
	Go func(path string)
}

func (n TimerNavigator) Navigate(path string, delay time.Duration) {
	time.AfterFunc(delay, func() { n.Go(path) })
}
