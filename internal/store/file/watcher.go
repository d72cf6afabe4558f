package file

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/salustyck/storefront/internal/ports"
)

var _ ports.StoreWatcher = (*Watcher)(nil)

// Watcher — уведомления об изменении ключа корзины другим процессом
// (аналог storage-события между вкладками). Следим за каталогом, а не за файлом:
// атомарная запись подменяет файл через rename.
type Watcher struct {
	fsw       *fsnotify.Watcher
	events    chan struct{}
	target    string
	closeOnce sync.Once
	done      chan struct{}
}

// NewWatcher — подписка на изменения cart.json в каталоге состояния.
func NewWatcher(dir string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsw:    fsw,
		events: make(chan struct{}, 1),
		target: cartFileName,
		done:   make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// run — фильтрует события по имени ключа и схлопывает всплески:
// буфер на одно срабатывание, лишние сигналы отбрасываются.
func (w *Watcher) run() {
	defer close(w.events)

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != w.target {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) &&
				!ev.Op.Has(fsnotify.Rename) && !ev.Op.Has(fsnotify.Remove) {
				continue
			}
			select {
			case w.events <- struct{}{}:
			default:
			}
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

// Events — канал срабатываний; закрывается при Close.
func (w *Watcher) Events() <-chan struct{} { return w.events }

// Close — идемпотентная остановка подписки.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
	})
	return err
}
