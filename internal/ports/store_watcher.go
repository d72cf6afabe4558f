package ports

// StoreWatcher — внешние уведомления об изменении носителя хранилища
// (аналог storage-события между вкладками).
type StoreWatcher interface {
	// Events — канал срабатываний; закрывается при Close.
	Events() <-chan struct{}
	Close() error
}
