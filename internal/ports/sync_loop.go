package ports

import "context"

// SyncLoop — цикл сверки корзины с долговременным хранилищем.
type SyncLoop interface {
	Run(ctx context.Context) error
	// Trigger — внеплановый проход сверки (фокус вкладки, видимость и т.п.).
	Trigger(reason string)
	Close() error
}
