// Пакет file — долговременное хранилище поверх каталога состояния:
// по JSON-файлу на ключ, атомарная запись через временный файл и rename.
// Каталог разделяется процессами-«вкладками»; уведомления об изменениях
// даёт Watcher (fsnotify).
package file

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	cartFileName    = "cart.json"
	ordersFileName  = "orders.json"
	consentFileName = "cookie_consent.json"
)

// ensureDir — создаёт каталог состояния, если его ещё нет.
func ensureDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("state dir is empty")
	}
	return os.MkdirAll(dir, 0o755)
}

// writeAtomic — запись целиком: временный файл в том же каталоге + rename.
// На носителе не бывает частично записанного ключа.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, path)
}
