package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
)

// ConsentFlag — флаг согласия на cookies. Вне горячего пути корзины:
// читается баннером, пишется один раз при принятии.
type ConsentFlag struct {
	path string
}

func NewConsentFlag(dir string) (*ConsentFlag, error) {
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	return &ConsentFlag{path: filepath.Join(dir, consentFileName)}, nil
}

// Accepted — true только при явно записанном значении true;
// отсутствие или битость файла читается как false.
func (f *ConsentFlag) Accepted(_ context.Context) bool {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return false
	}
	var accepted bool
	if err := json.Unmarshal(data, &accepted); err != nil {
		return false
	}
	return accepted
}

func (f *ConsentFlag) SetAccepted(_ context.Context) error {
	return writeAtomic(f.path, []byte("true"))
}
