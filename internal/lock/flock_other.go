//go:build !unix

package lock

import (
	"errors"
	"fmt"
	"os"
)

var errLocked = errors.New("lock file exists")

// tryLock creates path exclusively. A lock file left by a process that no
// longer exists is removed and the creation retried once.
func tryLock(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0600)
	if err == nil {
		return f, nil
	}
	if !os.IsExist(err) {
		return nil, fmt.Errorf("create lock file: %w", err)
	}
	if !holderGone(path) {
		return nil, errLocked
	}
	_ = os.Remove(path)
	f, err = os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return nil, errLocked
	}
	return f, nil
}

func unlock(f *os.File) error {
	name := f.Name()
	err := f.Close()
	if rerr := os.Remove(name); err == nil && rerr != nil && !os.IsNotExist(rerr) {
		err = rerr
	}
	return err
}
