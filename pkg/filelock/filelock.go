package filelock

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

var ErrLocked = errors.New("lock exists")

// Lock creates name and records the current pid in it. A lock left behind
// by a process that no longer runs is replaced; otherwise Lock fails with
// ErrLocked.
func Lock(name string) error {
	err := create(name)
	if !errors.Is(err, ErrLocked) || !stale(name) {
		return err
	}
	if err = os.Remove(name); err != nil && !os.IsNotExist(err) {
		return err
	}
	return create(name)
}

func UnLock(name string) error {
	err := os.Remove(name)
	if err != nil {
		return err
	}
	return nil
}

// Owner returns the pid recorded in the lock file.
func Owner(name string) (int, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("lock %s: no pid recorded", name)
	}
	return pid, nil
}

func create(name string) error {
	f, err := os.OpenFile(name, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w: %s", ErrLocked, name)
		}
		return err
	}
	defer f.Close()
	_, err = f.WriteString(strconv.Itoa(os.Getpid()))
	return err
}

// stale reports whether the lock names a process that has exited. A lock
// without a readable pid is never treated as stale.
func stale(name string) bool {
	pid, err := Owner(name)
	if err != nil {
		return false
	}
	return !processAlive(pid)
}
