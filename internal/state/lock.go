package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"github.com/conn-castle/spawn-layer/internal/messages"
)

// Lock acquisition is non-blocking with a polling retry so a crashed
// holder cannot wedge the store past the timeout.
var flockFn = unix.Flock
var lockSleep = time.Sleep

var (
	lockWaitTimeout = 30 * time.Second
	lockPollEvery   = 100 * time.Millisecond
)

// withSessionLock serializes access to one session's state file across
// processes, runs fn, and releases the lock.
func (s *Store) withSessionLock(session string, fn func() error) error {
	path := filepath.Join(s.dir, session+".lock")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf(messages.StateOpenLockFmt, path, err)
	}
	if err := acquireFlock(file); err != nil {
		_ = file.Close()
		return fmt.Errorf(messages.StateLockFmt, path, err)
	}
	defer func() {
		_ = flockFn(int(file.Fd()), unix.LOCK_UN)
		_ = file.Close()
	}()
	return fn()
}

// acquireFlock takes an exclusive advisory lock, polling until the
// timeout elapses.
func acquireFlock(file *os.File) error {
	deadline := time.Now().Add(lockWaitTimeout)
	for {
		err := flockFn(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return nil
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EAGAIN) {
			return err
		}
		if time.Now().After(deadline) {
			return fmt.Errorf(messages.StateLockTimeoutFmt, lockWaitTimeout)
		}
		lockSleep(lockPollEvery)
	}
}
