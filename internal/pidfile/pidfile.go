// Package pidfile guards against overlapping daemon instances. Two
// housekeepers over the same tree could move a file out from under each
// other, so serve mode takes a PID lock before scheduling anything.
package pidfile

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

const FileName = ".camkeeper.pid"

// Path возвращает путь к PID файлу
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Acquire writes the current PID, refusing when a live process already
// holds the lock. A stale file from a dead process is silently replaced.
func Acquire(dir string) error {
	if pid, err := Read(dir); err == nil && IsRunning(pid) {
		return fmt.Errorf("another instance is already running (pid %d)", pid)
	}

	pidData := fmt.Sprintf("%d\n", os.Getpid())
	if err := os.WriteFile(Path(dir), []byte(pidData), 0600); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// Read читает PID из файла
func Read(dir string) (int, error) {
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		return 0, err
	}

	var pid int
	if _, err := fmt.Sscanf(string(data), "%d", &pid); err != nil {
		return 0, err
	}
	return pid, nil
}

// IsRunning проверяет что процесс запущен
func IsRunning(pid int) bool {
	if pid == 0 {
		return false
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// Signal 0 проверяет существование процесса
	return process.Signal(syscall.Signal(0)) == nil
}

// Release удаляет PID файл
func Release(dir string) error {
	if err := os.Remove(Path(dir)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
