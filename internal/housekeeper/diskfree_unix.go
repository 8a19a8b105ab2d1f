//go:build unix

package housekeeper

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// diskFree returns the bytes available to unprivileged processes on the
// filesystem backing path.
func diskFree(path string) (int64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, fmt.Errorf("statfs %s: %w", path, err)
	}
	return int64(st.Bavail) * int64(st.Bsize), nil
}
