package housekeeper

// DiskFreeFunc reports the free bytes of the filesystem backing path. The
// default implementation asks the OS; tests substitute a fixed value.
type DiskFreeFunc func(path string) (int64, error)
