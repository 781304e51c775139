package model

// MapRecord is one line of /proc/<pid>/maps.
type MapRecord struct {
	Address string // "<start>-<end>"
	Perms   string
	Offset  string
	Device  string
	Inode   uint64
	Path    string
	Deleted bool // kernel appended " (deleted)"
}
