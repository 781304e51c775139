package proc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pranshuparmar/staleproc/pkg/model"
)

// DeletedSuffix is appended by the kernel to paths whose file was unlinked.
const DeletedSuffix = " (deleted)"

// <start>-<end> <perms> <offset> <dev> <inode> [<path>]
var mapsLine = regexp.MustCompile(`^(\S+-\S+)\s+(\S{4})\s+(\S+)\s+(\S+:\S+)\s+(\d+)(?:\s+(.*))?$`)

// ParseError reports a maps line that does not follow the kernel format.
type ParseError struct {
	Line string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparsable maps line: %q", e.Line)
}

// ParseMapRecord parses one line of /proc/<pid>/maps. A trailing " (deleted)"
// is stripped from the path and reported through Deleted.
func ParseMapRecord(line string) (model.MapRecord, error) {
	m := mapsLine.FindStringSubmatch(strings.TrimRight(line, "\n"))
	if m == nil {
		return model.MapRecord{}, &ParseError{Line: line}
	}

	inode, err := strconv.ParseUint(m[5], 10, 64)
	if err != nil {
		return model.MapRecord{}, &ParseError{Line: line}
	}
	rec := model.MapRecord{
		Address: m[1],
		Perms:   m[2],
		Offset:  m[3],
		Device:  m[4],
		Inode:   inode,
	}

	path := m[6]
	if strings.HasSuffix(path, DeletedSuffix) {
		path = strings.TrimSuffix(path, DeletedSuffix)
		rec.Deleted = true
	}
	rec.Path = path
	return rec, nil
}
