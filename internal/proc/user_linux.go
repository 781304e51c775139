//go:build linux

package proc

import (
	"fmt"
	"os/user"
	"strconv"

	"github.com/pranshuparmar/staleproc/pkg/model"
)

// lookupUser is swapped in tests.
var lookupUser = func(uid uint32) (string, error) {
	u, err := user.LookupId(strconv.FormatUint(uint64(uid), 10))
	if err != nil {
		return "", err
	}
	return u.Username, nil
}

// UserName resolves uid to a login name, or "[<uid>] ???" if it has none.
func UserName(uid uint32) string {
	if uid == 0 {
		return "root"
	}
	name, err := lookupUser(uid)
	if err != nil || name == "" {
		return fmt.Sprintf("[%d] %s", uid, model.UnknownOwner)
	}
	return name
}

// Owner returns the user name owning pid.
func (f *FS) Owner(pid int) string {
	uid, err := f.UID(pid)
	if err != nil {
		return model.UnknownOwner
	}
	return UserName(uid)
}
