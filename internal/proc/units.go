package proc

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pranshuparmar/staleproc/pkg/model"
)

// Units asks ps for the systemd unit of every pid in a single invocation.
// Processes outside any unit ("-") are left out of the result.
func Units(pids []int) (map[int]string, error) {
	units := make(map[int]string)
	if len(pids) == 0 {
		return units, nil
	}

	ids := make([]string, len(pids))
	for i, pid := range pids {
		ids[i] = strconv.Itoa(pid)
	}

	out, err := Run("ps", "-o", "pid=,unit=", "-p", strings.Join(ids, ","))
	if err != nil {
		// ps exits 1 without output when none of the pids exist any more.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(strings.TrimSpace(string(out))) == 0 {
			return units, nil
		}
		return nil, fmt.Errorf("ps unit lookup: %w", err)
	}

	for _, line := range strings.SplitAfter(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		pid, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("ps unit lookup: unexpected line %q", strings.TrimSpace(line))
		}
		if len(fields) < 2 || fields[1] == model.NoUnit {
			continue
		}
		units[pid] = fields[1]
	}
	return units, nil
}
