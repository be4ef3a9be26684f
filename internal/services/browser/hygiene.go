package browser

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ternarybob/patrondl/internal/common"
)

// browserProcess is one running instance of the browser executable found on
// the host.
type browserProcess struct {
	pid  int
	path string
}

// cleanupStrayBrowsers terminates browser instances left behind by a prior
// run. Only processes whose executable lives inside the application's own
// install directory are touched; browser instances belonging to the user are
// never killed. Best-effort: individual failures are logged, not returned.
func (s *Service) cleanupStrayBrowsers(executableName string) error {
	installDir, err := applicationDir()
	if err != nil {
		return err
	}

	processes, err := listBrowserProcesses(executableName)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Failed to list browser processes (non-critical)")
		return nil
	}

	killedCount := 0
	for _, proc := range processes {
		if !pathWithin(installDir, proc.path) {
			s.logger.Debug().
				Int("pid", proc.pid).
				Str("path", proc.path).
				Msg("Skipping browser instance outside install directory")
			continue
		}

		s.logger.Warn().
			Int("pid", proc.pid).
			Str("path", proc.path).
			Msg("Found stray browser process from prior run, killing")

		if err := killProcess(proc.pid); err != nil {
			s.logger.Debug().
				Err(err).
				Int("pid", proc.pid).
				Msg("Failed to kill stray browser process (may have already exited)")
		} else {
			killedCount++
		}
	}

	if killedCount > 0 {
		s.logger.Info().
			Int("count", killedCount).
			Msg("Cleaned up stray browser processes")
	} else {
		s.logger.Debug().Msg("No stray browser processes found")
	}

	return nil
}

// listBrowserProcesses enumerates running processes matching the browser
// executable name, with their executable paths.
func listBrowserProcesses(executableName string) ([]browserProcess, error) {
	if common.IsWindows() {
		// wmic emits CSV rows of Node,ExecutablePath,ProcessId
		cmd := exec.Command("wmic", "process", "where",
			"name='"+executableName+"'",
			"get", "ProcessId,ExecutablePath", "/format:csv")
		output, err := cmd.Output()
		if err != nil {
			return nil, err
		}
		return parseWmicProcessList(string(output)), nil
	}

	// pgrep -a prints "pid command args..." per matching process
	cmd := exec.Command("pgrep", "-a", executableName)
	output, err := cmd.Output()
	if err != nil {
		// pgrep exits 1 when nothing matches
		return nil, nil
	}
	return parsePgrepProcessList(string(output)), nil
}

// parseWmicProcessList parses wmic CSV output into process records.
func parseWmicProcessList(output string) []browserProcess {
	var processes []browserProcess
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "Node,") {
			continue
		}
		// Rows are Node,ExecutablePath,ProcessId; the path may itself
		// contain commas, so take everything between the first and last
		first := strings.Index(line, ",")
		last := strings.LastIndex(line, ",")
		if first < 0 || last <= first {
			continue
		}
		path := strings.TrimSpace(line[first+1 : last])
		pid, err := strconv.Atoi(strings.TrimSpace(line[last+1:]))
		if err != nil || path == "" {
			continue
		}
		processes = append(processes, browserProcess{pid: pid, path: path})
	}
	return processes
}

// parsePgrepProcessList parses `pgrep -a` output into process records.
func parsePgrepProcessList(output string) []browserProcess {
	var processes []browserProcess
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		pid, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		processes = append(processes, browserProcess{pid: pid, path: fields[1]})
	}
	return processes
}

// pathWithin reports whether path lies inside dir.
func pathWithin(dir, path string) bool {
	if dir == "" || path == "" {
		return false
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// killProcess force-terminates a process by pid.
func killProcess(pid int) error {
	if common.IsWindows() {
		return exec.Command("taskkill", "/F", "/PID", strconv.Itoa(pid)).Run()
	}
	return exec.Command("kill", "-9", strconv.Itoa(pid)).Run()
}

// applicationDir returns the directory holding the running executable.
func applicationDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(execPath), nil
}
