package app

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// isDaemonRunning checks the PID file and probes the recorded process.
func isDaemonRunning(pidFile string) (bool, int, error) {
	data, err := os.ReadFile(pidFile)
	if os.IsNotExist(err) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("read pid file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return false, 0, nil // stale garbage, treat as not running
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return false, 0, nil
	}
	// Signal 0 only checks existence.
	if err := proc.Signal(syscall.Signal(0)); err != nil {
		return false, 0, nil
	}
	return true, pid, nil
}

// spawnDaemon re-executes the binary detached, logging to logFile, and
// writes the child's PID.
func spawnDaemon(pidFile, logFile string) error {
	running, pid, err := isDaemonRunning(pidFile)
	if err != nil {
		return err
	}
	if running {
		return fmt.Errorf("daemon already running (pid %d)", pid)
	}

	logF, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logF.Close()

	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}

	args := []string{"start", "--daemon-child"}
	if configPath != "" {
		args = append(args, "--config", configPath)
	}
	if dbPath != "" {
		args = append(args, "--db", dbPath)
	}

	cmd := exec.Command(executable, args...)
	cmd.Stdout = logF
	cmd.Stderr = logF
	cmd.Stdin = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true, // new session, survives the parent terminal
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start daemon process: %w", err)
	}

	if err := os.WriteFile(pidFile, []byte(fmt.Sprintf("%d\n", cmd.Process.Pid)), 0o644); err != nil {
		cmd.Process.Kill()
		return fmt.Errorf("write pid file: %w", err)
	}

	if err := cmd.Process.Release(); err != nil {
		return fmt.Errorf("release process: %w", err)
	}
	return nil
}

// stopDaemon sends SIGTERM and waits briefly for the process to exit.
func stopDaemon(pidFile string) error {
	running, pid, err := isDaemonRunning(pidFile)
	if err != nil {
		return err
	}
	if !running {
		fmt.Println("Daemon is not running")
		return nil
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find process %d: %w", pid, err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal process %d: %w", pid, err)
	}

	// The daemon flushes its open segment before exiting.
	for i := 0; i < 50; i++ {
		if err := proc.Signal(syscall.Signal(0)); err != nil {
			os.Remove(pidFile)
			fmt.Println("✓ Daemon stopped")
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("daemon (pid %d) did not exit", pid)
}
