// Package osaction performs fire-and-forget desktop actions: opening URLs,
// launching applications, and window control. Every operation returns a
// short confirmation string for the dialogue layer to show.
package osaction

import (
	"fmt"
	"log"
	"os/exec"
	"runtime"
	"strings"
)

// Runner executes desktop actions on the host.
type Runner struct{}

// New creates a desktop action runner.
func New() *Runner {
	return &Runner{}
}

// OpenURL launches the default browser at the given URL.
func (r *Runner) OpenURL(url string) string {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	r.start(cmd)
	return fmt.Sprintf("Opened %s.", shortURL(url))
}

// OpenApp launches a named application. Names map to per-OS launch commands.
func (r *Runner) OpenApp(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", "-a", macAppName(name))
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", windowsAppName(name))
	default:
		cmd = exec.Command(linuxAppName(name))
	}
	r.start(cmd)
	return fmt.Sprintf("Opened %s.", name)
}

// MinimizeAll hides every open window where the platform supports it.
func (r *Runner) MinimizeAll() string {
	switch runtime.GOOS {
	case "darwin":
		r.start(exec.Command("osascript", "-e",
			`tell application "System Events" to keystroke "m" using {command down, option down}`))
	case "windows":
		r.start(exec.Command("powershell", "-command",
			"(New-Object -ComObject Shell.Application).MinimizeAll()"))
	default:
		r.start(exec.Command("wmctrl", "-k", "on"))
	}
	return "Minimized all windows."
}

// start runs the command without waiting; desktop actions must not block a
// command turn.
func (r *Runner) start(cmd *exec.Cmd) {
	if err := cmd.Start(); err != nil {
		log.Printf("[osaction] %s failed to start: %v", cmd.Path, err)
		return
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Printf("[osaction] %s exited with error: %v", cmd.Path, err)
		}
	}()
}

func shortURL(url string) string {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(url, "https://"), "http://")
	return strings.TrimSuffix(trimmed, "/")
}

func macAppName(name string) string {
	switch name {
	case "notes", "note", "notepad":
		return "Notes"
	case "word":
		return "Microsoft Word"
	case "excel":
		return "Microsoft Excel"
	default:
		return name
	}
}

func windowsAppName(name string) string {
	switch name {
	case "notes", "note", "notepad":
		return "notepad"
	case "word":
		return "winword"
	case "excel":
		return "excel"
	default:
		return name
	}
}

func linuxAppName(name string) string {
	switch name {
	case "notes", "note", "notepad":
		return "gedit"
	case "word", "excel":
		return "libreoffice"
	default:
		return name
	}
}
