package ui

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"wallfetch/pkg/config"
)

// NotificationSender interface for platform-specific notification implementations
type NotificationSender interface {
	Send(title, message string) error
}

// LinuxNotificationSender sends notifications on Linux using notify-send
type LinuxNotificationSender struct{}

func (l *LinuxNotificationSender) Send(title, message string) error {
	return exec.Command("notify-send", "--app-name=wallfetch", title, message).Run()
}

// MacOSNotificationSender sends notifications on macOS using osascript
type MacOSNotificationSender struct{}

func (m *MacOSNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf(`display notification %s with title %s`, appleScriptString(message), appleScriptString(title))
	return exec.Command("osascript", "-e", script).Run()
}

func appleScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// WindowsNotificationSender sends notifications on Windows using PowerShell
type WindowsNotificationSender struct{}

func (w *WindowsNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf(`
		[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null
		$template = [Windows.UI.Notifications.ToastTemplateType]::ToastText02
		$xml = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent($template)
		$text = $xml.GetElementsByTagName("text")
		$text.Item(0).AppendChild($xml.CreateTextNode('%s')) | Out-Null
		$text.Item(1).AppendChild($xml.CreateTextNode('%s')) | Out-Null
		$toast = [Windows.UI.Notifications.ToastNotification]::new($xml)
		[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier("wallfetch").Show($toast)
	`, powerShellString(title), powerShellString(message))

	return exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script).Run()
}

func powerShellString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// PlatformSender returns the sender for the current OS, or nil when unsupported
func PlatformSender() NotificationSender {
	switch runtime.GOOS {
	case "linux":
		return &LinuxNotificationSender{}
	case "darwin":
		return &MacOSNotificationSender{}
	case "windows":
		return &WindowsNotificationSender{}
	}
	return nil
}

// Notifier prints notable events and mirrors them as desktop notifications
// according to the notification preferences
type Notifier struct {
	sender NotificationSender
	prefs  config.NotificationConfig
}

// NewNotifier creates a Notifier for the current platform
func NewNotifier(prefs config.NotificationConfig) *Notifier {
	return NewNotifierWithSender(prefs, PlatformSender())
}

// NewNotifierWithSender creates a Notifier using sender for desktop delivery
func NewNotifierWithSender(prefs config.NotificationConfig, sender NotificationSender) *Notifier {
	return &Notifier{sender: sender, prefs: prefs}
}

func (n *Notifier) send(title, message string) {
	if n.sender == nil || !n.prefs.Enabled {
		return
	}
	// Desktop delivery is best effort; the console line has already been printed
	_ = n.sender.Send(title, message)
}

// SendNotification prints a notice and mirrors it to the desktop
func (n *Notifier) SendNotification(title, message string) {
	printLine(false, fmt.Sprintf("%s: %s", Cyan(title), Yellow(message)))
	n.send(title, message)
}

// SendError sends an error to the desktop when on_error is set. Nothing is
// printed; the command reports the error on the console when it exits.
func (n *Notifier) SendError(title, message string) {
	if n.prefs.OnError {
		n.send(title, message)
	}
}

// SendSuccess prints a completion notice, sent to the desktop when on_complete is set
func (n *Notifier) SendSuccess(title, message string) {
	printLine(false, fmt.Sprintf("%s: %s", Green(title), Green(message)))
	if n.prefs.OnComplete {
		n.send(title, message)
	}
}
