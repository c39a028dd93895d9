// Package protocol defines the line-oriented protocol spoken between the
// orchestrator and the worker process over the worker's standard I/O.
//
// Every message is a single newline-terminated line:
//
//	prompts   Enter SSH hostname: / Enter SSH username: / ...
//	status    1|<message> (success) or 0|<message> (failure)
//	progress  PROGRESS|<remote file>|<percent 0-100>
//	commands  upload <local> <remote> / remove <remote> / exit
package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// Prompts written by the worker during startup
const (
	PromptHost       = "Enter SSH hostname: "
	PromptUser       = "Enter SSH username: "
	PromptAuthMethod = "Authentication method (key/password): "
	PromptPassword   = "Enter password: "
	PromptKeyPath    = "Enter path to private key: "
)

// Fixed status messages
const (
	MsgConnectedPrefix = "Connected to "
	MsgExiting         = "Exiting shell"
	MsgReadInput       = "Failed to read input"
	MsgRemoveOK        = "Remove succeeded"
	MsgSessionClosed   = "Session closed"
	MsgSessionLost     = "SFTP session lost"
	MsgUnknownCommand  = "Unknown command or incorrect usage"
	MsgUploadOK        = "Upload succeeded"
)

const progressPrefix = "PROGRESS|"

// Status is a parsed status line
type Status struct {
	Message string
	OK      bool
}

// FormatStatus renders a status line (without the trailing newline)
func FormatStatus(ok bool, message string) string {
	// Messages never span lines
	message = strings.ReplaceAll(message, "\n", " ")
	if ok {
		return "1|" + message
	}
	return "0|" + message
}

// ParseStatus parses a status line. The second return value is false when the
// line is not a status line.
func ParseStatus(line string) (Status, bool) {
	line = strings.TrimRight(line, "\r\n")
	switch {
	case strings.HasPrefix(line, "1|"):
		return Status{OK: true, Message: line[2:]}, true
	case strings.HasPrefix(line, "0|"):
		return Status{OK: false, Message: line[2:]}, true
	default:
		return Status{}, false
	}
}

// IsTerminal reports whether the status retires the in-flight command
func (s Status) IsTerminal() bool {
	if !s.OK {
		return true
	}
	return s.Message == MsgUploadOK || s.Message == MsgRemoveOK
}

// IsConnected reports whether the status confirms a successful handshake
func (s Status) IsConnected() bool {
	return s.OK && strings.HasPrefix(s.Message, MsgConnectedPrefix)
}

// ConnectedMessage renders the handshake confirmation message
func ConnectedMessage(host, user string) string {
	return fmt.Sprintf("%s%s as %s", MsgConnectedPrefix, host, user)
}

// Progress is a parsed progress line
type Progress struct {
	File    string
	Percent int
}

// FormatProgress renders a progress line, clamping percent to 0..100
func FormatProgress(file string, percent int) string {
	return progressPrefix + file + "|" + strconv.Itoa(clamp(percent))
}

// ParseProgress parses a progress line. The file may itself contain '|'; the
// percentage is always the last field.
func ParseProgress(line string) (Progress, bool) {
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, progressPrefix) {
		return Progress{}, false
	}
	rest := line[len(progressPrefix):]
	idx := strings.LastIndexByte(rest, '|')
	if idx < 0 {
		return Progress{}, false
	}
	percent, err := strconv.Atoi(strings.TrimSpace(rest[idx+1:]))
	if err != nil {
		return Progress{}, false
	}
	return Progress{File: rest[:idx], Percent: clamp(percent)}, true
}

func clamp(percent int) int {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}
