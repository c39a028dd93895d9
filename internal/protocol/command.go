package protocol

import (
	"strings"

	shlex "github.com/anmitsu/go-shlex"
)

// Command names understood by the worker
const (
	CmdExit   = "exit"
	CmdRemove = "remove"
	CmdUpload = "upload"
)

// Command is a parsed worker command line
type Command struct {
	Args []string
	Name string
}

// Upload renders an upload command
func Upload(localPath, remotePath string) string {
	return Join(CmdUpload, localPath, remotePath)
}

// Remove renders a remove command
func Remove(remotePath string) string {
	return Join(CmdRemove, remotePath)
}

// Exit renders the exit command
func Exit() string {
	return CmdExit
}

// Join renders a command line, quoting words that need it
func Join(words ...string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = Quote(w)
	}
	return strings.Join(quoted, " ")
}

// Quote returns w unchanged when it is a plain word, otherwise a single-quoted
// POSIX shell word
func Quote(w string) string {
	if w != "" && !strings.ContainsAny(w, " \t\r\n'\"\\$`#;&|<>(){}*?[]~") {
		return w
	}
	return "'" + strings.ReplaceAll(w, "'", `'\''`) + "'"
}

// ParseCommand splits a command line using POSIX word rules
func ParseCommand(line string) (Command, error) {
	words, err := shlex.Split(strings.TrimRight(line, "\r\n"), true)
	if err != nil {
		return Command{}, err
	}
	if len(words) == 0 {
		return Command{}, nil
	}
	return Command{Name: words[0], Args: words[1:]}, nil
}
