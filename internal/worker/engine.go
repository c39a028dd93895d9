// Package worker implements the worker side of the line protocol: it collects
// connection parameters, opens one transfer session and executes upload and
// remove commands one at a time.
package worker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/renato0307/ferry/internal/domain"
	"github.com/renato0307/ferry/internal/logging"
	"github.com/renato0307/ferry/internal/ports"
	"github.com/renato0307/ferry/internal/protocol"
)

// Exit codes
const (
	ExitOK      = 0
	ExitFailure = 1
)

// Engine speaks the worker protocol over a reader/writer pair
type Engine struct {
	dialer ports.TransferDialer
	in     *bufio.Reader
	out    io.Writer
}

// NewEngine creates a new Engine
func NewEngine(dialer ports.TransferDialer, in io.Reader, out io.Writer) *Engine {
	return &Engine{
		dialer: dialer,
		in:     bufio.NewReader(in),
		out:    out,
	}
}

// Run performs the startup handshake and the command loop. It returns the
// process exit code.
func (e *Engine) Run(ctx context.Context) int {
	creds, err := e.collectCredentials()
	if err != nil {
		logging.Logger.Error("Startup failed", "error", err)
		e.status(false, err.Error())
		return ExitFailure
	}

	logging.Logger.Info("Connecting", "host", creds.Host, "user", creds.Username, "method", creds.Method)
	transfer, err := e.dialer.Dial(ctx, creds)
	if err != nil {
		logging.Logger.Error("Connection failed", "host", creds.Host, "error", err)
		e.status(false, err.Error())
		return ExitFailure
	}
	e.status(true, protocol.ConnectedMessage(creds.Host, creds.Username))

	return e.loop(transfer)
}

func (e *Engine) collectCredentials() (ports.Credentials, error) {
	host, err := e.prompt(protocol.PromptHost, "hostname")
	if err != nil {
		return ports.Credentials{}, err
	}
	user, err := e.prompt(protocol.PromptUser, "username")
	if err != nil {
		return ports.Credentials{}, err
	}
	methodInput, err := e.prompt(protocol.PromptAuthMethod, "authentication method")
	if err != nil {
		return ports.Credentials{}, err
	}
	method, err := domain.ParseAuthMethod(methodInput)
	if err != nil {
		return ports.Credentials{}, err
	}

	var secret string
	if method == domain.AuthPassword {
		secret, err = e.prompt(protocol.PromptPassword, "password")
	} else {
		secret, err = e.prompt(protocol.PromptKeyPath, "private key path")
	}
	if err != nil {
		return ports.Credentials{}, err
	}

	return ports.Credentials{
		Host:     strings.TrimSpace(host),
		Method:   method,
		Secret:   secret,
		Username: strings.TrimSpace(user),
	}, nil
}

func (e *Engine) loop(transfer ports.Transfer) int {
	for {
		line, err := e.readLine()
		if err != nil {
			e.status(false, protocol.MsgReadInput)
			closeTransfer(transfer)
			return ExitOK
		}

		if !transfer.Alive() {
			logging.Logger.Error("Transfer session lost")
			e.status(false, protocol.MsgSessionLost)
			closeTransfer(transfer)
			return ExitFailure
		}

		cmd, err := protocol.ParseCommand(line)
		if err != nil {
			e.status(false, protocol.MsgUnknownCommand)
			continue
		}

		switch {
		case cmd.Name == protocol.CmdUpload && len(cmd.Args) == 2:
			e.upload(transfer, cmd.Args[0], cmd.Args[1])
		case cmd.Name == protocol.CmdRemove && len(cmd.Args) == 1:
			e.remove(transfer, cmd.Args[0])
		case cmd.Name == protocol.CmdExit && len(cmd.Args) == 0:
			e.status(true, protocol.MsgExiting)
			closeTransfer(transfer)
			e.status(true, protocol.MsgSessionClosed)
			return ExitOK
		default:
			logging.Logger.Warn("Unknown command", "line", line)
			e.status(false, protocol.MsgUnknownCommand)
		}
	}
}

func (e *Engine) upload(transfer ports.Transfer, localPath, remotePath string) {
	logging.Logger.Info("Upload started", "local", localPath, "remote", remotePath)
	err := Upload(transfer, localPath, remotePath, func(percent int) {
		e.writeLine(protocol.FormatProgress(remotePath, percent))
	})
	if err != nil {
		logging.Logger.Error("Upload failed", "remote", remotePath, "error", err)
		e.status(false, err.Error())
		return
	}
	e.status(true, protocol.MsgUploadOK)
}

func (e *Engine) remove(transfer ports.Transfer, remotePath string) {
	logging.Logger.Info("Remove started", "remote", remotePath)
	if err := RemoveRecursive(transfer, remotePath); err != nil {
		logging.Logger.Error("Remove failed", "remote", remotePath, "error", err)
		e.status(false, err.Error())
		return
	}
	e.status(true, protocol.MsgRemoveOK)
}

func (e *Engine) prompt(prompt, field string) (string, error) {
	e.writeLine(prompt)
	line, err := e.readLine()
	if err != nil {
		return "", fmt.Errorf("Failed to read %s", field)
	}
	return line, nil
}

// readLine returns the next line without its terminator. A final line without
// a newline is returned before io.EOF.
func (e *Engine) readLine() (string, error) {
	line, err := e.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (e *Engine) status(ok bool, message string) {
	e.writeLine(protocol.FormatStatus(ok, message))
}

func (e *Engine) writeLine(line string) {
	if _, err := io.WriteString(e.out, line+"\n"); err != nil {
		logging.Logger.Error("Failed to write protocol line", "error", err)
	}
}

func closeTransfer(transfer ports.Transfer) {
	if err := transfer.Close(); err != nil {
		logging.Logger.Debug("Failed to close transfer", "error", err)
	}
}
