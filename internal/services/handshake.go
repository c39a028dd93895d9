package services

import (
	"strings"

	"github.com/renato0307/ferry/internal/domain"
	"github.com/renato0307/ferry/internal/protocol"
)

// handshakeCredentials are the answers fed to the worker's startup prompts
type handshakeCredentials struct {
	Host   string
	Method string
	Secret string
	User   string
}

// handshakeStep is the outcome of feeding one worker line to the handshake
type handshakeStep struct {
	Connected bool
	Failure   string
	Phase     domain.Phase
	Reply     string
	Send      bool
}

// advanceHandshake computes the next phase and the reply for a worker line.
// Lines that do not match the prompt expected in the current phase leave the
// phase unchanged and produce no reply.
func advanceHandshake(phase domain.Phase, line string, creds handshakeCredentials) handshakeStep {
	step := handshakeStep{Phase: phase}
	if !phase.Connecting() {
		return step
	}

	status, isStatus := protocol.ParseStatus(line)
	if isStatus && !status.OK {
		step.Phase = domain.PhaseDisconnected
		step.Failure = status.Message
		return step
	}

	prompt := strings.TrimSpace(line)
	reply := func(next domain.Phase, value string) handshakeStep {
		return handshakeStep{Phase: next, Reply: value, Send: true}
	}

	switch phase {
	case domain.PhaseAwaitingHost:
		if prompt == strings.TrimSpace(protocol.PromptHost) {
			return reply(domain.PhaseAwaitingUser, creds.Host)
		}
	case domain.PhaseAwaitingUser:
		if prompt == strings.TrimSpace(protocol.PromptUser) {
			return reply(domain.PhaseAwaitingCredential, creds.User)
		}
	case domain.PhaseAwaitingCredential:
		switch prompt {
		case strings.TrimSpace(protocol.PromptAuthMethod):
			return reply(domain.PhaseAwaitingCredential, creds.Method)
		case strings.TrimSpace(protocol.PromptPassword), strings.TrimSpace(protocol.PromptKeyPath):
			return reply(domain.PhaseReady, creds.Secret)
		}
	case domain.PhaseReady:
		if isStatus && status.IsConnected() {
			step.Phase = domain.PhaseActive
			step.Connected = true
		}
	}
	return step
}
