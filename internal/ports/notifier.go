package ports

// Notifier surfaces operator-visible messages to the host
type Notifier interface {
	Error(msg string)
	Info(msg string)
	Warn(msg string)
}
