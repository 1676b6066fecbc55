package i

// Logger writes leveled messages for one component.
type Logger interface {
	Info(string)
	Warning(string)
	Error(string)
}
