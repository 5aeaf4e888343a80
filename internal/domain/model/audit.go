package model

// MaxAuditOutput bounds the output excerpt in an audit record so the log
// message stays under Telegram's 4096-character message limit.
const MaxAuditOutput = 3500

// AuditEntry is the ephemeral record of one handled command. It is formatted,
// sent once to the log channel, and discarded; nothing here is persisted.
type AuditEntry struct {
	ID           string // sortable id assigned by the audit logger
	UserID       int64
	Username     string
	Command      string
	Input        string
	Output       string
	OutputTokens int // best-effort token count, 0 when unavailable
}

// TruncatedOutput returns the output cut to MaxAuditOutput characters. The
// cut lands on a rune boundary so multibyte text stays valid UTF-8.
func (e *AuditEntry) TruncatedOutput() string {
	if len(e.Output) <= MaxAuditOutput {
		return e.Output
	}
	runes := []rune(e.Output)
	if len(runes) <= MaxAuditOutput {
		return e.Output
	}
	return string(runes[:MaxAuditOutput])
}
