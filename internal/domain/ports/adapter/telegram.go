package adapter

import "context"

// MembershipStatus classifies a channel-membership query result.
type MembershipStatus int

const (
	// MembershipUnknown means the query itself failed (network error, or the
	// bot lacks admin rights in the channel). Gate-wise it counts as not
	// joined, but diagnostics must tell it apart from a genuine non-member.
	MembershipUnknown MembershipStatus = iota
	MembershipMember
	MembershipNotMember
)

func (s MembershipStatus) String() string {
	switch s {
	case MembershipMember:
		return "member"
	case MembershipNotMember:
		return "not-member"
	default:
		return "permission-error"
	}
}

type InlineButton struct {
	Text string
	Data string
	URL  string
}

// TelegramBotAdapter is the port for the chat transport. Usecases depend on
// this interface; the tgbotapi implementation lives in infra.
type TelegramBotAdapter interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendButtons(ctx context.Context, chatID int64, text string, rows [][]InlineButton) error
	// EditMessage rewrites a previously sent message in place (join prompt ->
	// success text after a passed recheck).
	EditMessage(ctx context.Context, chatID int64, messageID int, text string) error
	// AnswerCallback acks an inline-button press; alert=true shows a popup
	// instead of a toast.
	AnswerCallback(ctx context.Context, callbackID string, text string, alert bool) error
	// CheckChannelMember asks Telegram whether the user currently belongs to
	// the required channel.
	CheckChannelMember(ctx context.Context, userID int64) MembershipStatus
}
