package model

import "telegram-relay-bot/internal/domain"

// User is a domain entity representing a Telegram user known to the bot.
// The Telegram ID doubles as the storage primary key; Joined records whether
// the required-channel membership has been confirmed at least once.
type User struct {
	ID     int64
	Joined bool
}

func NewUser(tgID int64) (*User, error) {
	if tgID <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &User{ID: tgID}, nil
}

// MarkJoined flips the membership flag. The flag is monotonic: once a user
// has joined there is no path back to false.
func (u *User) MarkJoined() { u.Joined = true }
