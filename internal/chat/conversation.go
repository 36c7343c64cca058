package chat

import (
	"sort"
	"time"
)

// User is one conversation participant. Identity fields are stable for the
// lifetime of a session; the presence fields are refreshed on every poll.
type User struct {
	ID         int64
	Name       string
	Email      string
	AvatarURL  string
	Online     bool
	LastSeenAt time.Time
}

// Message is a single chat message. Messages are created server-side and
// never mutated by the client.
type Message struct {
	ID          int64
	SenderID    int64
	RecipientID int64
	Body        string
	SentAt      time.Time
	Read        bool
}

// Snapshot is a raw fetched view of one conversation, participants and
// messages in no particular order.
type Snapshot struct {
	Users    []User
	Messages []Message
}

// Outgoing is a message about to be posted. It carries no timestamp; the
// server assigns one on insert.
type Outgoing struct {
	ConversationID int64
	From           int64
	To             int64
	Body           string
}

// Conversation is the single chat thread between the authenticated user
// and one counterpart. Messages are kept sorted ascending by SentAt with
// no duplicate IDs.
type Conversation struct {
	ID                 int64
	Self               User
	Other              User
	Messages           []Message
	LastMessagePreview string
	LastMessageTime    time.Time
}

// sortMessages drops duplicate IDs (first occurrence wins) and orders the
// rest ascending by SentAt, with ID as the tie-break for equal timestamps.
func sortMessages(msgs []Message) []Message {
	out := make([]Message, 0, len(msgs))
	seen := make(map[int64]struct{}, len(msgs))
	for _, m := range msgs {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SentAt.Equal(out[j].SentAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].SentAt.Before(out[j].SentAt)
	})
	return out
}

// splitParticipants picks out the authenticated user and their peer from a
// fetched participant list. ok is false when the list does not contain the
// authenticated user at all, which marks the snapshot as unusable.
func splitParticipants(users []User, selfID int64) (self, other User, ok bool) {
	var haveOther bool
	for _, u := range users {
		switch {
		case u.ID == selfID:
			self, ok = u, true
		case !haveOther:
			other, haveOther = u, true
		}
	}
	return self, other, ok
}
