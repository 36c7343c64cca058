package gateway

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"ghichat/internal/chat"
)

// wireTime accepts the two datetime layouts the backend has been seen
// emitting: RFC3339 and SQL-style "2006-01-02 15:04:05".
type wireTime struct {
	time.Time
}

var wireLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

func (t *wireTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range wireLayouts {
		if v, err := time.Parse(layout, s); err == nil {
			t.Time = v
			return nil
		}
	}
	return fmt.Errorf("unrecognized datetime %q", s)
}

type wireMessage struct {
	ID        int64    `json:"id"`
	Contenu   string   `json:"contenu"`
	FromUser  int64    `json:"fromuser"`
	ToUser    int64    `json:"touser"`
	DateEnvoi wireTime `json:"date_envoi"`
	Lu        bool     `json:"lu"`
}

// wireUser carries no id field; the backend keys the users map by id.
type wireUser struct {
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	PhotoProfil       string   `json:"photo_profil"`
	EnLigne           bool     `json:"en_ligne"`
	DerniereConnexion wireTime `json:"derniere_connexion"`
}

type wireConversation struct {
	Messages map[string]wireMessage `json:"messages"`
	Users    map[string]wireUser    `json:"users"`
}

// sendPayload deliberately has no date_envoi; the server assigns it.
type sendPayload struct {
	FromUser       int64  `json:"fromuser"`
	ToUser         int64  `json:"touser"`
	Contenu        string `json:"contenu"`
	Lu             bool   `json:"lu"`
	ConversationID int64  `json:"conversation"`
}

// toSnapshot flattens the backend's keyed maps into the domain shape.
// Order is whatever map iteration produced; the sync engine owns ordering.
func (w wireConversation) toSnapshot() *chat.Snapshot {
	snap := &chat.Snapshot{
		Users:    make([]chat.User, 0, len(w.Users)),
		Messages: make([]chat.Message, 0, len(w.Messages)),
	}
	for key, u := range w.Users {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		snap.Users = append(snap.Users, chat.User{
			ID:         id,
			Name:       u.Name,
			Email:      u.Email,
			AvatarURL:  u.PhotoProfil,
			Online:     u.EnLigne,
			LastSeenAt: u.DerniereConnexion.Time,
		})
	}
	for _, m := range w.Messages {
		snap.Messages = append(snap.Messages, chat.Message{
			ID:          m.ID,
			SenderID:    m.FromUser,
			RecipientID: m.ToUser,
			Body:        m.Contenu,
			SentAt:      m.DateEnvoi.Time,
			Read:        m.Lu,
		})
	}
	return snap
}
