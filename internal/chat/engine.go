// Package chat holds the conversation model and the sync engine that keeps
// it reconciled with the backend through periodic polling.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
)

var (
	// ErrEmptyMessage rejects a send whose body is empty or whitespace.
	ErrEmptyMessage = errors.New("message body is empty")
	// ErrNoPeer rejects a send before the peer is known from a snapshot.
	ErrNoPeer = errors.New("no peer known yet")
)

// Backend is the slice of the gateway the engine depends on.
// FetchConversation returns (nil, nil) when the server has no snapshot for
// the conversation; that is a no-op for the engine, not an error.
type Backend interface {
	FetchConversation(ctx context.Context, conversationID int64) (*Snapshot, error)
	SendMessage(ctx context.Context, out Outgoing) error
}

// Engine owns the authoritative local Conversation value for one thread.
// A poll tick and a user-initiated send may land in either order; access
// is serialized by the mutex and both orders converge to the same merged
// state because every snapshot is a full server-side view.
type Engine struct {
	backend        Backend
	conversationID int64
	selfID         int64

	mu       sync.Mutex
	convo    *Conversation
	draft    string
	onUpdate func(Conversation)
}

func NewEngine(backend Backend, conversationID, selfID int64) *Engine {
	return &Engine{
		backend:        backend,
		conversationID: conversationID,
		selfID:         selfID,
	}
}

// OnUpdate registers the callback invoked after every applied snapshot.
// The callback receives a copy and must not assume a goroutine.
func (e *Engine) OnUpdate(fn func(Conversation)) {
	e.mu.Lock()
	e.onUpdate = fn
	e.mu.Unlock()
}

// Conversation returns a copy of the current state, false before the first
// successful refresh.
func (e *Engine) Conversation() (Conversation, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.convo == nil {
		return Conversation{}, false
	}
	return e.copyLocked(), true
}

func (e *Engine) Draft() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

func (e *Engine) SetDraft(s string) {
	e.mu.Lock()
	e.draft = s
	e.mu.Unlock()
}

// Refresh fetches the remote snapshot and merges it over local state.
// On fetch error the previous Conversation is retained untouched; the
// error is logged here and returned so the caller can count it, but a
// flaky network never blanks the chat. An absent snapshot, or one that
// does not include the authenticated user, is a no-op.
func (e *Engine) Refresh(ctx context.Context) error {
	snap, err := e.backend.FetchConversation(ctx, e.conversationID)
	if err != nil {
		slog.Warn("conversation refresh failed", "conversation", e.conversationID, "err", err)
		return err
	}
	if snap == nil {
		return nil
	}
	self, other, ok := splitParticipants(snap.Users, e.selfID)
	if !ok {
		return nil
	}
	msgs := sortMessages(snap.Messages)

	e.mu.Lock()
	e.apply(self, other, msgs)
	fn := e.onUpdate
	var view Conversation
	if fn != nil {
		view = e.copyLocked()
	}
	e.mu.Unlock()

	if fn != nil {
		fn(view)
	}
	return nil
}

// Send posts body to the peer. Blank bodies and sends before the peer is
// known never reach the network. On success the draft is cleared and one
// immediate refresh runs so the message shows up without waiting for the
// next tick. On failure the draft survives and no retry is attempted.
func (e *Engine) Send(ctx context.Context, body string) error {
	if strings.TrimSpace(body) == "" {
		return ErrEmptyMessage
	}

	e.mu.Lock()
	var to int64
	if e.convo != nil {
		to = e.convo.Other.ID
	}
	e.mu.Unlock()
	if to == 0 {
		return ErrNoPeer
	}

	out := Outgoing{
		ConversationID: e.conversationID,
		From:           e.selfID,
		To:             to,
		Body:           body,
	}
	if err := e.backend.SendMessage(ctx, out); err != nil {
		return err
	}

	e.mu.Lock()
	e.draft = ""
	e.mu.Unlock()

	// The send itself succeeded; a failed follow-up refresh already logged
	// itself and resolves on the next poll tick.
	_ = e.Refresh(ctx)
	return nil
}

// apply overlays a fetched snapshot onto the current conversation. The
// Conversation value survives across refreshes; only the message list, the
// preview fields and participant presence are replaced.
func (e *Engine) apply(self, other User, msgs []Message) {
	if e.convo == nil {
		e.convo = &Conversation{ID: e.conversationID}
	}
	e.convo.Self = self
	e.convo.Other = other
	e.convo.Messages = msgs
	if len(msgs) > 0 {
		last := msgs[len(msgs)-1]
		e.convo.LastMessagePreview = last.Body
		e.convo.LastMessageTime = last.SentAt
	} else {
		e.convo.LastMessagePreview = ""
		e.convo.LastMessageTime = time.Time{}
	}
}

func (e *Engine) copyLocked() Conversation {
	c := *e.convo
	c.Messages = append([]Message(nil), e.convo.Messages...)
	return c
}
