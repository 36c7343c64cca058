package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"ghichat/internal/chat"
	"ghichat/internal/config"
	"ghichat/internal/gateway"
	"ghichat/internal/login"
	"ghichat/internal/session"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad()

	gw := gateway.NewClient(cfg.BaseURL)

	path := cfg.SessionFile
	if path == "" {
		path = session.DefaultPath()
	}
	store := session.NewStore(path)

	sess, ok := store.Load()
	if !ok {
		var err error
		sess, err = promptLogin(gw, store)
		if err != nil {
			log.Fatalf("login failed: %v", err)
		}
	}
	fmt.Printf("Logged in as user %d (since %s)\n", sess.UserID,
		sess.EstablishedAt().Local().Format(time.RFC822))

	engine := chat.NewEngine(gw, cfg.ConversationID, sess.UserID)
	view := &renderer{selfID: sess.UserID, printed: make(map[int64]struct{})}
	engine.OnUpdate(view.update)

	ctx := context.Background()
	poller := chat.StartPoller(ctx, engine, time.Duration(cfg.PollIntervalSec)*time.Second)
	defer poller.Stop()

	fmt.Println(`Type a message and press enter. "/quit" leaves the chat.`)
	in := bufio.NewScanner(os.Stdin)
	for in.Scan() {
		line := in.Text()
		if line == "/quit" {
			break
		}
		engine.SetDraft(line)
		if err := engine.Send(ctx, line); err != nil {
			switch {
			case errors.Is(err, chat.ErrEmptyMessage):
				// nothing to do
			case errors.Is(err, chat.ErrNoPeer):
				fmt.Println("still loading the conversation, try again in a moment")
			default:
				fmt.Printf("send failed: %v (your draft is kept)\n", err)
			}
		}
	}
	poller.Stop()
}

func promptLogin(gw *gateway.Client, store *session.Store) (session.Session, error) {
	flow := &login.Flow{Gateway: gw, Store: store}
	in := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("Email: ")
		email, err := in.ReadString('\n')
		if err != nil {
			return session.Session{}, err
		}
		fmt.Print("Password: ")
		password, err := in.ReadString('\n')
		if err != nil {
			return session.Session{}, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		sess, err := flow.Login(ctx, strings.TrimSpace(email), strings.TrimRight(password, "\r\n"))
		cancel()
		if err != nil {
			fmt.Println(err)
			continue
		}
		return sess, nil
	}
}

// renderer prints messages as they arrive, remembering what was already
// shown so each update only appends the new tail. Updates may come from
// the poller goroutine or from a send's immediate refresh.
type renderer struct {
	selfID int64

	mu      sync.Mutex
	printed map[int64]struct{}
	header  bool
}

func (r *renderer) update(c chat.Conversation) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.header {
		status := "offline"
		switch {
		case c.Other.Online:
			status = "online"
		case !c.Other.LastSeenAt.IsZero():
			status = "last seen " + c.Other.LastSeenAt.Local().Format("Jan 2 15:04")
		}
		fmt.Printf("-- %s (%s) --\n", c.Other.Name, status)
		r.header = true
	}

	for _, m := range c.Messages {
		if _, ok := r.printed[m.ID]; ok {
			continue
		}
		r.printed[m.ID] = struct{}{}
		who := c.Other.Name
		if m.SenderID == r.selfID {
			who = "me"
		}
		fmt.Printf("[%s] %s: %s\n", m.SentAt.Local().Format("15:04"), who, m.Body)
	}
}
