// Package server is the dev backend stub: the /testReact endpoints the
// client polls, backed by SQL storage.
package server

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"ghichat/internal/auth"
	"ghichat/internal/config"
	"ghichat/internal/httpx"
	"ghichat/internal/storage"
	"ghichat/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Service struct {
	DB  *storage.DB
	Cfg config.Config
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type sendReq struct {
	FromUser       int64  `json:"fromuser" binding:"required"`
	ToUser         int64  `json:"touser" binding:"required"`
	Contenu        string `json:"contenu" binding:"required"`
	Lu             bool   `json:"lu"`
	ConversationID int64  `json:"conversation" binding:"required"`
}

func Register(r *gin.Engine, db *storage.DB, cfg config.Config) {
	s := Service{DB: db, Cfg: cfg}

	rg := r.Group("/testReact")
	rg.POST("/login", s.login)
	rg.GET("/convo", s.conversation)
	rg.POST("/sendMessage", s.sendMessage)

	authed := rg.Group("")
	authed.Use(auth.Middleware(cfg.JWTSecret))
	authed.GET("/me", s.me)
}

func (s Service) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			httpx.Err(c, http.StatusBadRequest, utils.ValidationErr(validationErrors))
			return
		}
		httpx.Err(c, http.StatusBadRequest, err.Error())
		return
	}

	row := s.DB.QueryRow(s.DB.Rebind(`SELECT id, password_hash FROM users WHERE email=?`), req.Email)

	var id int64
	var hash string
	if err := row.Scan(&id, &hash); err != nil {
		httpx.Err(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err := auth.CheckPassword(hash, req.Password); err != nil {
		httpx.Err(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	now := time.Now().UTC().Format(storage.TimeLayout)
	_, _ = s.DB.Exec(s.DB.Rebind(`UPDATE users SET en_ligne=1, derniere_connexion=? WHERE id=?`), now, id)

	tok, err := auth.NewToken(s.Cfg.JWTSecret, id, s.Cfg.JWTTTLMin)
	if err != nil {
		httpx.Err(c, http.StatusInternalServerError, "token generation failed")
		return
	}
	c.SetCookie(auth.SessionCookie, tok, s.Cfg.JWTTTLMin*60, "/", "", false, true)

	httpx.OK(c, gin.H{"userId": id})
}

// conversation renders the keyed envelope the client polls:
// {"conversation_<id>": {"messages": {...}, "users": {...}}}. An unknown
// conversation yields an empty object, not an error.
func (s Service) conversation(c *gin.Context) {
	cid, err := strconv.ParseInt(c.Query("conversation"), 10, 64)
	if err != nil {
		httpx.Err(c, http.StatusBadRequest, "invalid conversation id")
		return
	}

	users, err := s.participants(cid)
	if err != nil {
		httpx.Err(c, http.StatusInternalServerError, "database error")
		return
	}
	if len(users) == 0 {
		httpx.OK(c, gin.H{})
		return
	}

	messages, err := s.messages(cid)
	if err != nil {
		httpx.Err(c, http.StatusInternalServerError, "database error")
		return
	}

	key := fmt.Sprintf("conversation_%d", cid)
	httpx.OK(c, gin.H{key: gin.H{"messages": messages, "users": users}})
}

func (s Service) participants(cid int64) (gin.H, error) {
	rows, err := s.DB.Query(s.DB.Rebind(`
		SELECT u.id, u.name, u.email, COALESCE(u.photo_profil, ''), u.en_ligne, COALESCE(u.derniere_connexion, '')
		FROM users u
		JOIN participants p ON p.user_id = u.id
		WHERE p.conversation_id=?`), cid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := gin.H{}
	for rows.Next() {
		var (
			id           int64
			name, email  string
			photo, seen  string
			enLigne      int
		)
		if err := rows.Scan(&id, &name, &email, &photo, &enLigne, &seen); err != nil {
			return nil, err
		}
		users[strconv.FormatInt(id, 10)] = gin.H{
			"name":               name,
			"email":              email,
			"photo_profil":       photo,
			"en_ligne":           enLigne == 1,
			"derniere_connexion": seen,
		}
	}
	return users, rows.Err()
}

func (s Service) messages(cid int64) (gin.H, error) {
	rows, err := s.DB.Query(s.DB.Rebind(`
		SELECT id, fromuser, touser, contenu, date_envoi, lu
		FROM messages WHERE conversation_id=?`), cid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := gin.H{}
	for rows.Next() {
		var (
			id, from, to int64
			contenu, at  string
			lu           int
		)
		if err := rows.Scan(&id, &from, &to, &contenu, &at, &lu); err != nil {
			return nil, err
		}
		messages[strconv.FormatInt(id, 10)] = gin.H{
			"id":         id,
			"contenu":    contenu,
			"fromuser":   from,
			"touser":     to,
			"date_envoi": at,
			"lu":         lu == 1,
		}
	}
	return messages, rows.Err()
}

func (s Service) sendMessage(c *gin.Context) {
	var req sendReq
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			httpx.Err(c, http.StatusBadRequest, utils.ValidationErr(validationErrors))
			return
		}
		httpx.Err(c, http.StatusBadRequest, err.Error())
		return
	}

	// sender must be a participant of the conversation
	var n int
	_ = s.DB.QueryRow(s.DB.Rebind(
		`SELECT COUNT(1) FROM participants WHERE conversation_id=? AND user_id=?`),
		req.ConversationID, req.FromUser).Scan(&n)
	if n == 0 {
		httpx.Err(c, http.StatusForbidden, "not a participant")
		return
	}

	// date_envoi is assigned here; whatever the client thinks the time is
	// does not matter.
	now := time.Now().UTC().Format(storage.TimeLayout)
	lu := 0
	if req.Lu {
		lu = 1
	}
	_, err := s.DB.Exec(s.DB.Rebind(
		`INSERT INTO messages (conversation_id, fromuser, touser, contenu, date_envoi, lu) VALUES (?, ?, ?, ?, ?, ?)`),
		req.ConversationID, req.FromUser, req.ToUser, req.Contenu, now, lu)
	if err != nil {
		httpx.Err(c, http.StatusBadRequest, "insert failed")
		return
	}

	httpx.OK(c, gin.H{"ok": true})
}

func (s Service) me(c *gin.Context) {
	uid := auth.MustUserID(c)
	if uid == 0 {
		httpx.Err(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	row := s.DB.QueryRow(s.DB.Rebind(
		`SELECT id, name, email, COALESCE(photo_profil, ''), en_ligne, COALESCE(derniere_connexion, '')
		 FROM users WHERE id=?`), uid)

	var (
		id          int64
		name, email string
		photo, seen string
		enLigne     int
	)
	if err := row.Scan(&id, &name, &email, &photo, &enLigne, &seen); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			httpx.Err(c, http.StatusNotFound, "user not found")
			return
		}
		httpx.Err(c, http.StatusInternalServerError, "database error")
		return
	}

	httpx.OK(c, gin.H{
		"id":                 id,
		"name":               name,
		"email":              email,
		"photo_profil":       photo,
		"en_ligne":           enLigne == 1,
		"derniere_connexion": seen,
	})
}
