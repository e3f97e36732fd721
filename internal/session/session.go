// Package session keeps login sessions and their CSRF tokens in Redis.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found")

const keyPrefix = "lease:session:"

type Session struct {
	SID       string    `json:"sid"`
	User      string    `json:"user"`
	CSRFToken string    `json:"csrf_token"`
	CreatedAt time.Time `json:"created_at"`
}

type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Create opens a session for user and returns it with a fresh CSRF token
func (s *Store) Create(ctx context.Context, user string) (*Session, error) {
	sess := &Session{
		SID:       newID(),
		User:      user,
		CSRFToken: newID(),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Store) Get(ctx context.Context, sid string) (*Session, error) {
	if sid == "" {
		return nil, ErrSessionNotFound
	}

	raw, err := s.client.Get(ctx, Key(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

// CSRFToken returns the token bound to sid, minting one if the session has none
func (s *Store) CSRFToken(ctx context.Context, sid string) (string, error) {
	sess, err := s.Get(ctx, sid)
	if err != nil {
		return "", err
	}
	if sess.CSRFToken != "" {
		return sess.CSRFToken, nil
	}

	sess.CSRFToken = newID()
	if err := s.save(ctx, sess); err != nil {
		return "", err
	}
	return sess.CSRFToken, nil
}

func (s *Store) Delete(ctx context.Context, sid string) error {
	return s.client.Del(ctx, Key(sid)).Err()
}

func (s *Store) save(ctx context.Context, sess *Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, Key(sess.SID), raw, s.ttl).Err()
}

// Key is the redis key holding a session
func Key(sid string) string {
	return keyPrefix + sid
}

func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
