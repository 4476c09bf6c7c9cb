// Package memory implements repository.Store on plain maps. It backs the
// use case tests; WithinTx runs the callback directly and does not roll
// back on error.
package memory

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/leomatch/leomatch-backend/internal/domain"
	"github.com/leomatch/leomatch-backend/internal/repository"
)

type Store struct {
	mu sync.Mutex

	users         map[int]*domain.User
	registrations map[int64]*domain.RegistrationState
	media         map[int]*domain.MediaAsset
	reactions     map[[2]int]*domain.Reaction
	matches       map[int]*domain.Match
	messages      map[int]*domain.Message

	nextUserID    int
	nextMediaID   int
	nextMatchID   int
	nextMessageID int
}

func NewStore() *Store {
	return &Store{
		users:         map[int]*domain.User{},
		registrations: map[int64]*domain.RegistrationState{},
		media:         map[int]*domain.MediaAsset{},
		reactions:     map[[2]int]*domain.Reaction{},
		matches:       map[int]*domain.Match{},
		messages:      map[int]*domain.Message{},
	}
}

func (s *Store) Users() repository.UserRepository                 { return (*userRepo)(s) }
func (s *Store) Registrations() repository.RegistrationRepository { return (*registrationRepo)(s) }
func (s *Store) Media() repository.MediaRepository                { return (*mediaRepo)(s) }
func (s *Store) Reactions() repository.ReactionRepository         { return (*reactionRepo)(s) }
func (s *Store) Matches() repository.MatchRepository              { return (*matchRepo)(s) }
func (s *Store) Messages() repository.MessageRepository           { return (*messageRepo)(s) }

func (s *Store) WithinTx(_ context.Context, fn func(repository.Store) error) error {
	return fn(s)
}

type userRepo Store

func (r *userRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextUserID++
	user.ID = r.nextUserID
	user.CreatedAt = time.Now()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id int) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *userRepo) GetByTelegramID(_ context.Context, telegramID int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.TelegramID == telegramID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *userRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	stored.Age = user.Age
	stored.Gender = user.Gender
	stored.City = user.City
	stored.Bio = user.Bio
	stored.Status = user.Status
	stored.Verified = user.Verified
	return nil
}

func (r *userRepo) UpdateStatus(_ context.Context, id int, status domain.UserStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Status = status
	return nil
}

func (r *userRepo) SetVerified(_ context.Context, id int, verified bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Verified = verified
	return nil
}

func (r *userRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(r.registrations, u.TelegramID)
	for mid, m := range r.media {
		if m.UserID == id {
			delete(r.media, mid)
		}
	}
	for key := range r.reactions {
		if key[0] == id || key[1] == id {
			delete(r.reactions, key)
		}
	}
	for mid, m := range r.matches {
		if m.HasUser(id) {
			for msgID, msg := range r.messages {
				if msg.MatchID == mid {
					delete(r.messages, msgID)
				}
			}
			delete(r.matches, mid)
		}
	}
	delete(r.users, id)
	return nil
}

func (r *userRepo) RandomCandidate(_ context.Context, forUserID int) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var eligible []*domain.User
	for _, u := range r.users {
		if u.ID == forUserID || u.Status != domain.StatusActive {
			continue
		}
		if _, reacted := r.reactions[[2]int{forUserID, u.ID}]; reacted {
			continue
		}
		eligible = append(eligible, u)
	}
	if len(eligible) == 0 {
		return nil, nil
	}
	// Stable order before the random pick so tests can seed rand.
	sort.Slice(eligible, func(i, j int) bool { return eligible[i].ID < eligible[j].ID })
	cp := *eligible[rand.Intn(len(eligible))]
	return &cp, nil
}

func (r *userRepo) List(_ context.Context, status domain.UserStatus, limit int) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, u := range r.users {
		if status != "" && u.Status != status {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type registrationRepo Store

func (r *registrationRepo) Get(_ context.Context, telegramID int64) (*domain.RegistrationState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.registrations[telegramID]
	if !ok {
		return nil, domain.ErrRegistrationNotFound
	}
	cp := *st
	return &cp, nil
}

func (r *registrationRepo) Upsert(_ context.Context, state *domain.RegistrationState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	state.UpdatedAt = time.Now()
	cp := *state
	r.registrations[state.TelegramID] = &cp
	return nil
}

func (r *registrationRepo) Delete(_ context.Context, telegramID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.registrations[telegramID]; !ok {
		return domain.ErrRegistrationNotFound
	}
	delete(r.registrations, telegramID)
	return nil
}

type mediaRepo Store

func (r *mediaRepo) Add(_ context.Context, asset *domain.MediaAsset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextMediaID++
	asset.ID = r.nextMediaID
	asset.CreatedAt = time.Now()
	cp := *asset
	r.media[asset.ID] = &cp
	return nil
}

func (r *mediaRepo) CountByKind(_ context.Context, userID int, kind domain.MediaKind) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, m := range r.media {
		if m.UserID == userID && m.Kind == kind {
			count++
		}
	}
	return count, nil
}

func (r *mediaRepo) ListByUser(_ context.Context, userID int) ([]*domain.MediaAsset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.MediaAsset
	for _, m := range r.media {
		if m.UserID == userID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Position < out[j].Position
	})
	return out, nil
}

type reactionRepo Store

func (r *reactionRepo) Upsert(_ context.Context, reaction *domain.Reaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]int{reaction.FromUserID, reaction.ToUserID}
	if existing, ok := r.reactions[key]; ok {
		existing.Polarity = reaction.Polarity
		reaction.CreatedAt = existing.CreatedAt
		return nil
	}
	reaction.CreatedAt = time.Now()
	cp := *reaction
	r.reactions[key] = &cp
	return nil
}

func (r *reactionRepo) Get(_ context.Context, fromUserID, toUserID int) (*domain.Reaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	re, ok := r.reactions[[2]int{fromUserID, toUserID}]
	if !ok {
		return nil, nil
	}
	cp := *re
	return &cp, nil
}

type matchRepo Store

func (r *matchRepo) Create(_ context.Context, match *domain.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user1ID, user2ID := domain.NormalizePair(match.User1ID, match.User2ID)
	for _, m := range r.matches {
		if m.User1ID == user1ID && m.User2ID == user2ID && m.Status == domain.MatchActive {
			return domain.ErrMatchAlreadyExists
		}
	}
	r.nextMatchID++
	match.ID = r.nextMatchID
	match.User1ID = user1ID
	match.User2ID = user2ID
	match.Status = domain.MatchActive
	match.CreatedAt = time.Now()
	cp := *match
	r.matches[match.ID] = &cp
	return nil
}

func (r *matchRepo) GetActiveByUsers(_ context.Context, user1ID, user2ID int) (*domain.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user1ID, user2ID = domain.NormalizePair(user1ID, user2ID)
	for _, m := range r.matches {
		if m.User1ID == user1ID && m.User2ID == user2ID && m.Status == domain.MatchActive {
			cp := *m
			return &cp, nil
		}
	}
	return nil, domain.ErrMatchNotFound
}

func (r *matchRepo) GetActiveByUser(_ context.Context, userID int) ([]*domain.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Match
	for _, m := range r.matches {
		if m.HasUser(userID) && m.Status == domain.MatchActive {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *matchRepo) CloseAllForUser(_ context.Context, userID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	closed := 0
	for _, m := range r.matches {
		if m.HasUser(userID) && m.Status == domain.MatchActive {
			m.Status = domain.MatchClosed
			closed++
		}
	}
	return closed, nil
}

type messageRepo Store

func (r *messageRepo) Create(_ context.Context, message *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextMessageID++
	message.ID = r.nextMessageID
	message.CreatedAt = time.Now()
	cp := *message
	r.messages[message.ID] = &cp
	return nil
}

func (r *messageRepo) ListByMatch(_ context.Context, matchID, limit int) ([]*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Message
	for _, m := range r.messages {
		if m.MatchID == matchID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
