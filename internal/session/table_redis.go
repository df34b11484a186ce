package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	id "shopfront/pkg/domain"
	dErrors "shopfront/pkg/domain-errors"
	"shopfront/pkg/platform/sentinel"
)

const (
	sessionKeyPrefix = "shop:session:"
	ticketKeyPrefix  = "shop:ticket:"
)

// RedisTable stores sessions in Redis so shopping state survives a
// process restart. Mutations are read-modify-write on a single key; the
// gateway serializes interactions per user, matching the in-memory
// table's consistency level.
type RedisTable struct {
	client *redis.Client
}

func NewRedisTable(client *redis.Client) *RedisTable {
	return &RedisTable{client: client}
}

func sessionKey(userID id.UserID) string { return sessionKeyPrefix + string(userID) }
func ticketKey(ref id.ChannelID) string  { return ticketKeyPrefix + string(ref) }

func (t *RedisTable) load(ctx context.Context, userID id.UserID) (Session, error) {
	data, err := t.client.Get(ctx, sessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{UserID: userID}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("load session %s: %w", userID, err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("decode session %s: %w", userID, err)
	}
	return s, nil
}

func (t *RedisTable) save(ctx context.Context, s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", s.UserID, err)
	}
	if err := t.client.Set(ctx, sessionKey(s.UserID), data, 0).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", s.UserID, err)
	}
	return nil
}

func (t *RedisTable) GetOrCreate(ctx context.Context, userID id.UserID) (Session, error) {
	return t.load(ctx, userID)
}

func (t *RedisTable) SetNamespace(ctx context.Context, userID id.UserID, ns id.Namespace) error {
	if ns == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "namespace cannot be empty")
	}
	s, err := t.load(ctx, userID)
	if err != nil {
		return err
	}
	if s.Namespace == ns {
		return nil
	}
	s.Namespace = ns
	s.Cart = nil
	return t.save(ctx, s)
}

func (t *RedisTable) AppendLine(ctx context.Context, userID id.UserID, line Line) error {
	if line.Name == "" || line.Category == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "cart line requires item name and category")
	}
	s, err := t.load(ctx, userID)
	if err != nil {
		return err
	}
	if s.Namespace == "" {
		return dErrors.New(dErrors.CodeBadRequest, "select a catalog before adding to the cart")
	}
	s.Cart = append(s.Cart, line)
	return t.save(ctx, s)
}

func (t *RedisTable) ClearCart(ctx context.Context, userID id.UserID) error {
	s, err := t.load(ctx, userID)
	if err != nil {
		return err
	}
	if len(s.Cart) == 0 {
		return nil
	}
	s.Cart = nil
	return t.save(ctx, s)
}

func (t *RedisTable) BindTicket(ctx context.Context, userID id.UserID, ref id.ChannelID) error {
	if ref.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "ticket reference cannot be empty")
	}
	s, err := t.load(ctx, userID)
	if err != nil {
		return err
	}
	if s.TicketRef == ref {
		return nil
	}
	if !s.TicketRef.IsZero() {
		if err := t.client.Del(ctx, ticketKey(s.TicketRef)).Err(); err != nil {
			return fmt.Errorf("drop stale ticket index: %w", err)
		}
	}
	s.TicketRef = ref
	if err := t.save(ctx, s); err != nil {
		return err
	}
	if err := t.client.Set(ctx, ticketKey(ref), string(userID), 0).Err(); err != nil {
		return fmt.Errorf("index ticket %s: %w", ref, err)
	}
	return nil
}

func (t *RedisTable) UnbindTicket(ctx context.Context, userID id.UserID) error {
	s, err := t.load(ctx, userID)
	if err != nil {
		return err
	}
	if s.TicketRef.IsZero() {
		return nil
	}
	ref := s.TicketRef
	s.TicketRef = ""
	if err := t.save(ctx, s); err != nil {
		return err
	}
	if err := t.client.Del(ctx, ticketKey(ref)).Err(); err != nil {
		return fmt.Errorf("drop ticket index: %w", err)
	}
	return nil
}

func (t *RedisTable) FindByTicket(ctx context.Context, ref id.ChannelID) (Session, error) {
	if ref.IsZero() {
		return Session{}, sentinel.ErrNotFound
	}
	user, err := t.client.Get(ctx, ticketKey(ref)).Result()
	if errors.Is(err, redis.Nil) {
		return Session{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("resolve ticket %s: %w", ref, err)
	}
	return t.load(ctx, id.UserID(user))
}
