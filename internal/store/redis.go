package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/draftforge/champ-select-backend/internal/draft"
)

const keyPrefix = "LOBBY#"

// Record field names and encodings are the store contract: every sequence
// is a JSON array string, turn and expiry are decimal strings.
const (
	fieldLobbyID           = "lobbyId"
	fieldBlueCaptain       = "blueCaptain"
	fieldRedCaptain        = "redCaptain"
	fieldSpectators        = "spectators"
	fieldState             = "state"
	fieldTurn              = "turn"
	fieldPreBans           = "preBans"
	fieldBlueTeamBans      = "blueTeamBans"
	fieldRedTeamBans       = "redTeamBans"
	fieldBlueTeamChampions = "blueTeamChampions"
	fieldRedTeamChampions  = "redTeamChampions"
	fieldExpiry            = "expiry"
)

type redisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) Store {
	return &redisStore{client: client}
}

func lobbyKey(id string) string {
	return keyPrefix + id
}

func (s *redisStore) Put(ctx context.Context, l *draft.Lobby) error {
	if l == nil {
		return errors.New("lobby cannot be nil")
	}

	fields, err := encodeLobby(l)
	if err != nil {
		return fmt.Errorf("failed to encode lobby %s: %w", l.LobbyID, err)
	}

	pipe := s.client.Pipeline()
	pipe.HSet(ctx, lobbyKey(l.LobbyID), fields...)
	if !l.Expiry.IsZero() {
		pipe.ExpireAt(ctx, lobbyKey(l.LobbyID), l.Expiry)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to put lobby %s: %w", l.LobbyID, err)
	}
	return nil
}

func (s *redisStore) Get(ctx context.Context, lobbyID string) (*draft.Lobby, error) {
	fields, err := s.client.HGetAll(ctx, lobbyKey(lobbyID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get lobby %s: %w", lobbyID, err)
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}

	l, err := decodeLobby(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to decode lobby %s: %w", lobbyID, err)
	}
	return l, nil
}

func (s *redisStore) List(ctx context.Context) ([]*draft.Lobby, error) {
	var keys []string
	var cursor uint64
	for {
		batch, next, err := s.client.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan lobbies: %w", err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	lobbies := make([]*draft.Lobby, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		g.Go(func() error {
			l, err := s.Get(gctx, key[len(keyPrefix):])
			if errors.Is(err, ErrNotFound) {
				// Expired between scan and get.
				return nil
			}
			if err != nil {
				return err
			}
			lobbies[i] = l
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*draft.Lobby, 0, len(lobbies))
	for _, l := range lobbies {
		if l != nil {
			out = append(out, l)
		}
	}
	return out, nil
}

// encodeLobby emits field-value pairs in a fixed order so writes are
// deterministic.
func encodeLobby(l *draft.Lobby) ([]any, error) {
	fields := []any{
		fieldLobbyID, l.LobbyID,
		fieldBlueCaptain, l.BlueCaptain,
		fieldRedCaptain, l.RedCaptain,
		fieldState, string(l.State),
		fieldTurn, strconv.Itoa(l.Turn),
		fieldExpiry, strconv.FormatInt(l.Expiry.Unix(), 10),
	}

	lists := []struct {
		field string
		value []string
	}{
		{fieldSpectators, l.Spectators},
		{fieldPreBans, l.PreBans},
		{fieldBlueTeamBans, l.BlueTeamBans},
		{fieldRedTeamBans, l.RedTeamBans},
		{fieldBlueTeamChampions, l.BlueTeamChampions},
		{fieldRedTeamChampions, l.RedTeamChampions},
	}
	for _, entry := range lists {
		encoded, err := encodeList(entry.value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", entry.field, err)
		}
		fields = append(fields, entry.field, encoded)
	}
	return fields, nil
}

func decodeLobby(fields map[string]string) (*draft.Lobby, error) {
	turn, err := strconv.Atoi(fields[fieldTurn])
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", fieldTurn, err)
	}
	expiry, err := strconv.ParseInt(fields[fieldExpiry], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", fieldExpiry, err)
	}

	l := &draft.Lobby{
		LobbyID:     fields[fieldLobbyID],
		BlueCaptain: fields[fieldBlueCaptain],
		RedCaptain:  fields[fieldRedCaptain],
		State:       draft.Phase(fields[fieldState]),
		Turn:        turn,
		Expiry:      time.Unix(expiry, 0).UTC(),
	}

	lists := []struct {
		field string
		dest  *[]string
	}{
		{fieldSpectators, &l.Spectators},
		{fieldPreBans, &l.PreBans},
		{fieldBlueTeamBans, &l.BlueTeamBans},
		{fieldRedTeamBans, &l.RedTeamBans},
		{fieldBlueTeamChampions, &l.BlueTeamChampions},
		{fieldRedTeamChampions, &l.RedTeamChampions},
	}
	for _, entry := range lists {
		decoded, err := decodeList(fields[entry.field])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", entry.field, err)
		}
		*entry.dest = decoded
	}
	return l, nil
}

func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeList(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, err
	}
	return values, nil
}
