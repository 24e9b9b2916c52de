package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/bankcli/internal/client/models"
	"github.com/dmitrijs2005/bankcli/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/bankcli/internal/dbx"
)

// Metadata keys of the persisted session.
const (
	KeyAccessToken  = "token"
	KeyRefreshToken = "refresh_token"
	KeyExpiresAt    = "token_expires_at"
	KeyUser         = "user"
)

var sessionKeys = []string{KeyAccessToken, KeyRefreshToken, KeyExpiresAt, KeyUser}

// MetadataStore keeps the session in the metadata table of the local SQLite
// database. Every operation runs in one transaction.
type MetadataStore struct {
	db *sql.DB
}

func NewMetadataStore(db *sql.DB) *MetadataStore {
	return &MetadataStore{db: db}
}

func (m *MetadataStore) Save(ctx context.Context, s *models.Session) error {
	if !s.Complete() {
		return m.Clear(ctx)
	}

	var user []byte
	if s.User != nil {
		var err error
		if user, err = json.Marshal(s.User); err != nil {
			return fmt.Errorf("encode user: %w", err)
		}
	}
	expiresAt := []byte(s.ExpiresAt.UTC().Format(time.RFC3339Nano))

	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, KeyAccessToken, []byte(s.AccessToken)); err != nil {
			return err
		}
		if err := repo.Set(ctx, KeyRefreshToken, []byte(s.RefreshToken)); err != nil {
			return err
		}
		if err := repo.Set(ctx, KeyExpiresAt, expiresAt); err != nil {
			return err
		}
		if user == nil {
			return repo.Delete(ctx, KeyUser)
		}
		return repo.Set(ctx, KeyUser, user)
	})
}

func (m *MetadataStore) Load(ctx context.Context) (*models.Session, error) {
	values, err := dbx.WithTxValue(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) (map[string][]byte, error) {
		return metadata.NewSQLiteRepository(tx).GetMany(ctx, sessionKeys...)
	})
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	token, rawExpiry := string(values[KeyAccessToken]), string(values[KeyExpiresAt])
	if token == "" || rawExpiry == "" {
		return nil, nil
	}

	expiresAt, err := time.Parse(time.RFC3339Nano, rawExpiry)
	if err != nil {
		return nil, fmt.Errorf("load session: bad %s: %w", KeyExpiresAt, err)
	}

	s := &models.Session{
		AccessToken:  token,
		RefreshToken: string(values[KeyRefreshToken]),
		ExpiresAt:    expiresAt,
	}
	if raw := values[KeyUser]; len(raw) > 0 {
		var u models.UserProfile
		if err := json.Unmarshal(raw, &u); err != nil {
			return nil, fmt.Errorf("load session: bad %s: %w", KeyUser, err)
		}
		s.User = &u
	}
	return s, nil
}

func (m *MetadataStore) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).Delete(ctx, sessionKeys...)
	})
}
