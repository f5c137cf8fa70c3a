package storage

import (
	"context"

	"github.com/avelkov/godfather/internal/model"
)

// Storage defines the interface for data persistence.
//
// Session state survives in the backing store, but phase timers are
// process-local: a restarted process does not resume running games.
type Storage interface {
	// Session operations. CreateSession is insert-if-absent: it fails with
	// model.ErrSessionAlreadyActive when the community already has a live
	// session, which is what makes concurrent session creation safe.
	CreateSession(ctx context.Context, session *model.Session) error
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, community model.CommunityID) (*model.Session, error)
	DeleteSession(ctx context.Context, community model.CommunityID) error
	SessionExists(ctx context.Context, community model.CommunityID) (bool, error)

	// Account operations
	SaveAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, id model.PlayerID) (*model.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*model.Account, error)

	// Token operations
	SaveToken(ctx context.Context, token *model.Token) error
	GetToken(ctx context.Context, value string) (*model.Token, error)
	DeleteToken(ctx context.Context, value string) error
}
