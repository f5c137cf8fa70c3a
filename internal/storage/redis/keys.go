package redis

import (
	"fmt"

	"github.com/avelkov/godfather/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "godfather"

// sessionKey returns the Redis key for a community's live Session
func sessionKey(community model.CommunityID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, community)
}

// accountKey returns the Redis key for an Account
func accountKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// tokenKey returns the Redis key for a session Token
func tokenKey(value string) string {
	return fmt.Sprintf("%s:token:%s", keyPrefix, value)
}
