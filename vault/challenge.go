package vault

import (
	"strconv"
	"time"
)

// ChallengePrefix starts every message the wallet is asked to sign
const ChallengePrefix = "Decrypt request for token "

// BuildChallenge returns the human-readable message embedding the token id and the
// millisecond timestamp at.
func BuildChallenge(tokenID string, at time.Time) string {
	return ChallengePrefix + tokenID + " at " + strconv.FormatInt(at.UnixMilli(), 10)
}
