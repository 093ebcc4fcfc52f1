package auth

import (
	"time"

	"github.com/dmitrijs2005/parking/internal/common"
	"github.com/samber/oops"
)

// SingleUseTokenLength is the number of alphanumeric characters in an
// e-mail confirmation or password reset token.
const SingleUseTokenLength = 32

// SingleUseToken is a freshly minted confirmation/reset token. ExpiresAt is
// nil when tokens do not expire.
type SingleUseToken struct {
	Value     string
	ExpiresAt *time.Time
}

// SingleUseTokens mints opaque tokens for the confirmation and reset flows.
// Consumption happens in the store as one conditional update, so this type
// only issues.
type SingleUseTokens struct {
	ttl time.Duration
	now func() time.Time
}

// NewSingleUseTokens returns an issuer whose tokens live for ttl.
// A zero ttl disables expiry.
func NewSingleUseTokens(ttl time.Duration) *SingleUseTokens {
	return &SingleUseTokens{ttl: ttl, now: time.Now}
}

func (s *SingleUseTokens) Issue() (SingleUseToken, error) {
	v, err := common.MakeRandAlphanumeric(SingleUseTokenLength)
	if err != nil {
		return SingleUseToken{}, oops.Code("AUTH_TOKEN_GENERATION_FAILED").Wrap(err)
	}

	tok := SingleUseToken{Value: v}
	if s.ttl > 0 {
		exp := s.now().Add(s.ttl).UTC()
		tok.ExpiresAt = &exp
	}
	return tok, nil
}
