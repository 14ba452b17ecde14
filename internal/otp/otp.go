package otp

import (
	"encoding/base32"
	"errors"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const Digits = 6

var ErrEmptyIdentifier = errors.New("otp identifier is empty")

// Generator derives time-stepped codes from identifier+secret, so no code is stored server-side.
type Generator struct {
	Secret string
	Step   time.Duration
	Now    func() time.Time
}

func New(secret string, step time.Duration) *Generator {
	return &Generator{Secret: secret, Step: step}
}

func (g *Generator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

func (g *Generator) opts() totp.ValidateOpts {
	period := uint(g.Step / time.Second)
	if period == 0 {
		period = 30
	}
	return totp.ValidateOpts{
		Period:    period,
		Skew:      0,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
}

func (g *Generator) key(identifier string) string {
	raw := normalize(identifier) + g.Secret
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString([]byte(raw))
}

func (g *Generator) Generate(identifier string) (string, error) {
	if normalize(identifier) == "" {
		return "", ErrEmptyIdentifier
	}
	return totp.GenerateCodeCustom(g.key(identifier), g.now(), g.opts())
}

// Verify accepts the code only inside the step that is active right now.
func (g *Generator) Verify(identifier, code string) bool {
	if normalize(identifier) == "" || len(code) != Digits {
		return false
	}
	ok, err := totp.ValidateCustom(code, g.key(identifier), g.now(), g.opts())
	return err == nil && ok
}

func normalize(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}
