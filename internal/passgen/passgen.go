// Package passgen generates random credential strings from a character-class
// policy. Output is drawn from crypto/rand because it seeds stored secrets.
package passgen

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/RamaSai2519/secure-vault/internal/common"
)

// Length bounds enforced by callers at the request boundary. Generate itself
// does not check them.
const (
	MinLength = 4
	MaxLength = 128
)

const (
	letters    = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	numbers    = "0123456789"
	symbols    = "!@#$%^&*()_+-=[]{}|;:,.<>?"
	lookAlikes = "0O1lI"
)

// ErrEmptyPool is returned when the selected options leave no characters to
// sample from.
var ErrEmptyPool = common.NewValidationError("At least one character type must be selected")

// Options selects the character classes of a generated password.
type Options struct {
	Length            int
	IncludeLetters    bool
	IncludeNumbers    bool
	IncludeSymbols    bool
	ExcludeLookAlikes bool
}

// DefaultOptions returns letters and digits without look-alike glyphs.
func DefaultOptions(length int) Options {
	return Options{
		Length:            length,
		IncludeLetters:    true,
		IncludeNumbers:    true,
		IncludeSymbols:    false,
		ExcludeLookAlikes: true,
	}
}

// Pool returns the characters Generate samples from for opts.
func Pool(opts Options) string {
	var b strings.Builder
	if opts.IncludeLetters {
		b.WriteString(letters)
	}
	if opts.IncludeNumbers {
		b.WriteString(numbers)
	}
	if opts.IncludeSymbols {
		b.WriteString(symbols)
	}

	pool := b.String()
	if opts.ExcludeLookAlikes {
		pool = strings.Map(func(r rune) rune {
			if strings.ContainsRune(lookAlikes, r) {
				return -1
			}
			return r
		}, pool)
	}
	return pool
}

// Generate returns opts.Length characters sampled uniformly, with
// replacement, from Pool(opts).
func Generate(opts Options) (string, error) {
	pool := Pool(opts)
	if pool == "" {
		return "", ErrEmptyPool
	}
	if opts.Length <= 0 {
		return "", nil
	}

	// The pool is ASCII only, so byte indexing is safe.
	n := big.NewInt(int64(len(pool)))
	out := make([]byte, opts.Length)
	for i := range out {
		idx, err := rand.Int(rand.Reader, n)
		if err != nil {
			return "", fmt.Errorf("random source: %w", err)
		}
		out[i] = pool[idx.Int64()]
	}

	return string(out), nil
}
