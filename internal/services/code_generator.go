package services

import (
	"crypto/rand"
	"math/big"
	"sync"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 8
)

// CodeGenerator draws task codes and never hands out the same code twice in
// one process. Uniqueness across restarts is left to the unique index.
type CodeGenerator struct {
	mu     sync.Mutex
	issued map[string]struct{}
	draw   func() (string, error)
}

func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{issued: make(map[string]struct{}), draw: randomCode}
}

func (g *CodeGenerator) Next() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for {
		code, err := g.draw()
		if err != nil {
			return "", err
		}
		if _, seen := g.issued[code]; seen {
			continue
		}
		g.issued[code] = struct{}{}
		return code, nil
	}
}

func randomCode() (string, error) {
	limit := big.NewInt(int64(len(codeAlphabet)))
	buf := make([]byte, codeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
