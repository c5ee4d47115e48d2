package game

import "crypto/rand"

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// codeGenerator produces unpredictable codes drawn from A-Z0-9. It is
// stateless; uniqueness is the registry's job.
type codeGenerator interface {
	Generate(length int) string
}

type randomCodeGenerator struct{}

func (randomCodeGenerator) Generate(length int) string {
	b := make([]byte, length)
	rand.Read(b)
	for i := range b {
		b[i] = codeAlphabet[b[i]%byte(len(codeAlphabet))]
	}
	return string(b)
}
