package security

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/brunoverifies/verification-service/internal/domain"
)

// Code ranges per category. Both yield 6-digit codes; the split ranges keep
// a code's category recoverable from the number alone.
const (
	standardMin = 100000
	standardMax = 550000 // exclusive
	alumniMin   = 550000
	alumniMax   = 1000000 // exclusive
)

// CodeGenerator issues 6-digit verification codes from crypto/rand.
type CodeGenerator struct{}

func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{}
}

func (g *CodeGenerator) Generate(category domain.CodeCategory) (string, error) {
	lo, hi := standardMin, standardMax
	if category == domain.CategoryAlumni {
		lo, hi = alumniMin, alumniMax
	}

	n, err := rand.Int(rand.Reader, big.NewInt(int64(hi-lo)))
	if err != nil {
		return "", domain.ErrRandomFailed(err)
	}
	return fmt.Sprintf("%06d", int64(lo)+n.Int64()), nil
}
