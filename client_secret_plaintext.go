package clientauth

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/oidauth/clientauth/x/errorsx"
)

// NewPlainTextClientSecret returns a new PlainTextClientSecret given a value.
func NewPlainTextClientSecret(value string) *PlainTextClientSecret {
	return &PlainTextClientSecret{value: []byte(value)}
}

type PlainTextClientSecret struct {
	value []byte
}

func (s *PlainTextClientSecret) IsPlainText() (is bool) {
	return true
}

func (s *PlainTextClientSecret) GetPlainTextValue() (secret []byte, err error) {
	return s.value, nil
}

func (s *PlainTextClientSecret) Compare(ctx context.Context, secret []byte) (err error) {
	if subtle.ConstantTimeCompare(s.value, secret) == 0 {
		return errorsx.WithStack(fmt.Errorf("secrets don't match"))
	}

	return nil
}

func (s *PlainTextClientSecret) Valid() (valid bool) {
	return s != nil && len(s.value) != 0
}
