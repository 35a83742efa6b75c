package checkout

import (
	"context"

	"github.com/stremovskyy/go-stripe/consts"
)

// Poster submits params form-encoded to path and decodes the JSON response into out.
type Poster interface {
	PostForm(ctx context.Context, path string, params any, out any) error
}

// CreateSession validates params and creates a Checkout Session through p.
//
// params is only read; callers may inspect or log it afterwards.
// Errors returned by p are passed through unchanged.
func CreateSession(ctx context.Context, p Poster, params *CreateSessionParams) (*Session, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	var out Session
	if err := p.PostForm(ctx, consts.CheckoutSessionsPath, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
