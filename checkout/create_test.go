package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stremovskyy/go-stripe/consts"
)

type mockPoster struct {
	mock.Mock
}

func (m *mockPoster) PostForm(ctx context.Context, path string, params any, out any) error {
	args := m.Called(ctx, path, params, out)
	return args.Error(0)
}

func TestCreateSessionPostsToSessionsPath(t *testing.T) {
	p := widgetParams(t)
	poster := &mockPoster{}
	poster.On("PostForm", mock.Anything, consts.CheckoutSessionsPath, p, mock.AnythingOfType("*checkout.Session")).
		Run(func(args mock.Arguments) {
			out := args.Get(3).(*Session)
			out.ID = "cs_test_1"
			out.Mode = ModePayment
		}).
		Return(nil).
		Once()

	s, err := CreateSession(context.Background(), poster, p)
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", s.ID)
	assert.Equal(t, ModePayment, s.Mode)
	poster.AssertExpectations(t)

	// The caller still owns params.
	assert.Equal(t, "Widget", p.LineItems[0].Name)
}

func TestCreateSessionPassesTransportErrorsThrough(t *testing.T) {
	boom := errors.New("connection reset")
	poster := &mockPoster{}
	poster.On("PostForm", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(boom)

	s, err := CreateSession(context.Background(), poster, widgetParams(t))
	assert.Nil(t, s)
	assert.Same(t, boom, err)
}

func TestCreateSessionValidatesBeforeSending(t *testing.T) {
	poster := &mockPoster{}
	p := widgetParams(t)
	p.PaymentMethodTypes = nil

	_, err := CreateSession(context.Background(), poster, p)
	require.Error(t, err)
	assert.Equal(t, []string{"payment_method_types"}, fieldNames(err))
	poster.AssertNotCalled(t, "PostForm", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	_, err = CreateSession(context.Background(), poster, nil)
	assert.Error(t, err)
}
