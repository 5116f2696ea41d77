package service_test

import (
	"context"
	"crypto/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/leaflist/leaflist-server/internal/auth"
	"github.com/leaflist/leaflist-server/internal/dto"
	"github.com/leaflist/leaflist-server/internal/service"
	"github.com/leaflist/leaflist-server/internal/store"
	"github.com/leaflist/leaflist-server/internal/validation"
)

// fakeSender records outgoing mail instead of delivering it.
type fakeSender struct {
	sent []sentMail
}

type sentMail struct {
	to        string
	verifyURL string
}

func (f *fakeSender) Send(_ context.Context, to, _, _ string) error {
	f.sent = append(f.sent, sentMail{to: to})
	return nil
}

func (f *fakeSender) SendVerificationEmail(_ context.Context, to, _, verifyURL string) error {
	f.sent = append(f.sent, sentMail{to: to, verifyURL: verifyURL})
	return nil
}

// testEnv bundles the services under test against a real store.
type testEnv struct {
	store    *store.Store
	tokens   *auth.TokenService
	sender   *fakeSender
	auth     *service.AuthService
	booklist *service.BookListService
	books    *service.BookService
	reviews  *service.ReviewService
	admin    *service.AdminService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	key := make([]byte, 32)
	_, err = rand.Read(key)
	require.NoError(t, err)

	tokens, err := auth.NewTokenService(key, time.Hour, time.Hour)
	require.NoError(t, err)

	validator := validation.New()
	enricher := dto.NewEnricher(s)
	sender := &fakeSender{}

	authSvc := service.NewAuthService(s, tokens, sender, validator, nil, "http://localhost:4000")
	listSvc := service.NewBookListService(s, enricher, validator, nil)
	bookSvc := service.NewBookService(s, listSvc, validator, nil)
	reviewSvc := service.NewReviewService(s, enricher, validator, nil)
	adminSvc := service.NewAdminService(s, enricher, validator, nil)

	return &testEnv{
		store:    s,
		tokens:   tokens,
		sender:   sender,
		auth:     authSvc,
		booklist: listSvc,
		books:    bookSvc,
		reviews:  reviewSvc,
		admin:    adminSvc,
	}
}

// registerActiveUser registers a user and walks the verification flow so the
// account can log in.
func registerActiveUser(t *testing.T, env *testEnv, name, email, password string) *dto.User {
	t.Helper()
	ctx := context.Background()

	user, err := env.auth.Register(ctx, service.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)

	require.NotEmpty(t, env.sender.sent, "registration sends a verification mail")
	last := env.sender.sent[len(env.sender.sent)-1]
	token := verificationToken(t, last.verifyURL)

	verified, err := env.auth.VerifyEmail(ctx, token)
	require.NoError(t, err)
	require.True(t, verified.IsActive)

	return user
}

func verificationToken(t *testing.T, verifyURL string) string {
	t.Helper()
	const marker = "/api/email/verify/"
	i := len(verifyURL)
	for j := 0; j+len(marker) <= len(verifyURL); j++ {
		if verifyURL[j:j+len(marker)] == marker {
			i = j + len(marker)
			break
		}
	}
	require.Less(t, i, len(verifyURL), "verify URL carries a token")
	return verifyURL[i:]
}
