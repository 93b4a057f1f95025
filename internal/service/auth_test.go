package service

import (
	"context"
	"errors"
	"testing"

	"userbot/internal/domain"
	"userbot/internal/rpc"
	"userbot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testAPIID   = 12345
	testAPIHash = "0123456789abcdef"

	phonePrompt = "Enter your phone number (international format): "
	codePrompt  = "Enter the code you received: "
)

var testLoginToken = domain.LoginToken{Phone: "+10000000000", Hash: "phone-code-hash"}

type authFixture struct {
	invoker  *testutil.MockInvoker
	prompter *testutil.MockPrompter
	repo     *testutil.MockSessionRepository
	session  *domain.Session
	service  *AuthService
}

func newAuthFixture(session *domain.Session) *authFixture {
	f := &authFixture{
		invoker:  new(testutil.MockInvoker),
		prompter: new(testutil.MockPrompter),
		repo:     new(testutil.MockSessionRepository),
		session:  session,
	}
	logger := testutil.NewTestLogger()
	store := NewSessionStore(f.repo, logger)
	f.service = NewAuthService(f.invoker, f.prompter, store, testAPIID, testAPIHash, logger)
	f.prompter.On("Notice", mock.Anything).Return()
	return f
}

// expectCodeLogin sets up the steps shared by every fresh sign-in
func (f *authFixture) expectCodeLogin() {
	f.invoker.On("Invoke", rpc.IsAuthorized{}).Return(false, nil).Once()
	f.prompter.On("Prompt", phonePrompt).Return("+10000000000\n", nil).Once()
	f.invoker.On("Invoke", rpc.RequestLoginCode{
		Phone:   "+10000000000",
		APIID:   testAPIID,
		APIHash: testAPIHash,
	}).Return(testLoginToken, nil).Once()
	f.prompter.On("Prompt", codePrompt).Return("12345\n", nil).Once()
}

func (f *authFixture) assertExpectations(t *testing.T) {
	f.invoker.AssertExpectations(t)
	f.prompter.AssertExpectations(t)
	f.repo.AssertExpectations(t)
}

func TestAuthService_AlreadyAuthorized(t *testing.T) {
	// a session that was saved after a successful sign-in
	f := newAuthFixture(domain.LoadedSession([]byte("stored")))
	f.invoker.On("Invoke", rpc.IsAuthorized{}).Return(true, nil).Once()

	result, err := f.service.Authenticate(context.Background(), f.session)

	require.NoError(t, err)
	assert.Equal(t, domain.StatePersistedDone, result.State)
	assert.False(t, result.SignOutOnExit)
	assert.Nil(t, result.Authorization)

	f.prompter.AssertNotCalled(t, "Prompt", mock.Anything)
	f.prompter.AssertNotCalled(t, "PromptSecret", mock.Anything)
	f.repo.AssertNotCalled(t, "Save", mock.Anything)
	f.assertExpectations(t)
}

func TestAuthService_SignInWithoutPassword(t *testing.T) {
	f := newAuthFixture(domain.NewSession())
	f.session.SetData([]byte("fresh auth key"))
	f.expectCodeLogin()
	f.invoker.On("Invoke", rpc.SignIn{Token: testLoginToken, Code: "12345"}).
		Return(domain.Authorization{UserID: 99, Username: "me"}, nil).Once()
	f.repo.On("Save", []byte("fresh auth key")).Return(nil).Once()

	result, err := f.service.Authenticate(context.Background(), f.session)

	require.NoError(t, err)
	assert.Equal(t, domain.StatePersistedDone, result.State)
	assert.False(t, result.SignOutOnExit)
	require.NotNil(t, result.Authorization)
	assert.Equal(t, int64(99), result.Authorization.UserID)

	f.prompter.AssertNotCalled(t, "PromptSecret", mock.Anything)
	f.prompter.AssertCalled(t, "Notice", "Signing in...")
	f.prompter.AssertCalled(t, "Notice", "Signed in!")
	f.assertExpectations(t)
}

func TestAuthService_PasswordRequired(t *testing.T) {
	f := newAuthFixture(domain.NewSession())
	f.expectCodeLogin()
	f.invoker.On("Invoke", rpc.SignIn{Token: testLoginToken, Code: "12345"}).
		Return(nil, &domain.PasswordRequiredError{Token: domain.PasswordToken{Hint: "my cat"}}).Once()
	f.prompter.On("PromptSecret", "Enter the password (hint my cat): ").Return("hunter2\n", nil).Once()
	f.invoker.On("Invoke", rpc.CheckPassword{
		Token:    domain.PasswordToken{Hint: "my cat"},
		Password: "hunter2",
	}).Return(domain.Authorization{UserID: 99}, nil).Once()
	f.repo.On("Save", mock.Anything).Return(nil).Once()

	result, err := f.service.Authenticate(context.Background(), f.session)

	require.NoError(t, err)
	assert.Equal(t, domain.StatePersistedDone, result.State)
	f.prompter.AssertNumberOfCalls(t, "PromptSecret", 1)
	f.assertExpectations(t)
}

func TestAuthService_PasswordRequiredWithoutHint(t *testing.T) {
	f := newAuthFixture(domain.NewSession())
	f.expectCodeLogin()
	f.invoker.On("Invoke", mock.AnythingOfType("rpc.SignIn")).
		Return(nil, &domain.PasswordRequiredError{}).Once()
	f.prompter.On("PromptSecret", "Enter the password: ").Return("hunter2", nil).Once()
	f.invoker.On("Invoke", mock.AnythingOfType("rpc.CheckPassword")).
		Return(domain.Authorization{UserID: 99}, nil).Once()
	f.repo.On("Save", mock.Anything).Return(nil).Once()

	_, err := f.service.Authenticate(context.Background(), f.session)

	require.NoError(t, err)
	f.assertExpectations(t)
}

func TestAuthService_SaveFailure(t *testing.T) {
	f := newAuthFixture(domain.NewSession())
	f.expectCodeLogin()
	f.invoker.On("Invoke", mock.AnythingOfType("rpc.SignIn")).
		Return(domain.Authorization{UserID: 99}, nil).Once()
	f.repo.On("Save", mock.Anything).Return(errors.New("read-only file system")).Once()

	result, err := f.service.Authenticate(context.Background(), f.session)

	require.NoError(t, err)
	assert.Equal(t, domain.StateUnpersistedDone, result.State)
	assert.True(t, result.SignOutOnExit)
	f.prompter.AssertCalled(t, "Notice",
		"NOTE: failed to save the session, will sign out when done: session save mock: read-only file system")
	f.assertExpectations(t)
}

func TestAuthService_Failures(t *testing.T) {
	boom := &rpc.InvocationError{Method: "x", Code: 400, Type: "BOOM"}

	tests := []struct {
		name          string
		setup         func(f *authFixture)
		expectedState domain.AuthState
	}{
		{
			name: "authorization check fails",
			setup: func(f *authFixture) {
				f.invoker.On("Invoke", rpc.IsAuthorized{}).Return(nil, boom).Once()
			},
			expectedState: domain.StateConnected,
		},
		{
			name: "phone prompt fails",
			setup: func(f *authFixture) {
				f.invoker.On("Invoke", rpc.IsAuthorized{}).Return(false, nil).Once()
				f.prompter.On("Prompt", phonePrompt).Return("", boom).Once()
			},
			expectedState: domain.StateAwaitingPhone,
		},
		{
			name: "code request fails",
			setup: func(f *authFixture) {
				f.invoker.On("Invoke", rpc.IsAuthorized{}).Return(false, nil).Once()
				f.prompter.On("Prompt", phonePrompt).Return("+10000000000", nil).Once()
				f.invoker.On("Invoke", mock.AnythingOfType("rpc.RequestLoginCode")).Return(nil, boom).Once()
			},
			expectedState: domain.StateCodeRequested,
		},
		{
			name: "sign in fails",
			setup: func(f *authFixture) {
				f.expectCodeLogin()
				f.invoker.On("Invoke", mock.AnythingOfType("rpc.SignIn")).Return(nil, boom).Once()
			},
			expectedState: domain.StateAwaitingCode,
		},
		{
			name: "password check fails",
			setup: func(f *authFixture) {
				f.expectCodeLogin()
				f.invoker.On("Invoke", mock.AnythingOfType("rpc.SignIn")).
					Return(nil, &domain.PasswordRequiredError{Token: domain.PasswordToken{Hint: "h"}}).Once()
				f.prompter.On("PromptSecret", mock.Anything).Return("wrong", nil).Once()
				f.invoker.On("Invoke", mock.AnythingOfType("rpc.CheckPassword")).Return(nil, boom).Once()
			},
			expectedState: domain.StateAwaitingPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(domain.NewSession())
			tt.setup(f)

			result, err := f.service.Authenticate(context.Background(), f.session)

			var authErr *domain.AuthError
			require.True(t, errors.As(err, &authErr))
			assert.Equal(t, tt.expectedState, authErr.State)
			assert.ErrorIs(t, err, boom)
			assert.Equal(t, domain.StateFatal, result.State)

			// sign-in failures never fall through to the password prompt
			if tt.expectedState != domain.StateAwaitingPassword {
				f.prompter.AssertNotCalled(t, "PromptSecret", mock.Anything)
			}
			f.repo.AssertNotCalled(t, "Save", mock.Anything)
			f.assertExpectations(t)
		})
	}
}
