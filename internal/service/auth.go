package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"userbot/internal/domain"
	"userbot/internal/rpc"

	"go.uber.org/zap"
)

// Prompter asks the operator for input
type Prompter interface {
	Prompt(ctx context.Context, message string) (string, error)
	// PromptSecret reads input without echoing it where the terminal allows
	PromptSecret(ctx context.Context, message string) (string, error)
	Notice(message string)
}

// Persister saves a session after sign-in
type Persister interface {
	Save(ctx context.Context, session *domain.Session) error
}

// AuthResult is the outcome of a successful authentication
type AuthResult struct {
	State domain.AuthState
	// SignOutOnExit is set when the session could not be persisted and
	// must be revoked before the process exits
	SignOutOnExit bool
	// Authorization is nil when the session was already signed in
	Authorization *domain.Authorization
}

// AuthService drives a connection from unauthenticated to authorized
type AuthService struct {
	invoker  rpc.Invoker
	prompter Prompter
	store    Persister
	apiID    int
	apiHash  string
	logger   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	invoker rpc.Invoker,
	prompter Prompter,
	store Persister,
	apiID int,
	apiHash string,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		invoker:  invoker,
		prompter: prompter,
		store:    store,
		apiID:    apiID,
		apiHash:  apiHash,
		logger:   logger,
	}
}

// Authenticate signs the session in if needed and persists it. Any failure
// other than a password challenge aborts with *domain.AuthError; there is no
// retry. A failed save is not an error: the result asks for sign-out on exit
// instead.
func (s *AuthService) Authenticate(ctx context.Context, session *domain.Session) (*AuthResult, error) {
	var (
		state         = domain.StateConnected
		phone         string
		loginToken    domain.LoginToken
		passwordToken domain.PasswordToken
		result        = &AuthResult{}
		alreadyIn     bool
		err           error
	)

	fail := func(from domain.AuthState, err error) (*AuthResult, error) {
		s.logger.Error("Authentication failed",
			zap.String("state", string(from)),
			zap.Error(err),
		)
		return &AuthResult{State: domain.StateFatal}, &domain.AuthError{State: from, Err: err}
	}

	for !state.Terminal() {
		s.logger.Debug("Authentication state", zap.String("state", string(state)))

		switch state {
		case domain.StateConnected:
			authorized, err := rpc.Invoke[bool](ctx, s.invoker, rpc.IsAuthorized{})
			if err != nil {
				return fail(state, err)
			}
			if authorized {
				alreadyIn = true
				state = domain.StateAuthorized
			} else {
				s.prompter.Notice("Signing in...")
				state = domain.StateAwaitingPhone
			}

		case domain.StateAwaitingPhone:
			phone, err = s.prompt(ctx, "Enter your phone number (international format): ", false)
			if err != nil {
				return fail(state, err)
			}
			state = domain.StateCodeRequested

		case domain.StateCodeRequested:
			loginToken, err = rpc.Invoke[domain.LoginToken](ctx, s.invoker, rpc.RequestLoginCode{
				Phone:   phone,
				APIID:   s.apiID,
				APIHash: s.apiHash,
			})
			if err != nil {
				return fail(state, err)
			}
			state = domain.StateAwaitingCode

		case domain.StateAwaitingCode:
			code, err := s.prompt(ctx, "Enter the code you received: ", false)
			if err != nil {
				return fail(state, err)
			}

			auth, err := rpc.Invoke[domain.Authorization](ctx, s.invoker, rpc.SignIn{Token: loginToken, Code: code})
			var pwErr *domain.PasswordRequiredError
			switch {
			case err == nil:
				result.Authorization = &auth
				state = domain.StateAuthorized
			case errors.As(err, &pwErr):
				passwordToken = pwErr.Token
				state = domain.StateAwaitingPassword
			default:
				return fail(state, err)
			}

		case domain.StateAwaitingPassword:
			message := "Enter the password: "
			if passwordToken.Hint != "" {
				message = fmt.Sprintf("Enter the password (hint %s): ", passwordToken.Hint)
			}
			password, err := s.prompt(ctx, message, true)
			if err != nil {
				return fail(state, err)
			}

			auth, err := rpc.Invoke[domain.Authorization](ctx, s.invoker, rpc.CheckPassword{
				Token:    passwordToken,
				Password: password,
			})
			if err != nil {
				return fail(state, err)
			}
			result.Authorization = &auth
			state = domain.StateAuthorized

		case domain.StateAuthorized:
			if alreadyIn {
				// Loaded sessions are already durable; nothing to write.
				s.logger.Info("Session already authorized", zap.String("origin", session.Origin().String()))
				state = domain.StatePersistedDone
				continue
			}

			s.prompter.Notice("Signed in!")
			s.logger.Info("Signed in", zap.Int64("user_id", result.Authorization.UserID))

			if err := s.store.Save(ctx, session); err != nil {
				s.logger.Warn("Failed to save session, will sign out on exit", zap.Error(err))
				s.prompter.Notice(fmt.Sprintf("NOTE: failed to save the session, will sign out when done: %v", err))
				result.SignOutOnExit = true
				state = domain.StateUnpersistedDone
			} else {
				state = domain.StatePersistedDone
			}

		default:
			return fail(state, fmt.Errorf("unexpected state %q", state))
		}
	}

	result.State = state
	return result, nil
}

func (s *AuthService) prompt(ctx context.Context, message string, secret bool) (string, error) {
	var (
		text string
		err  error
	)
	if secret {
		text, err = s.prompter.PromptSecret(ctx, message)
	} else {
		text, err = s.prompter.Prompt(ctx, message)
	}
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(text), nil
}
