package domain

// LoginToken represents an outstanding verification code request.
// It is consumed by exactly one sign-in call.
type LoginToken struct {
	Phone string
	Hash  string
}

// PasswordToken represents an outstanding two-factor password challenge
type PasswordToken struct {
	Hint string
}

// Authorization describes the account a session is signed in as
type Authorization struct {
	UserID   int64
	Username string
}

// FullUserInfo is the result of a full user lookup
type FullUserInfo struct {
	User             PrivateUser
	About            string
	CommonChatsCount int
}

// AuthState represents a step of the sign-in state machine
type AuthState string

const (
	StateConnected        AuthState = "connected"
	StateAwaitingPhone    AuthState = "awaiting_phone"
	StateCodeRequested    AuthState = "code_requested"
	StateAwaitingCode     AuthState = "awaiting_code"
	StateAwaitingPassword AuthState = "awaiting_password"
	StateAuthorized       AuthState = "authorized"
	StatePersistedDone    AuthState = "persisted_done"
	StateUnpersistedDone  AuthState = "unpersisted_done"
	StateFatal            AuthState = "fatal"
)

// Terminal reports whether the state machine stops in this state
func (s AuthState) Terminal() bool {
	switch s {
	case StatePersistedDone, StateUnpersistedDone, StateFatal:
		return true
	}
	return false
}
