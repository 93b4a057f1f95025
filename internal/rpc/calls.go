package rpc

import "userbot/internal/domain"

// IsAuthorized asks whether the connection's session is signed in
type IsAuthorized struct{}

// RequestLoginCode asks the server to send a verification code to Phone
type RequestLoginCode struct {
	Phone   string
	APIID   int
	APIHash string
}

// SignIn completes a login with the received code. It fails with
// *domain.PasswordRequiredError when the account has a password.
type SignIn struct {
	Token domain.LoginToken
	Code  string
}

// CheckPassword answers a two-factor password challenge
type CheckPassword struct {
	Token    domain.PasswordToken
	Password string
}

// GetFullUser fetches the full profile of a user
type GetFullUser struct {
	User domain.PrivateUser
}

// GetUsers fetches basic info about several users
type GetUsers struct {
	Users []domain.PrivateUser
}

func (IsAuthorized) Method() string     { return "auth.status" }
func (RequestLoginCode) Method() string { return "auth.sendCode" }
func (SignIn) Method() string           { return "auth.signIn" }
func (CheckPassword) Method() string    { return "auth.checkPassword" }
func (GetFullUser) Method() string      { return "users.getFullUser" }
func (GetUsers) Method() string         { return "users.getUsers" }

func (IsAuthorized) decodes(bool)                  {}
func (RequestLoginCode) decodes(domain.LoginToken) {}
func (SignIn) decodes(domain.Authorization)        {}
func (CheckPassword) decodes(domain.Authorization) {}
func (GetFullUser) decodes(domain.FullUserInfo)    {}
func (GetUsers) decodes([]domain.PrivateUser)      {}
