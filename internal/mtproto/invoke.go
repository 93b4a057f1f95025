package mtproto

import (
	"context"
	"errors"
	"fmt"

	"userbot/internal/domain"
	"userbot/internal/rpc"

	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
	"go.uber.org/zap"
)

// Invoke runs one of the calls defined in package rpc
func (c *Conn) Invoke(ctx context.Context, req rpc.Request) (any, error) {
	switch req := req.(type) {
	case rpc.IsAuthorized:
		status, err := c.client.Auth().Status(ctx)
		if err != nil {
			return nil, invocationError(req.Method(), err)
		}
		return status.Authorized, nil

	case rpc.RequestLoginCode:
		sent, err := c.api.AuthSendCode(ctx, &tg.AuthSendCodeRequest{
			PhoneNumber: req.Phone,
			APIID:       req.APIID,
			APIHash:     req.APIHash,
			Settings:    tg.CodeSettings{},
		})
		if err != nil {
			return nil, invocationError(req.Method(), err)
		}
		code, ok := sent.(*tg.AuthSentCode)
		if !ok {
			return nil, &rpc.InvocationError{
				Method: req.Method(),
				Err:    fmt.Errorf("unexpected sent code %T", sent),
			}
		}
		return domain.LoginToken{Phone: req.Phone, Hash: code.PhoneCodeHash}, nil

	case rpc.SignIn:
		a, err := c.client.Auth().SignIn(ctx, req.Token.Phone, req.Code, req.Token.Hash)
		if errors.Is(err, auth.ErrPasswordAuthNeeded) {
			return nil, c.passwordRequired(ctx)
		}
		if err != nil {
			return nil, invocationError(req.Method(), err)
		}
		return authorization(a), nil

	case rpc.CheckPassword:
		a, err := c.client.Auth().Password(ctx, req.Password)
		if err != nil {
			return nil, invocationError(req.Method(), err)
		}
		return authorization(a), nil

	case rpc.GetFullUser:
		full, err := c.api.UsersGetFullUser(ctx, &tg.InputUser{
			UserID:     req.User.ID,
			AccessHash: req.User.AccessHash,
		})
		if err != nil {
			return nil, invocationError(req.Method(), err)
		}
		return fullUserInfo(req.User, full), nil

	case rpc.GetUsers:
		input := make([]tg.InputUserClass, 0, len(req.Users))
		for _, u := range req.Users {
			input = append(input, &tg.InputUser{UserID: u.ID, AccessHash: u.AccessHash})
		}
		users, err := c.api.UsersGetUsers(ctx, input)
		if err != nil {
			return nil, invocationError(req.Method(), err)
		}
		out := make([]domain.PrivateUser, 0, len(users))
		for _, u := range users {
			if user, ok := u.(*tg.User); ok {
				out = append(out, privateUser(user))
			}
		}
		return out, nil

	default:
		return nil, &rpc.InvocationError{
			Method: req.Method(),
			Err:    fmt.Errorf("unsupported call %T", req),
		}
	}
}

// passwordRequired builds the password challenge, fetching the hint if possible
func (c *Conn) passwordRequired(ctx context.Context) error {
	var token domain.PasswordToken

	pwd, err := c.api.AccountGetPassword(ctx)
	if err != nil {
		c.logger.Warn("Failed to fetch password hint", zap.Error(err))
	} else if hint, ok := pwd.GetHint(); ok {
		token.Hint = hint
	}

	return &domain.PasswordRequiredError{Token: token}
}

func invocationError(method string, err error) error {
	if rpcErr, ok := tgerr.As(err); ok {
		return &rpc.InvocationError{
			Method: method,
			Code:   rpcErr.Code,
			Type:   rpcErr.Type,
			Err:    err,
		}
	}
	return &rpc.InvocationError{Method: method, Err: err}
}

func authorization(a *tg.AuthAuthorization) domain.Authorization {
	if user, ok := a.User.(*tg.User); ok {
		return domain.Authorization{UserID: user.ID, Username: user.Username}
	}
	return domain.Authorization{}
}

func fullUserInfo(requested domain.PrivateUser, full *tg.UsersUserFull) domain.FullUserInfo {
	info := domain.FullUserInfo{
		User:             requested,
		About:            full.FullUser.About,
		CommonChatsCount: full.FullUser.CommonChatsCount,
	}
	for _, u := range full.Users {
		if user, ok := u.(*tg.User); ok && user.ID == full.FullUser.ID {
			info.User = privateUser(user)
			break
		}
	}
	return info
}
