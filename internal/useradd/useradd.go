// Package useradd implements the account creation command used by operators.
// It goes through the same registration service as the HTTP endpoint.
package useradd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/filmvault/internal/flagx"
	"github.com/dmitrijs2005/filmvault/internal/server/models"
	"github.com/dmitrijs2005/filmvault/internal/server/services"
)

var ErrPasswordMismatch = errors.New("passwords do not match")

// Registrar creates accounts.
type Registrar interface {
	Register(ctx context.Context, c services.Credentials) (*models.User, error)
}

// EmailFlag returns the value of -email, or "" when absent.
func EmailFlag(args []string) string {
	var email string
	fs := flag.NewFlagSet("useradd", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&email, "email", "", "email of the new account")
	_ = fs.Parse(flagx.FilterArgs(args, []string{"-email"}))
	return email
}

// Add asks for missing input, confirms the password and registers the account.
func Add(ctx context.Context, r Registrar, email string, in *bufio.Reader, out io.Writer) (*models.User, error) {
	var err error
	if email == "" {
		email, err = GetSimpleText(in, "Email", out)
		if err != nil {
			return nil, fmt.Errorf("read email: %w", err)
		}
	}

	password, err := GetPassword(in, "Password", out)
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	confirm, err := GetPassword(in, "Repeat password", out)
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	if password != confirm {
		return nil, ErrPasswordMismatch
	}

	return r.Register(ctx, services.Credentials{Email: email, Password: password})
}
