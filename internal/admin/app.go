// Package admin implements the interactive operator commands of accountctl:
// creating an account and checking a password against the stored hash.
package admin

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/dmitrijs2005/accounts/internal/server/services"
)

// ErrPasswordMismatch is returned by check-password when the candidate is wrong.
var ErrPasswordMismatch = errors.New("password does not match")

type AccountStore interface {
	Create(ctx context.Context, fullName, email, password string) error
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	VerifyPassword(account *models.Account, candidate string) (bool, error)
}

type App struct {
	accounts AccountStore
	in       *bufio.Reader
	out      io.Writer
}

func NewApp(accounts AccountStore, in io.Reader, out io.Writer) *App {
	return &App{accounts: accounts, in: bufio.NewReader(in), out: out}
}

// Run executes one command by name.
func (a *App) Run(ctx context.Context, command string) error {
	switch command {
	case "create":
		return a.Create(ctx)
	case "check-password":
		return a.CheckPassword(ctx)
	case "", "help":
		a.usage()
		return nil
	default:
		a.usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *App) usage() {
	fmt.Fprintln(a.out, "Usage: accountctl <command> [flags]")
	fmt.Fprintln(a.out, "Commands: create, check-password, help")
}

func (a *App) Create(ctx context.Context) error {
	fullName, err := GetSimpleText(a.in, "Enter full name", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.in, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	// the service takes a string, so this copy outlives the wipe; only the
	// terminal buffer is cleared
	if err := a.accounts.Create(ctx, fullName, email, string(password)); err != nil {
		a.printValidation(err)
		return err
	}

	fmt.Fprintln(a.out, "Success!")
	return nil
}

func (a *App) CheckPassword(ctx context.Context) error {
	email, err := GetSimpleText(a.in, "Enter email", a.out)
	if err != nil {
		return err
	}

	account, err := a.accounts.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	// string copy is not wiped, see Create
	ok, err := a.accounts.VerifyPassword(account, string(password))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Password does not match.")
		return ErrPasswordMismatch
	}

	fmt.Fprintln(a.out, "Password matches.")
	return nil
}

func (a *App) printValidation(err error) {
	var ve *services.ValidationError
	if !errors.As(err, &ve) {
		return
	}
	fields := make([]string, 0, len(ve.Fields))
	for f := range ve.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		fmt.Fprintf(a.out, "  %s: %s\n", f, ve.Fields[f])
	}
}
