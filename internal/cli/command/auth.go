package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/taskdeck-go/internal/core/domain"
	"github.com/yndnr/taskdeck-go/internal/telemetry/logger"
)

// LoginCommand exchanges credentials for a token and stores it.
func LoginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in and remember the session",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "email",
				Aliases:  []string{"e"},
				Usage:    "Account email",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "Password (read from stdin when omitted)",
			},
		},
		Action: login,
	}
}

// RegisterCommand creates an account.
func RegisterCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "Create an account",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "name",
				Aliases:  []string{"n"},
				Usage:    "Display name",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "email",
				Aliases:  []string{"e"},
				Usage:    "Account email",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "Password (read from stdin when omitted)",
			},
		},
		Action: register,
	}
}

// LogoutCommand forgets the stored session.
func LogoutCommand() *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Forget the stored session",
		Action: logout,
	}
}

// WhoamiCommand shows the user derived from the stored token.
func WhoamiCommand() *cli.Command {
	return &cli.Command{
		Name:   "whoami",
		Usage:  "Show the logged-in user",
		Action: whoami,
	}
}

func commandContext(c *cli.Context) context.Context {
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return logger.WithCommand(ctx, c.Command.FullName())
}

func login(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	ctx := commandContext(c)

	password, err := rt.password(c)
	if err != nil {
		return err
	}

	client, err := rt.API(ctx)
	if err != nil {
		return err
	}
	result, err := client.Login(ctx, c.String("email"), password)
	if err != nil {
		return err
	}

	session, err := rt.Session(ctx)
	if err != nil {
		return err
	}
	if err := session.Login(ctx, result.AccessToken); err != nil {
		return err
	}
	rt.metrics.SessionEvent("login")

	user := session.Current().User
	rt.Printf("Logged in as %s (%s)", user.Subject, user.Role)
	return nil
}

func register(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	ctx := commandContext(c)

	password, err := rt.password(c)
	if err != nil {
		return err
	}

	client, err := rt.API(ctx)
	if err != nil {
		return err
	}
	account, err := client.Register(ctx, domain.Registration{
		Name:     c.String("name"),
		Email:    c.String("email"),
		Password: password,
	})
	if err != nil {
		return err
	}

	if err := rt.Print(account); err != nil {
		return err
	}
	rt.Printf("Account created. Log in with: taskdeck login --email %s", account.Email)
	return nil
}

func logout(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	ctx := commandContext(c)

	session, err := rt.Session(ctx)
	if err != nil {
		return err
	}
	wasLoggedIn := session.Current().Authenticated()
	if err := session.Logout(ctx); err != nil {
		return err
	}
	rt.metrics.SessionEvent("logout")

	if wasLoggedIn {
		rt.Printf("Logged out")
	} else {
		rt.Printf("Not logged in")
	}
	return nil
}

// profile is the whoami view of the session.
type profile struct {
	Subject   string `json:"subject"`
	Role      string `json:"role"`
	ExpiresAt string `json:"expires_at"`
	Expired   bool   `json:"expired"`
}

func whoami(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}

	state, err := rt.RequireLogin(commandContext(c))
	if err != nil {
		return err
	}

	exp := time.Unix(state.ExpiresAt, 0).UTC()
	p := profile{
		Subject:   state.User.Subject,
		Role:      state.User.Role,
		ExpiresAt: exp.Format(time.RFC3339),
		Expired:   !rt.now().Before(exp),
	}
	if err := rt.Print(p); err != nil {
		return err
	}
	if p.Expired {
		rt.Hint("the token expired at %s; the server will likely reject it", p.ExpiresAt)
	}
	return nil
}

// password returns --password, or reads one line from stdin.
func (rt *Runtime) password(c *cli.Context) (string, error) {
	if c.IsSet("password") {
		return c.String("password"), nil
	}

	fmt.Fprint(rt.errOut, "Password: ")
	line, err := rt.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read password: %w", err)
	}
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		return "", errors.New("password is required")
	}
	return pw, nil
}
