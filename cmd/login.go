package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	statusrender "github.com/bnema/aicms-cli/internal/adapters/render/status"
	"github.com/bnema/aicms-cli/internal/application"
	"github.com/bnema/aicms-cli/internal/domain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

func newLoginCmd(app *app) *cobra.Command {
	var username string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readSecret(cmd, "Password: ", passwordStdin)
			if err != nil {
				return err
			}

			err = app.auth.Login(cmd.Context(), domain.Credentials{Username: username, Password: password})
			if err != nil {
				app.logger.Debug("login_failed", zap.Error(err))
				return loginError(err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", strings.TrimSpace(username))
			return err
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Account username")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

// loginError hides server detail behind a single message, except for local
// input problems and an unreachable backend.
func loginError(err error) error {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return err
	case errors.Is(err, domain.ErrTransport):
		return errors.New(application.NetworkErrorMessage)
	default:
		return errors.New(application.LoginFailedMessage)
	}
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.auth.Logout(cmd.Context()); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return err
		},
	}
}

func newRegisterCmd(app *app) *cobra.Command {
	var username string
	var email string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readSecret(cmd, "Password: ", passwordStdin)
			if err != nil {
				return err
			}

			err = app.auth.Register(cmd.Context(), domain.Registration{
				Username: username,
				Email:    email,
				Password: password,
			})
			if err != nil {
				var validationErr *domain.ValidationError
				if errors.As(err, &validationErr) {
					return err
				}
				return errors.New(application.RegisterMessage(err))
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Registration successful! Run `aicms login` to sign in.")
			return err
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Account username")
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newWhoamiCmd(app *app) *cobra.Command {
	var format outputFormat

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the user the backend reports for the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			identity := app.auth.Whoami(cmd.Context())
			if identity == nil {
				if ok, err := format.write(cmd.OutOrStdout(), nil); ok {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return err
			}

			if ok, err := format.write(cmd.OutOrStdout(), identity); ok {
				return err
			}

			line := identity.Username
			if identity.Email != "" {
				line += " <" + identity.Email + ">"
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), line)
			return err
		},
	}

	format.bind(cmd)

	return cmd
}

func newSessionCmd(app *app) *cobra.Command {
	var format outputFormat

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Describe the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := app.auth.Status(cmd.Context())
			if err != nil {
				return err
			}

			if ok, err := format.write(cmd.OutOrStdout(), status); ok {
				return err
			}

			rendered, err := app.statusRenderer(status, statusrender.RenderOptions{
				Now:     app.now(),
				BaseURL: app.gateway.BaseURL(),
			})
			return writeRendered(cmd.OutOrStdout(), rendered, err)
		},
	}

	format.bind(cmd)

	return cmd
}

// readSecret prompts on the terminal without echo, or reads one line from
// stdin when it is piped or fromStdin is set.
func readSecret(cmd *cobra.Command, prompt string, fromStdin bool) (string, error) {
	in := cmd.InOrStdin()

	if file, ok := in.(*os.File); ok && !fromStdin && term.IsTerminal(int(file.Fd())) {
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), prompt)
		secret, err := term.ReadPassword(int(file.Fd()))
		_, _ = fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(secret), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
