package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/justyntemme/libcat/internal/forms"
	"github.com/justyntemme/libcat/internal/session"
)

// prompter reads answers line by line from the command's input
type prompter struct {
	in  *bufio.Reader
	out io.Writer

	// fd is the input terminal, or -1 when input is not a terminal
	fd         int
	readSecret func(fd int) ([]byte, error)
}

func newPrompter(cmd *cobra.Command) *prompter {
	in := cmd.InOrStdin()
	fd := -1
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd = int(f.Fd())
	}
	return &prompter{
		in:         bufio.NewReader(in),
		out:        cmd.ErrOrStderr(),
		fd:         fd,
		readSecret: term.ReadPassword,
	}
}

// ask returns value when it is set, otherwise prompts for it
func (p *prompter) ask(label, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// secret is ask without echo when input is a terminal
func (p *prompter) secret(label, value string) (string, error) {
	if value != "" || p.fd < 0 {
		return p.ask(label, value)
	}
	fmt.Fprintf(p.out, "%s: ", label)
	b, err := p.readSecret(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// signedIn restores the stored session and fails when there is none
func (e *env) signedIn(cmd *cobra.Command) (*session.Store, error) {
	_, store, err := e.connect(e.logger())
	if err != nil {
		return nil, err
	}
	if err := store.Initialize(cmd.Context()); err != nil {
		return nil, err
	}
	if !store.IsAuthenticated() {
		return nil, fmt.Errorf("not signed in, run 'libcat login' first")
	}
	return store, nil
}

func (e *env) loginCmd() *cobra.Command {
	var form forms.Login

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the credential",
		Long: `Sign in and store the credential for later commands.

Missing values are read from standard input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd)
			var err error
			if form.Username, err = p.ask("Username", form.Username); err != nil {
				return err
			}
			if form.Password, err = p.secret("Password", form.Password); err != nil {
				return err
			}
			if err := form.Validate(); err != nil {
				return err
			}

			_, store, err := e.connect(e.logger())
			if err != nil {
				return err
			}
			user, err := store.Login(cmd.Context(), form.Request())
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			e.Successf("Signed in as %s", user.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&form.Username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&form.Password, "password", "P", "", "password")
	return cmd
}

func (e *env) registerCmd() *cobra.Command {
	var form forms.Register

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd)
			var err error
			if form.Username, err = p.ask("Username", form.Username); err != nil {
				return err
			}
			if form.Email, err = p.ask("Email", form.Email); err != nil {
				return err
			}
			if form.Password, err = p.secret("Password", form.Password); err != nil {
				return err
			}
			if form.Confirm, err = p.secret("Confirm password", form.Confirm); err != nil {
				return err
			}
			if err := form.Validate(); err != nil {
				return err
			}

			_, store, err := e.connect(e.logger())
			if err != nil {
				return err
			}
			user, err := store.Register(cmd.Context(), form.Request())
			if err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}
			e.Successf("Registered and signed in as %s", user.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&form.Username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&form.Email, "email", "e", "", "email address")
	cmd.Flags().StringVarP(&form.Password, "password", "P", "", "password")
	cmd.Flags().StringVar(&form.Confirm, "confirm", "", "password confirmation")
	return cmd
}

func (e *env) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := e.connect(e.logger())
			if err != nil {
				return err
			}
			if err := store.Logout(); err != nil {
				return err
			}
			e.Successf("Signed out")
			return nil
		},
	}
}

func (e *env) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := e.signedIn(cmd)
			if err != nil {
				return err
			}
			user := store.User()

			return e.emit(user, func() {
				fmt.Fprintln(e.out, field("Username", user.Username))
				fmt.Fprintln(e.out, field("Email", user.Email))
				fmt.Fprintf(e.out, "%s\n", field("ID", fmt.Sprint(user.ID)))
				if !user.CreatedAt.IsZero() {
					fmt.Fprintln(e.out, field("Joined", user.CreatedAt.Format("2006-01-02")))
				}
			})
		},
	}
}

func (e *env) passwdCmd() *cobra.Command {
	var form forms.ChangePassword

	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change the password of the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd)
			var err error
			if form.Current, err = p.secret("Current password", form.Current); err != nil {
				return err
			}
			if form.New, err = p.secret("New password", form.New); err != nil {
				return err
			}
			if form.Confirm, err = p.secret("Confirm new password", form.Confirm); err != nil {
				return err
			}
			if err := form.Validate(); err != nil {
				return err
			}

			store, err := e.signedIn(cmd)
			if err != nil {
				return err
			}
			if err := store.ChangePassword(cmd.Context(), form.Current, form.New); err != nil {
				return fmt.Errorf("change password: %w", err)
			}
			e.Successf("Password changed")
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Current, "current", "", "current password")
	cmd.Flags().StringVar(&form.New, "new", "", "new password")
	cmd.Flags().StringVar(&form.Confirm, "confirm", "", "new password again")
	return cmd
}

func (e *env) tokenCmd() *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Inspect or renew the stored credential",
	}

	tokenCmd.AddCommand(
		&cobra.Command{
			Use:   "expiry",
			Short: "Show when the credential expires",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := e.signedIn(cmd)
				if err != nil {
					return err
				}
				exp, err := store.Expiry()
				if errors.Is(err, session.ErrNoExpiry) {
					fmt.Fprintln(e.out, "The credential does not expire")
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(e.out, "Expires %s (in %s)\n", exp.Local().Format(time.RFC1123), time.Until(exp).Round(time.Minute))
				return nil
			},
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Ask the server whether the credential is accepted",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := e.signedIn(cmd)
				if err != nil {
					return err
				}
				result, err := store.Validate(cmd.Context())
				if err != nil {
					return err
				}
				return e.emit(result, func() {
					if result.Valid {
						e.Successf("Credential is valid for %s", result.Username)
					} else {
						fmt.Fprintln(e.out, "Credential is not valid")
					}
				})
			},
		},
		&cobra.Command{
			Use:   "refresh",
			Short: "Exchange the credential for a fresh one",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := e.signedIn(cmd)
				if err != nil {
					return err
				}
				if err := store.Refresh(cmd.Context()); err != nil {
					return fmt.Errorf("refresh: %w", err)
				}
				e.Successf("Credential refreshed")
				return nil
			},
		},
	)

	return tokenCmd
}
