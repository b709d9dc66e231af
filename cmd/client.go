package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/jinzai/internal"
	"github.com/frahmantamala/jinzai/internal/api"
	"github.com/frahmantamala/jinzai/internal/auth"
	"github.com/frahmantamala/jinzai/internal/session"
	"github.com/frahmantamala/jinzai/pkg/logger"
)

var (
	cliUsername string
	cliPassword string
	cliTimeout  time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Sign in to the backend and print the access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), cliTimeout)
		defer cancel()

		_, holder, err := cliLogin(ctx)
		if err != nil {
			return err
		}
		sess, _ := holder.Get()
		fmt.Fprintf(cmd.ErrOrStderr(), "admin: %t\n", sess.IsAdmin)
		fmt.Fprintln(cmd.OutOrStdout(), sess.Token)
		return nil
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List backend users (admin only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), cliTimeout)
		defer cancel()

		client, holder, err := cliLogin(ctx)
		if err != nil {
			return err
		}
		if sess, _ := holder.Get(); !sess.IsAdmin {
			return internal.ErrAuthorizationDenied
		}

		users, err := client.ListUsers(ctx)
		if err != nil {
			return fmt.Errorf("%s", internal.UserMessage(err))
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tACTIVE\tADMIN\tGRANTED DAYS")
		for _, u := range users {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%t\t%d\n", u.ID, u.DisplayName(), u.Email, u.IsActive, u.IsSuperuser, u.GrantedAdditionalDays)
		}
		return tw.Flush()
	},
}

// cliLogin signs in with the command's credentials and returns a client bound
// to the resulting process-wide session.
func cliLogin(ctx context.Context) (*api.Client, *session.Holder, error) {
	cfg := mustLoadConfig()
	lg := logger.LoggerWrapper()

	password := cliPassword
	if password == "" {
		password = os.Getenv("JINZAI_PASSWORD")
	}

	base := api.NewClient(api.Config{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout}, nil, lg)
	sess, err := auth.NewService(base, lg).Login(ctx, auth.LoginDTO{Username: cliUsername, Password: password})
	if err != nil {
		return nil, nil, fmt.Errorf("login failed: %s", internal.UserMessage(err))
	}

	holder := session.NewHolder(sess)
	return base.WithTokens(holder), holder, nil
}

func init() {
	for _, c := range []*cobra.Command{tokenCmd, usersCmd} {
		c.Flags().StringVarP(&cliUsername, "username", "u", "", "username or email")
		c.Flags().StringVarP(&cliPassword, "password", "p", "", "password (defaults to $JINZAI_PASSWORD)")
		c.Flags().DurationVar(&cliTimeout, "timeout", 30*time.Second, "overall timeout")
		_ = c.MarkFlagRequired("username")
	}
}
