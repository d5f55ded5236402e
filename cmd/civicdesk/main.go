package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/k1networth/civicdesk/internal/api"
	"github.com/k1networth/civicdesk/internal/notify"
	"github.com/k1networth/civicdesk/internal/pincode"
	"github.com/k1networth/civicdesk/internal/request"
	"github.com/k1networth/civicdesk/internal/session"
	"github.com/k1networth/civicdesk/internal/shared/config"
	"github.com/k1networth/civicdesk/internal/shared/logger"
)

const appName = "civicdesk"

type app struct {
	cfg     config.Config
	log     *slog.Logger
	toast   *notify.Toaster
	session *session.Store
	manager *request.Manager
	pin     *pincode.Lookup
}

func newApp() *app {
	cfg := config.Load()
	log := logger.New(appName, cfg.AppEnv)

	sess := session.NewStore(cfg.SessionFile)
	if err := sess.Load(); err != nil {
		log.Warn("session_load_failed", slog.String("err", err.Error()))
	}

	toast := notify.NewToaster(cfg.ToastTTL)
	store := api.NewClient(cfg.APIBase,
		api.WithTimeout(cfg.HTTPTimeout),
		api.WithMetrics(api.NewMetrics(prometheus.NewRegistry())),
	)

	return &app{
		cfg:     cfg,
		log:     log,
		toast:   toast,
		session: sess,
		manager: request.NewManager(log, store, toast, sess),
		pin:     pincode.New(log, cfg.PinAPIBase, cfg.HTTPTimeout),
	}
}

// printToast surfaces the operation outcome the way the portal UI would show
// the toast.
func (a *app) printToast() {
	t, ok := a.toast.Current()
	if !ok {
		return
	}
	switch t.Kind {
	case notify.KindGood:
		fmt.Printf("ok: %s\n", t.Message)
	default:
		fmt.Printf("error: %s\n", t.Message)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "civicdesk",
		Short:         "Client for the citizen services portal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newRequestsCmd(a),
		newPinCmd(a),
		newUpiCmd(),
	)

	return root
}

func newLoginCmd(a *app) *cobra.Command {
	var name, email, picture string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a signed-in identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" || email == "" {
				return fmt.Errorf("--name and --email are required")
			}
			id := session.Identity{Name: name, Email: email, Picture: picture}
			if err := a.session.Save(id); err != nil {
				return err
			}
			fmt.Printf("signed in as %s <%s>\n", id.Name, id.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&picture, "picture", "", "avatar URL")

	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.session.Clear(); err != nil {
				return err
			}
			fmt.Println("signed out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := a.session.Current()
			if !ok {
				fmt.Println("not signed in")
				return nil
			}
			fmt.Printf("%s <%s>\n", id.Name, id.Email)
			return nil
		},
	}
}

func main() {
	a := newApp()
	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
