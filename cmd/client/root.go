package main

import (
	"errors"

	"github.com/MKhiriev/go-task-sync/internal/client"
	"github.com/MKhiriev/go-task-sync/internal/config"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/registry"
	"github.com/MKhiriev/go-task-sync/internal/service"
	"github.com/MKhiriev/go-task-sync/models"
	"github.com/spf13/cobra"
)

// rootOptions are the persistent flags. Non-empty values override env.
type rootOptions struct {
	configPath string
	server     string
	dbPath     string
	hashKey    string
	logFile    string

	app *client.App
}

func (o *rootOptions) overrides() *config.StructuredConfig {
	return &config.StructuredConfig{
		App:          config.App{HashKey: o.hashKey},
		Storage:      config.Storage{DB: config.DB{DSN: o.dbPath}},
		Adapter:      config.Adapter{HTTPAddress: o.server},
		JSONFilePath: o.configPath,
	}
}

// close releases the app opened by the pre-run hook. Cobra skips post-run
// hooks when a command fails, so callers defer it instead.
func (o *rootOptions) close() error {
	if o.app == nil {
		return nil
	}
	err := o.app.Close()
	o.app = nil
	return err
}

func newRootCmd(build models.AppBuildInfo) (*cobra.Command, *rootOptions) {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "tasksync",
		Short:         "Offline-first tasks, projects, goals and habits",
		Long:          "tasksync keeps entities in a local SQLite store and synchronizes them with the sync server.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.GetClientConfig(opts.overrides())
			if err != nil {
				return err
			}

			log := logger.NewClientLogger("tasksync-client", opts.logFile)
			app, err := client.NewApp(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}

			opts.app = app
			cmd.SetContext(app.Context(cmd.Context()))
			return nil
		},
	}

	f := root.PersistentFlags()
	f.StringVarP(&opts.configPath, "config", "c", "", "path to a JSON config file")
	f.StringVarP(&opts.server, "server", "s", "", "sync server address (host:port)")
	f.StringVar(&opts.dbPath, "db", "", "path of the local SQLite store")
	f.StringVarP(&opts.hashKey, "hash-key", "k", "", "key that signs request bodies")
	f.StringVar(&opts.logFile, "log-file", "", "log file (default: tasksync.log next to the binary)")

	root.AddGroup(
		&cobra.Group{ID: "auth", Title: "Account:"},
		&cobra.Group{ID: "records", Title: "Records:"},
		&cobra.Group{ID: "sync", Title: "Synchronization:"},
	)
	root.AddCommand(
		newRegisterCmd(opts), newLoginCmd(opts), newLogoutCmd(opts),
		newPutCmd(opts), newGetCmd(opts), newListCmd(opts), newDeleteCmd(opts),
		newSyncCmd(opts), newWatchCmd(opts), newConflictsCmd(opts), newResolveCmd(opts),
		newVersionCmd(opts, build),
	)

	return root, opts
}

// parseEntityType accepts the registered entity types only.
func parseEntityType(s string) (models.EntityType, error) {
	for _, t := range registry.DefaultTypes() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", errors.Join(registry.ErrUnsupportedEntityType, errors.New(s))
}

// humanize turns the common client errors into a hint for the user.
func humanize(err error) string {
	switch {
	case errors.Is(err, service.ErrNotLoggedIn):
		return "not logged in, run `tasksync login <login>` first"
	case errors.Is(err, service.ErrTokenIsExpiredOrInvalid), errors.Is(err, service.ErrUnauthorized):
		return "session expired, run `tasksync login <login>` again"
	case errors.Is(err, service.ErrServerUnavailable):
		return "sync server is unavailable, local changes are kept"
	case errors.Is(err, service.ErrWrongPassword):
		return "wrong login or password"
	case errors.Is(err, service.ErrLoginAlreadyExists):
		return "login is already taken"
	}
	return err.Error()
}
