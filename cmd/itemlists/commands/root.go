package commands

import (
	"errors"
	"fmt"
	"io"

	charmlog "github.com/charmbracelet/log"
	"github.com/karupanerura/item-service/internal/config"
	"github.com/karupanerura/item-service/internal/lists"
	"github.com/karupanerura/item-service/internal/logger"
	"github.com/karupanerura/item-service/metrics"
	"github.com/karupanerura/item-service/model"
	"github.com/karupanerura/item-service/remote"
	"github.com/karupanerura/item-service/storage"
	"github.com/karupanerura/item-service/storage/memstorage"
	"github.com/karupanerura/item-service/storage/redisstorage"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// app holds what the subcommands share.
type app struct {
	cfg     *config.Config
	log     *charmlog.Logger
	metrics *metrics.Collector
	lists   *lists.Lists
	out     io.Writer
	closers []func() error
}

// flagKeys maps the persistent flags to their configuration keys.
var flagKeys = map[string]string{
	"user":       "user.id",
	"premium":    "user.premium",
	"api":        "api.base_url",
	"token":      "api.token",
	"timeout":    "api.timeout",
	"cache":      "cache.backend",
	"cache-ttl":  "cache.ttl",
	"redis-addr": "cache.redis_addr",
	"log-level":  "log.level",
	"log-json":   "log.json",
}

// NewRootCommand creates the itemlists command reading the environment from environ.
func NewRootCommand(environ func() []string) *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "itemlists",
		Short:         "Load and print the item lists of a user",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			overrides := config.Source{}
			for name, key := range flagKeys {
				f := cmd.Flags().Lookup(name)
				if f != nil && f.Changed {
					overrides[key] = f.Value.String()
				}
			}
			cfg, err := (&config.Loader{Environ: environ}).Load(overrides)
			if err != nil {
				return err
			}
			a.out = cmd.OutOrStdout()
			return a.init(cfg, cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}

	pf := root.PersistentFlags()
	pf.String("user", "", "id of the current user")
	pf.Bool("premium", false, "the current user is premium and gets the friends cache")
	pf.String("api", "", "base URL of the items API")
	pf.String("token", "", "bearer token of the items API")
	pf.Duration("timeout", 0, "timeout of each API request")
	pf.String("cache", "", "friends cache backend (memory or redis)")
	pf.Duration("cache-ttl", 0, "how long the cached friends stay readable")
	pf.String("redis-addr", "", "address of the Redis server of the friends cache")
	pf.String("log-level", "", "log level (debug, info, warn or error)")
	pf.Bool("log-json", false, "write logs as JSON")

	root.AddCommand(showCmd(a), allCmd(a), selectCmd(a), refreshCmd(a))
	return root
}

func (a *app) init(cfg *config.Config, logOutput io.Writer) error {
	a.cfg = cfg
	a.log = logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		JSON:       cfg.Log.JSON,
		Output:     logOutput,
		TimeFormat: "15:04:05",
	})
	a.metrics = metrics.NewCollector(cfg.Metrics.Namespace)

	client := remote.NewClient(cfg.API.BaseURL,
		remote.WithTimeout(cfg.API.Timeout),
		remote.WithToken(cfg.API.Token),
		remote.WithUser(cfg.User.ID),
	)

	friendsStorage, err := a.friendsStorage()
	if err != nil {
		return err
	}

	a.lists = lists.Wire(lists.Deps{
		Friends:      client.Friends(),
		Cards:        client.Cards(),
		Transfers:    client.Transfers(),
		FriendsCache: storage.Bind(friendsStorage, cfg.User.ID),
		Premium:      cfg.User.Premium,
		Handlers:     a.handlers(),
		OnCacheError: logger.ErrorReporter(a.log, "cache error"),
		Metrics:      a.metrics,
	})
	a.log.Debug("lists wired", "user", cfg.User.ID, "premium", cfg.User.Premium, "cache", cfg.Cache.Backend)
	return nil
}

func (a *app) friendsStorage() (storage.KeyedStorage[string, model.Friend], error) {
	switch a.cfg.Cache.Backend {
	case config.CacheRedis:
		rdb := redis.NewClient(&redis.Options{Addr: a.cfg.Cache.RedisAddr})
		a.closers = append(a.closers, rdb.Close)
		return redisstorage.NewRedisStorage[string, model.Friend](rdb,
			redisstorage.WithKeyPrefix[string](a.cfg.Cache.KeyPrefix),
			redisstorage.WithTTL[string](a.cfg.Cache.TTL),
		), nil
	case config.CacheMemory:
		return memstorage.NewInMemoryStorage(
			memstorage.WithTTL[string, model.Friend](a.cfg.Cache.TTL),
		), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %q", a.cfg.Cache.Backend)
	}
}

func (a *app) close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}
