package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"panaudit/internal/backend"
	"panaudit/internal/config"
	"panaudit/internal/logging"
	"panaudit/internal/prefs"
	"panaudit/internal/scan"
	"panaudit/internal/session"
)

type commandContext struct {
	configFlag  *string
	verboseFlag *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	prefsOnce  sync.Once
	prefsStore *prefs.Store
}

func newCommandContext(configFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		verboseFlag: verboseFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		if c.verboseFlag == nil || !*c.verboseFlag {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.New(logging.Options{
			Level:       "debug",
			Format:      "console",
			OutputPaths: []string{"stderr"},
		})
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) client() (*backend.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return backend.New(cfg.Backend.BaseURL, cfg.Backend.APIToken, cfg.RequestTimeout(),
		backend.WithLogger(c.ensureLogger()))
}

func (c *commandContext) prefs() (*prefs.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	c.prefsOnce.Do(func() {
		c.prefsStore = prefs.NewStore(cfg.PrefsPath(), c.ensureLogger())
	})
	return c.prefsStore, nil
}

// withStore opens the session store for the duration of fn. The store takes a
// process lock, so it is opened per command rather than held on the context.
func (c *commandContext) withStore(fn func(*session.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := session.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// resolveDate returns the date to audit: the explicit flag when given, else
// the remembered last date, else today in the business timezone.
func (c *commandContext) resolveDate(dateFlag string) (string, error) {
	dateFlag = strings.TrimSpace(dateFlag)
	if dateFlag != "" {
		if _, err := time.Parse("2006-01-02", dateFlag); err != nil {
			return "", fmt.Errorf("invalid date %q (use YYYY-MM-DD)", dateFlag)
		}
		return dateFlag, nil
	}

	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	loc, err := cfg.Location()
	if err != nil {
		return "", err
	}
	now := time.Now().In(loc)

	if store, err := c.prefs(); err == nil {
		if remembered, ok := store.LastDate(now); ok {
			return remembered, nil
		}
	}
	return now.Format("2006-01-02"), nil
}

// loadSession fetches the scan feed for a scope and folds it into the
// persisted ledger, saving the merged result. Existing edits survive the
// merge; a scope change starts a fresh ledger.
func (c *commandContext) loadSession(ctx context.Context, store *session.Store, client *backend.Client, restaurantID, date string) (*session.Session, *backend.ScanFeed, error) {
	feed, err := client.ScansToAudit(ctx, restaurantID, date, true)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch scans: %w", err)
	}

	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}

	ses, err := store.LoadScope(ctx, restaurantID, date)
	if err != nil {
		return nil, nil, err
	}
	ses = ses.MergeScans(restaurantID, date, allScans(feed), time.Now().In(loc))
	if err := store.Save(ctx, ses); err != nil {
		return nil, nil, err
	}
	return ses, feed, nil
}

// allScans returns the feed's normal and flagged records in fetch order.
func allScans(feed *backend.ScanFeed) []scan.Record {
	combined := make([]scan.Record, 0, len(feed.Scans)+len(feed.Flagged))
	combined = append(combined, feed.Scans...)
	combined = append(combined, feed.Flagged...)
	return combined
}
