package data

import (
	"context"
	"fmt"

	"oublog-audit/internal/conf"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(
	NewData,
	ProvideDriver,
	ProvideRedis,
	NewCommentRepo,
	NewLogStore,
	NewActivityCache,
	NewEventDispatcher,
	NewUnitOfWork,
)

// Data holds the database driver and the optional redis client.
type Data struct {
	db  *entsql.Driver
	rdb *redis.Client
}

// NewData opens the database, creates the schema and connects to redis when configured.
func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	log := log.NewHelper(logger)

	driver, source := dialect.SQLite, "file:oublog?mode=memory&cache=shared&_fk=1"
	if c != nil && c.Database != nil {
		if c.Database.Driver != "" {
			driver = c.Database.Driver
		}
		if c.Database.Source != "" {
			source = c.Database.Source
		}
	}

	db, err := entsql.Open(driver, source)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == dialect.SQLite {
		// sqlite allows a single writer
		db.DB().SetMaxOpenConns(1)
	}

	d := &Data{db: db}
	if err := d.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, nil, err
	}

	if c != nil && c.Redis != nil && c.Redis.Addr != "" {
		d.rdb = redis.NewClient(&redis.Options{
			Addr:         c.Redis.Addr,
			Password:     c.Redis.Password,
			DB:           c.Redis.DB,
			ReadTimeout:  conf.ParseDuration(c.Redis.ReadTimeout, 0),
			WriteTimeout: conf.ParseDuration(c.Redis.WriteTimeout, 0),
		})
	}

	cleanup := func() {
		log.Info("message", "closing the data resources")
		if err := d.db.Close(); err != nil {
			log.Error(err)
		}
		if d.rdb != nil {
			if err := d.rdb.Close(); err != nil {
				log.Error(err)
			}
		}
	}

	return d, cleanup, nil
}

// NewDataFromClients wraps already opened clients. rdb may be nil.
func NewDataFromClients(db *entsql.Driver, rdb *redis.Client) *Data {
	return &Data{db: db, rdb: rdb}
}

// Migrate creates or upgrades the schema.
func (d *Data) Migrate(ctx context.Context) error {
	m, err := schema.NewMigrate(d.db)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// ProvideDriver exposes the database driver to the eventbus providers.
func ProvideDriver(d *Data) *entsql.Driver {
	return d.db
}

// ProvideRedis exposes the redis client, nil when redis is disabled.
func ProvideRedis(d *Data) *redis.Client {
	return d.rdb
}

func (d *Data) builder() *entsql.DialectBuilder {
	return entsql.Dialect(d.db.Dialect())
}

type txKey struct{}

// TxFromContext retrieves the transaction from context.
func TxFromContext(ctx context.Context) dialect.Tx {
	tx, _ := ctx.Value(txKey{}).(dialect.Tx)
	return tx
}

// conn returns the transaction bound to ctx, or the driver itself.
func (d *Data) conn(ctx context.Context) dialect.ExecQuerier {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return d.db
}
