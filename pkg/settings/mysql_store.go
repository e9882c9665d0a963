package settings

import (
	"context"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"pageview-capi/dto"
)

const (
	DefaultTablePrefix  = "wp_"
	DefaultOptionPrefix = "wssc_"
)

type optionRow struct {
	Name  string `db:"option_name"`
	Value string `db:"option_value"`
}

// MysqlStore reads the plugin options straight from a WordPress options table.
type MysqlStore struct {
	db           *sqlx.DB
	tablePrefix  string
	optionPrefix string
}

func NewMysqlStore(db *sqlx.DB, tablePrefix, optionPrefix string) *MysqlStore {
	return &MysqlStore{db: db, tablePrefix: tablePrefix, optionPrefix: optionPrefix}
}

// NewMysqlStoreFromConfig opens mysql.dsn with the mysql driver.
func NewMysqlStoreFromConfig() (*MysqlStore, error) {
	db, err := sqlx.Open("mysql", viper.GetString("mysql.dsn"))
	if err != nil {
		return nil, errors.Wrap(err, "open settings database")
	}
	viper.SetDefault("mysql.table_prefix", DefaultTablePrefix)
	viper.SetDefault("mysql.option_prefix", DefaultOptionPrefix)
	return NewMysqlStore(db, viper.GetString("mysql.table_prefix"), viper.GetString("mysql.option_prefix")), nil
}

func (s *MysqlStore) Load(ctx context.Context) (*dto.Pixel, error) {
	names := make([]string, 0, len(Keys))
	for _, key := range Keys {
		names = append(names, s.optionPrefix+key)
	}

	query, args, err := sqlx.In(fmt.Sprintf("SELECT option_name, option_value FROM %voptions WHERE option_name IN (?)", s.tablePrefix), names)
	if err != nil {
		return nil, errors.Wrap(err, "build options query")
	}

	rows := make([]optionRow, 0, len(Keys))
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "select plugin options")
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[strings.TrimPrefix(row.Name, s.optionPrefix)] = row.Value
	}
	return fromValues(values), nil
}

func (s *MysqlStore) Close() error {
	return s.db.Close()
}
