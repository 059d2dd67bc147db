package errors

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// dumpKeys are the detail entries lifted into log fields so an error line can be
// joined with the cart, selection or checkout it came from.
var dumpKeys = []string{"session_id", "product_id", "variant_id", "checkout_id", "provider"}

// ErrorDump is the log-side view of an error. It is never sent to clients.
type ErrorDump struct {
	TopMessage string         `json:"top_message"`
	Code       Code           `json:"code,omitempty"`
	Retryable  bool           `json:"retryable"`
	Keys       map[string]any `json:"keys,omitempty"`

	Chain []string `json:"chain,omitempty"`

	Backend  string `json:"backend,omitempty"`
	Timeout  bool   `json:"timeout,omitempty"`
	Canceled bool   `json:"canceled,omitempty"`

	PGCode       string `json:"pg_code,omitempty"`
	PGConstraint string `json:"pg_constraint,omitempty"`
	PGTable      string `json:"pg_table,omitempty"`
	PGColumn     string `json:"pg_column,omitempty"`
	PGDetail     string `json:"pg_detail,omitempty"`
	PGMessage    string `json:"pg_message,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
		Retryable:  Retryable(err),
		Timeout:    errors.Is(err, context.DeadlineExceeded),
		Canceled:   errors.Is(err, context.Canceled),
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
		if typed, ok := e.(*Error); ok {
			if d.Code == "" {
				d.Code = typed.Code()
			}
			collectKeys(&d, typed.Details())
		}
	}

	var pgxErr *pgconn.PgError
	var pqErr *pq.Error
	var redisErr redis.Error
	switch {
	case errors.As(err, &pgxErr):
		d.Backend = BackendPostgres
		d.PGCode = pgxErr.Code
		d.PGConstraint = pgxErr.ConstraintName
		d.PGTable = pgxErr.TableName
		d.PGColumn = pgxErr.ColumnName
		d.PGDetail = pgxErr.Detail
		d.PGMessage = pgxErr.Message
	case errors.As(err, &pqErr):
		d.Backend = BackendPostgres
		d.PGCode = string(pqErr.Code)
		d.PGConstraint = pqErr.Constraint
		d.PGTable = pqErr.Table
		d.PGColumn = pqErr.Column
		d.PGDetail = pqErr.Detail
		d.PGMessage = pqErr.Message
	case errors.As(err, &redisErr), errors.Is(err, redis.ErrClosed):
		d.Backend = BackendRedis
	}

	return d
}

// collectKeys keeps the outermost value for each key.
func collectKeys(d *ErrorDump, details any) {
	lookup := func(string) (any, bool) { return nil, false }
	switch m := details.(type) {
	case map[string]any:
		lookup = func(k string) (any, bool) { v, ok := m[k]; return v, ok }
	case map[string]string:
		lookup = func(k string) (any, bool) { v, ok := m[k]; return v, ok }
	default:
		return
	}
	for _, key := range dumpKeys {
		if _, seen := d.Keys[key]; seen {
			continue
		}
		if v, ok := lookup(key); ok {
			if d.Keys == nil {
				d.Keys = map[string]any{}
			}
			d.Keys[key] = v
		}
	}
}
