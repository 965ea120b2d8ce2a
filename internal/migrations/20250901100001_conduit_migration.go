package migrations

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.inout.gg/conduit/conduitmigrate"
)

//nolint:exhaustruct
var m20250901100001 = conduitmigrate.New(&conduitmigrate.Config{}) //nolint:gochecknoglobals

//nolint:gochecknoinits
func init() {
	Registry.Up(up20250901100001)
	Registry.Down(down20250901100001)
}

func up20250901100001(ctx context.Context, conn *pgx.Conn) error {
	//nolint:wrapcheck
	return m20250901100001.Up(ctx, conn)
}

func down20250901100001(ctx context.Context, conn *pgx.Conn) error {
	//nolint:wrapcheck
	return m20250901100001.Down(ctx, conn)
}
