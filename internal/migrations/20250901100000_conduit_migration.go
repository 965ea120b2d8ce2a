package migrations

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5"
	"go.inout.gg/conduit/conduitmigrate"
)

var (
	//nolint:gochecknoglobals,exhaustruct
	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	//nolint:gochecknoglobals
	m20250901100000 = conduitmigrate.New(&conduitmigrate.Config{
		Logger: logger,
	})
)

//nolint:gochecknoinits
func init() {
	Registry.Up(up20250901100000)
	Registry.Down(down20250901100000)
}

func up20250901100000(ctx context.Context, conn *pgx.Conn) error {
	//nolint:wrapcheck
	return m20250901100000.Up(ctx, conn)
}

func down20250901100000(ctx context.Context, conn *pgx.Conn) error {
	//nolint:wrapcheck
	return m20250901100000.Down(ctx, conn)
}
