package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/akeren/innr-waitlist/config"
	"github.com/akeren/innr-waitlist/internal/log"
	"github.com/akeren/innr-waitlist/pkg/migrations"
	"github.com/akeren/innr-waitlist/pkg/utils"
)

const migrationTimeout = 5 * time.Minute

func main() {
	logger := log.NewLoggerWithJSONOutput()
	config.InitializeEnvFile(logger)

	if err := run(logger, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(logger *log.Logger, args []string) error {
	if len(args) == 0 {
		printUsage()
		return fmt.Errorf("missing command")
	}

	switch args[0] {
	case "migrate":
		return migrate(logger, args[1:])
	case "schools":
		return listSchools(logger)
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// migrate runs `migrate [up]`, `migrate down <n>` or `migrate version`.
// An empty MIGRATIONS_DIR applies the schema embedded in the binary.
func migrate(logger *log.Logger, args []string) error {
	action := "up"
	if len(args) > 0 {
		action = args[0]
	}

	db, err := config.NewDatabase(logger, nil)
	if err != nil {
		return err
	}
	defer config.CloseDatabase(db, logger)

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), migrationTimeout)
	defer cancel()

	cfg := migrations.Config{Dir: utils.GetEnvTrimmed("MIGRATIONS_DIR"), Logger: logger}

	switch action {
	case "up":
		return migrations.Up(ctx, sqlDB, cfg)
	case "down":
		return migrateDown(ctx, sqlDB, cfg, args[1:])
	case "version":
		version, dirty, err := migrations.Version(ctx, sqlDB, cfg)
		if err != nil {
			return err
		}
		fmt.Printf("schema version %d (dirty=%t)\n", version, dirty)
		return nil
	default:
		return fmt.Errorf("unknown migrate action %q", action)
	}
}

func migrateDown(ctx context.Context, sqlDB *sql.DB, cfg migrations.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: cli migrate down <steps>")
	}

	steps, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid step count %q", args[0])
	}
	return migrations.Down(ctx, sqlDB, cfg, steps)
}

func listSchools(logger *log.Logger) error {
	directory := config.NewAppConfig().LoadSchoolDirectory(logger)
	if directory == nil {
		return fmt.Errorf("school directory unavailable")
	}

	domains := directory.KnownDomains()
	sort.Strings(domains)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DOMAIN\tSCHOOL\tID")
	for _, domain := range domains {
		school, _ := directory.Lookup(domain)
		fmt.Fprintf(w, "%s\t%s\t%s\n", domain, school.Name, school.ID)
	}
	return w.Flush()
}

func printUsage() {
	fmt.Println(`Usage: cli <command>

Commands:
  migrate [up]          Apply the waitlist schema (table, leaderboard views, SQL functions)
  migrate down <steps>  Roll back the given number of migrations
  migrate version       Print the applied schema version
  schools               Print the school directory signup domains resolve against`)
}
