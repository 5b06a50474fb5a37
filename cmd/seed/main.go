package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/room-session-api/internal/models"
	"github.com/noah-isme/room-session-api/pkg/config"
	"github.com/noah-isme/room-session-api/pkg/database"
	"github.com/noah-isme/room-session-api/pkg/logger"
)

// directory is a generated set of rooms, teams and juries.
type directory struct {
	Rooms  []models.Room
	Teams  []models.Team
	Juries []models.Jury
}

type seedCounts struct {
	rooms  int
	teams  int
	juries int
}

func main() {
	counts := seedCounts{}
	flag.IntVar(&counts.rooms, "rooms", 4, "number of rooms to create")
	flag.IntVar(&counts.teams, "teams", 24, "number of teams to create")
	flag.IntVar(&counts.juries, "juries", 8, "number of juries to create")
	seed := flag.Int64("seed", 1, "random seed; the same seed yields the same labels")
	reset := flag.Bool("reset", false, "delete existing directory rows first")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx := context.Background()
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	if err := database.RunMigrations(db.DB, logr); err != nil {
		logr.Fatal("failed to migrate database", zap.Error(err))
	}

	dir := generateDirectory(gofakeit.New(*seed), counts)
	if err := database.WithTx(ctx, db, func(tx *sqlx.Tx) error {
		return insertDirectory(ctx, tx, dir, *reset)
	}); err != nil {
		logr.Fatal("failed to seed directory", zap.Error(err))
	}
	logr.Info("directory seeded",
		zap.Int("rooms", len(dir.Rooms)),
		zap.Int("teams", len(dir.Teams)),
		zap.Int("juries", len(dir.Juries)),
		zap.Int64("seed", *seed),
	)
}

// generateDirectory builds labels only; IDs are assigned by the database.
func generateDirectory(faker *gofakeit.Faker, counts seedCounts) directory {
	dir := directory{
		Rooms:  make([]models.Room, 0, counts.rooms),
		Teams:  make([]models.Team, 0, counts.teams),
		Juries: make([]models.Jury, 0, counts.juries),
	}
	for i := 0; i < counts.rooms; i++ {
		dir.Rooms = append(dir.Rooms, models.Room{Label: fmt.Sprintf("Room %d%02d", i/10+1, i%10+1)})
	}
	for i := 0; i < counts.teams; i++ {
		dir.Teams = append(dir.Teams, models.Team{Label: fmt.Sprintf("Team %d %s", i+1, faker.Company())})
	}
	for i := 0; i < counts.juries; i++ {
		dir.Juries = append(dir.Juries, models.Jury{Label: fmt.Sprintf("%s %s", faker.FirstName(), faker.LastName())})
	}
	return dir
}

func insertDirectory(ctx context.Context, tx *sqlx.Tx, dir directory, reset bool) error {
	if reset {
		if _, err := tx.ExecContext(ctx, "TRUNCATE session_plan_slots, session_plans, rooms, teams, juries RESTART IDENTITY"); err != nil {
			return fmt.Errorf("reset directory: %w", err)
		}
	}
	if len(dir.Rooms) > 0 {
		if _, err := tx.NamedExecContext(ctx, "INSERT INTO rooms (label) VALUES (:label)", dir.Rooms); err != nil {
			return fmt.Errorf("insert rooms: %w", err)
		}
	}
	if len(dir.Teams) > 0 {
		if _, err := tx.NamedExecContext(ctx, "INSERT INTO teams (label) VALUES (:label)", dir.Teams); err != nil {
			return fmt.Errorf("insert teams: %w", err)
		}
	}
	if len(dir.Juries) > 0 {
		if _, err := tx.NamedExecContext(ctx, "INSERT INTO juries (label) VALUES (:label)", dir.Juries); err != nil {
			return fmt.Errorf("insert juries: %w", err)
		}
	}
	return nil
}
