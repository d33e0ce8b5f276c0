package migration

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"git.vibecoding.academy/vca/vca/src/config"
	"git.vibecoding.academy/vca/vca/src/db"
	"git.vibecoding.academy/vca/vca/src/models"
	"git.vibecoding.academy/vca/vca/src/utils"
	lorem "github.com/HandmadeNetwork/golorem"
	"github.com/gosimple/slug"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/tracelog"
)

// Drops and recreates the database, migrates to the latest version, and
// fills it with enough sample data to click around locally.
//
// The db role in the config must have the CREATEDB attribute:
// `ALTER ROLE vca WITH CREATEDB;`
func SampleSeed() {
	ctx := context.Background()

	resetDatabase(ctx)

	fmt.Println("Running migrations...")
	Migrate(LatestVersion())

	conn := db.NewConnWithConfig(config.PostgresConfig{
		LogLevel: tracelog.LogLevelWarn,
	})
	defer conn.Close(ctx)

	tx, err := conn.Begin(ctx)
	if err != nil {
		panic(err)
	}
	defer tx.Rollback(ctx)

	fmt.Println("Creating staff...")
	admin := seedProfile(ctx, tx, models.Profile{Name: "Ada Admin", Role: models.RoleAdmin})
	facilitator := seedProfile(ctx, tx, models.Profile{Name: "Felix Facilitator", Role: models.RoleFacilitator})

	fmt.Println("Creating cohort members...")
	var members []*models.Profile
	for _, name := range []string{"Alice", "Bob", "Charlie", "Dana", "Evan", "Fran"} {
		members = append(members, seedProfile(ctx, tx, models.Profile{Name: name}))
	}

	fmt.Println("Creating curriculum weeks...")
	var weeks []*models.Week
	titles := []string{
		"Hello, Agents", "Prompting Fundamentals", "Shipping Your First App",
		"Data and Storage", "Auth Without Tears", "Polish Week",
	}
	for i, title := range titles {
		number := i + 1
		week := seedWeek(ctx, tx, number, title, 1+i/2, number <= 4)
		weeks = append(weeks, week)
		seedSection(ctx, tx, week.ID, "Overview", 1, false)
		seedSection(ctx, tx, week.ID, "Live Session Notes", 2, false)
		if rand.Intn(2) == 1 {
			seedSection(ctx, tx, week.ID, "Extra Resources", 3, false)
		}
	}

	fmt.Println("Creating projects...")
	var projects []*models.Project
	for i, member := range members {
		project, err := db.QueryOne[models.Project](ctx, tx,
			`
			INSERT INTO project (user_id, title, description, goal, status, tech_stack, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING $columns
			`,
			member.ID,
			capitalize(lorem.Word(4, 10)),
			lorem.Paragraph(1, 2),
			lorem.Sentence(4, 12),
			randomProjectStatus(),
			[]string{"Go", "PostgreSQL", "HTMX"},
			i+1,
		)
		if err != nil {
			panic(err)
		}
		projects = append(projects, project)
	}

	fmt.Println("Creating demos and votes...")
	for _, week := range weeks[:4] {
		for _, member := range members {
			if rand.Intn(3) == 0 {
				continue
			}
			demo := seedDemo(ctx, tx, week.ID, member.ID)
			for _, voter := range members {
				if voter.ID == member.ID || rand.Intn(2) == 0 {
					continue
				}
				value := models.VoteUp
				if rand.Intn(4) == 0 {
					value = models.VoteDown
				}
				_, err := tx.Exec(ctx,
					"INSERT INTO vote (demo_id, user_id, value) VALUES ($1, $2, $3)",
					demo.ID, voter.ID, value,
				)
				if err != nil {
					panic(err)
				}
			}
		}
	}

	fmt.Println("Creating badges and awards...")
	shipIt := seedBadge(ctx, tx, "Ship It", "#fbbf24")
	helper := seedBadge(ctx, tx, "Cohort Helper", "#34d399")
	seedAward(ctx, tx, shipIt.ID, nil, &projects[0].ID, admin.ID)
	seedAward(ctx, tx, helper.ID, &members[1].ID, nil, admin.ID)
	seedAward(ctx, tx, helper.ID, &members[2].ID, nil, facilitator.ID)

	fmt.Println("Creating instructor feedback...")
	for _, project := range projects[:3] {
		_, err := tx.Exec(ctx,
			"INSERT INTO project_feedback (project_id, instructor_id, content) VALUES ($1, $2, $3)",
			project.ID, facilitator.ID, lorem.Paragraph(1, 2),
		)
		if err != nil {
			panic(err)
		}
	}

	err = tx.Commit(ctx)
	if err != nil {
		panic(err)
	}

	fmt.Println("Done! Sign in through the identity provider with one of the seeded external ids.")
}

func resetDatabase(ctx context.Context) {
	fmt.Println("Resetting database...")

	// We connect to db "template1" because we have to connect to something
	// other than our own db in order to drop it. We also have to use the
	// low-level API of pgconn, because the pgx Exec always wraps the query
	// in a transaction.
	template1DSN := fmt.Sprintf("user=%s password=%s host=%s port=%d dbname=%s",
		config.Config.Postgres.User,
		config.Config.Postgres.Password,
		config.Config.Postgres.Hostname,
		config.Config.Postgres.Port,
		"template1",
	)
	lowLevelConn, err := pgconn.Connect(ctx, template1DSN)
	if err != nil {
		panic(fmt.Errorf("failed to connect to db: %w", err))
	}
	defer lowLevelConn.Close(ctx)

	result := lowLevelConn.ExecParams(ctx, fmt.Sprintf("DROP DATABASE %s", config.Config.Postgres.DbName), nil, nil, nil, nil)
	_, err = result.Close()
	pgErr, isPgError := err.(*pgconn.PgError)
	if err != nil {
		// 3D000 means the database does not exist, which is fine.
		if !(isPgError && pgErr.SQLState() == "3D000") {
			panic(fmt.Errorf("failed to drop db: %w", err))
		}
	}

	result = lowLevelConn.ExecParams(ctx, fmt.Sprintf("CREATE DATABASE %s", config.Config.Postgres.DbName), nil, nil, nil, nil)
	_, err = result.Close()
	if err != nil {
		panic(fmt.Errorf("failed to create db: %w", err))
	}
}

func seedProfile(ctx context.Context, conn db.ConnOrTx, input models.Profile) *models.Profile {
	handle := slug.Make(input.Name)
	profile, err := db.QueryOne[models.Profile](ctx, conn,
		`
		INSERT INTO profile (external_id, name, email, role, bio, slack_handle, project_idea)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING $columns
		`,
		"seed-"+handle,
		input.Name,
		fmt.Sprintf("%s@example.com", handle),
		utils.OrDefault(input.Role, models.RoleMember),
		lorem.Paragraph(0, 2),
		"@"+handle,
		lorem.Sentence(0, 14),
	)
	if err != nil {
		panic(err)
	}

	return profile
}

func seedWeek(ctx context.Context, conn db.ConnOrTx, number int, title string, level int, published bool) *models.Week {
	week, err := db.QueryOne[models.Week](ctx, conn,
		`
		INSERT INTO week (number, title, level, published)
		VALUES ($1, $2, $3, $4)
		RETURNING $columns
		`,
		number, title, level, published,
	)
	if err != nil {
		panic(err)
	}

	// Every week gets its demos section up front.
	_, err = conn.Exec(ctx,
		`
		INSERT INTO week_section (week_id, slug, title, sort_order, is_system)
		VALUES ($1, $2, 'Demos', 100, TRUE)
		`,
		week.ID, models.DemosSectionSlug,
	)
	if err != nil {
		panic(err)
	}

	return week
}

func seedSection(ctx context.Context, conn db.ConnOrTx, weekID int, title string, sortOrder int, system bool) {
	var content *string
	if !system {
		paragraphs := lorem.Paragraph(1, 3)
		content = &paragraphs
	}
	_, err := conn.Exec(ctx,
		`
		INSERT INTO week_section (week_id, slug, title, content, sort_order, is_system)
		VALUES ($1, $2, $3, $4, $5, $6)
		`,
		weekID, slug.Make(title), title, content, sortOrder, system,
	)
	if err != nil {
		panic(err)
	}
}

func seedDemo(ctx context.Context, conn db.ConnOrTx, weekID int, userID int) *models.Demo {
	demo, err := db.QueryOne[models.Demo](ctx, conn,
		`
		INSERT INTO demo (week_id, user_id, title, description, url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING $columns
		`,
		weekID, userID,
		lorem.Sentence(2, 6),
		lorem.Paragraph(0, 1),
		fmt.Sprintf("https://example.com/demos/%s", lorem.Word(4, 10)),
	)
	if err != nil {
		panic(err)
	}

	return demo
}

func seedBadge(ctx context.Context, conn db.ConnOrTx, name string, color string) *models.Badge {
	badge, err := db.QueryOne[models.Badge](ctx, conn,
		`
		INSERT INTO badge (name, description, color)
		VALUES ($1, $2, $3)
		RETURNING $columns
		`,
		name, lorem.Sentence(4, 10), color,
	)
	if err != nil {
		panic(err)
	}

	return badge
}

func seedAward(ctx context.Context, conn db.ConnOrTx, badgeID int, userID *int, projectID *int, awardedBy int) {
	_, err := conn.Exec(ctx,
		`
		INSERT INTO badge_award (badge_id, user_id, project_id, awarded_by)
		VALUES ($1, $2, $3, $4)
		`,
		badgeID, userID, projectID, awardedBy,
	)
	if err != nil {
		panic(err)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func randomProjectStatus() models.ProjectStatus {
	switch rand.Intn(3) {
	case 0:
		return models.ProjectDraft
	case 1:
		return models.ProjectInProgress
	default:
		return models.ProjectCompleted
	}
}
