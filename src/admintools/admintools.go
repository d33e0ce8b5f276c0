package admintools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"git.vibecoding.academy/vca/vca/src/db"
	"git.vibecoding.academy/vca/vca/src/models"
	"git.vibecoding.academy/vca/vca/src/website"
	"github.com/spf13/cobra"
)

func init() {
	adminCommand := &cobra.Command{
		Use:   "admin",
		Short: "Miscellaneous admin commands",
	}
	website.WebsiteCommand.AddCommand(adminCommand)

	// The web UI refuses to change your own role, so the first admin of a
	// fresh cohort has to be promoted from here.
	setRoleCommand := &cobra.Command{
		Use:   "setrole [email] [admin/facilitator/member]",
		Short: "Set a member's role",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 2 {
				fmt.Printf("You must provide an email and a role.\n\n")
				cmd.Usage()
				os.Exit(1)
			}

			email := args[0]
			roleStr := args[1]
			var role models.ProfileRole
			switch roleStr {
			case "admin":
				role = models.RoleAdmin
			case "facilitator":
				role = models.RoleFacilitator
			case "member":
				role = models.RoleMember
			default:
				fmt.Printf("You must provide a valid role: admin, facilitator, or member.\n\n")
				cmd.Usage()
				os.Exit(1)
			}

			ctx := context.Background()
			conn := db.NewConn()
			defer conn.Close(ctx)

			res, err := conn.Exec(ctx,
				"UPDATE profile SET role = $1, updated_at = CURRENT_TIMESTAMP WHERE LOWER(email) = LOWER($2)",
				role, email,
			)
			if err != nil {
				panic(err)
			}
			if res.RowsAffected() == 0 {
				fmt.Printf("No profile found for '%s'.\n\n", email)
				os.Exit(1)
			}

			fmt.Printf("%s is now a %s\n\n", email, roleStr)
		},
	}
	adminCommand.AddCommand(setRoleCommand)

	listProfilesCommand := &cobra.Command{
		Use:   "listprofiles",
		Short: "List all cohort profiles",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			conn := db.NewConn()
			defer conn.Close(ctx)

			profiles, err := db.Query[models.Profile](ctx, conn,
				"SELECT $columns FROM profile ORDER BY id",
			)
			if err != nil {
				panic(err)
			}

			for _, profile := range profiles {
				fmt.Printf("%4d  %-12s  %-30s  %s\n", profile.ID, profile.Role, profile.Email, profile.Name)
			}
		},
	}
	adminCommand.AddCommand(listProfilesCommand)

	logOutUserCommand := &cobra.Command{
		Use:   "logoutuser [email]",
		Short: "Delete all of a member's sessions, forcing them to log in again",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 1 {
				fmt.Printf("You must provide an email.\n\n")
				cmd.Usage()
				os.Exit(1)
			}

			email := args[0]

			ctx := context.Background()
			conn := db.NewConn()
			defer conn.Close(ctx)

			userID, err := db.QueryOneScalar[int](ctx, conn,
				"SELECT id FROM profile WHERE LOWER(email) = LOWER($1)",
				email,
			)
			if err != nil {
				if errors.Is(err, db.NotFound) {
					fmt.Printf("No profile found for '%s'.\n\n", email)
					os.Exit(1)
				}
				panic(err)
			}

			res, err := conn.Exec(ctx, "DELETE FROM session WHERE user_id = $1", userID)
			if err != nil {
				panic(err)
			}

			fmt.Printf("Deleted %d sessions for %s\n\n", res.RowsAffected(), email)
		},
	}
	adminCommand.AddCommand(logOutUserCommand)

	unpublishWeekCommand := &cobra.Command{
		Use:   "unpublishweek [number]",
		Short: "Pull a week back out of the published curriculum",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 1 {
				fmt.Printf("You must provide a week number.\n\n")
				cmd.Usage()
				os.Exit(1)
			}

			number, err := strconv.Atoi(args[0])
			if err != nil {
				fmt.Printf("'%s' is not a week number.\n\n", args[0])
				os.Exit(1)
			}

			ctx := context.Background()
			conn := db.NewConn()
			defer conn.Close(ctx)

			res, err := conn.Exec(ctx,
				"UPDATE week SET published = FALSE, updated_at = CURRENT_TIMESTAMP WHERE number = $1",
				number,
			)
			if err != nil {
				panic(err)
			}
			if res.RowsAffected() == 0 {
				fmt.Printf("No week with that number.\n\n")
				os.Exit(1)
			}

			fmt.Printf("Week %d is unpublished.\n\n", number)
		},
	}
	adminCommand.AddCommand(unpublishWeekCommand)
}
