package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hanae/stayfocus/internal/app"
	"github.com/hanae/stayfocus/internal/db"
	"github.com/hanae/stayfocus/internal/model"
	"github.com/hanae/stayfocus/internal/reconcile"
	"github.com/hanae/stayfocus/internal/ui"
	"github.com/hanae/stayfocus/internal/ui/theme"
)

var (
	version = "0.1.0"
)

func main() {
	// Subcommand handling
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "add":
			handleAdd(os.Args[2:])
			return
		case "version":
			fmt.Printf("stayfocus v%s\n", version)
			return
		case "help", "-h", "--help":
			printHelp()
			return
		}
	}

	teamFlag := flag.String("team", model.DefaultTeamID, "Team to open")
	dataDirFlag := flag.String("data-dir", "", "Data directory (default ~/.local/share/stayfocus)")
	themeFlag := flag.String("theme", "", "Theme name (sakura, nord)")
	sweepFlag := flag.Duration("sweep", 5*time.Minute, "Background reconcile interval (0 disables)")
	flag.Parse()

	if err := runTUI(*teamFlag, *dataDirFlag, *themeFlag, *sweepFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	help := `stayfocus - A team task tracker for the terminal

Usage:
  stayfocus                 Start the TUI
  stayfocus add <task>      Quick add a task
  stayfocus version         Show version
  stayfocus help            Show this help

Quick Add Syntax:
  stayfocus add "Buy groceries"
  stayfocus add "Review PR @tomorrow due:2026-09-04 at:14:00 !star"
  stayfocus add --team work "Prep standup"

  add accepts --team and --data-dir before the task text.

  Bucket:    @today @tomorrow @this_week @next_week @later
  Due date:  due:today due:friday due:2026-01-15
  Due time:  at:14:00
  Flags:     !star (important)  !pin (pinned)

TUI Options:
  --team <id>       Team to open (default "default")
  --data-dir <dir>  Data directory
  --theme <name>    Theme (sakura, nord)
  --sweep <dur>     Background reconcile interval (default 5m)

Keybindings:
  Navigation:   h/l           Switch bucket
                ↑/↓ or j/k    Move cursor
                g/G           Go to top/bottom

  Actions:      a             Add task
                enter         Edit task
                tab           Toggle done
                u             Undo toggle
                J/K           Reorder within bucket
                H/L           Move between buckets
                d             Delete (with confirm)
                i / p         Important / pin

  Views:        1-5           Board, projects, report, archive, members
                ?             Help
                q             Quit`

	fmt.Println(help)
}

func handleAdd(args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	teamFlag := fs.String("team", model.DefaultTeamID, "Team to add into")
	dataDirFlag := fs.String("data-dir", "", "Data directory (default ~/.local/share/stayfocus)")
	fs.Parse(args)
	args = fs.Args()

	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: stayfocus add [--team <id>] [--data-dir <dir>] <task>")
		fmt.Fprintln(os.Stderr, "Example: stayfocus add \"Review PR @tomorrow due:friday !star\"")
		os.Exit(1)
	}

	dbPath := db.DefaultDBPath()
	if *dataDirFlag != "" {
		dbPath = filepath.Join(*dataDirFlag, "stayfocus.db")
	}

	task, err := quickAdd(dbPath, *teamFlag, strings.Join(args, " "))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Created: %s (%s)\n", task.Name, task.TimeFrame.Label())
	if task.DueDate != nil {
		due := formatDueDate(*task.DueDate)
		if task.DueTime != "" {
			due += " " + task.DueTime
		}
		fmt.Printf("Due: %s\n", due)
	}
}

// quickAdd parses the task text and inserts it into the given team,
// creating the team on first use. No instance lock is taken; a single
// insert is safe alongside a running TUI.
func quickAdd(dbPath, teamID, text string) (model.Task, error) {
	task := parseQuickAdd(text)
	if task.Name == "" {
		return task, fmt.Errorf("task needs a name")
	}
	task.TeamID = teamID

	database, err := db.Open(dbPath)
	if err != nil {
		return task, fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	if _, err := database.GetTeam(teamID); err != nil {
		return task, err
	}
	if err := database.CreateTask(&task); err != nil {
		return task, err
	}
	return task, nil
}

// parseQuickAdd reads bucket, due date/time and flag tokens out of the
// task text, leaving the rest as the name.
func parseQuickAdd(text string) model.Task {
	task := model.Task{
		TimeFrame: model.FrameToday,
	}

	words := strings.Fields(text)
	var nameParts []string

	for _, word := range words {
		switch {
		// Bucket (@today, @tomorrow, ...)
		case strings.HasPrefix(word, "@"):
			if frame, err := model.ParseTimeFrame(strings.ToLower(strings.TrimPrefix(word, "@"))); err == nil {
				task.TimeFrame = frame
			} else {
				nameParts = append(nameParts, word)
			}

		case strings.HasPrefix(strings.ToLower(word), "due:"):
			dateStr := strings.TrimPrefix(strings.ToLower(word), "due:")
			if parsed := parseNaturalDate(dateStr); parsed != nil {
				task.DueDate = parsed
			} else {
				nameParts = append(nameParts, word)
			}

		case strings.HasPrefix(strings.ToLower(word), "at:"):
			timeStr := strings.TrimPrefix(strings.ToLower(word), "at:")
			if _, err := time.Parse("15:04", timeStr); err == nil {
				task.DueTime = timeStr
			} else {
				nameParts = append(nameParts, word)
			}

		case strings.EqualFold(word, "!star"):
			task.Important = true
		case strings.EqualFold(word, "!pin"):
			task.Pinned = true

		default:
			nameParts = append(nameParts, word)
		}
	}

	task.Name = strings.Join(nameParts, " ")
	return task
}

func parseNaturalDate(s string) *time.Time {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch strings.ToLower(s) {
	case "today":
		return &today
	case "tomorrow", "tom":
		t := today.AddDate(0, 0, 1)
		return &t
	case "monday", "mon":
		return nextWeekday(time.Monday)
	case "tuesday", "tue":
		return nextWeekday(time.Tuesday)
	case "wednesday", "wed":
		return nextWeekday(time.Wednesday)
	case "thursday", "thu":
		return nextWeekday(time.Thursday)
	case "friday", "fri":
		return nextWeekday(time.Friday)
	case "saturday", "sat":
		return nextWeekday(time.Saturday)
	case "sunday", "sun":
		return nextWeekday(time.Sunday)
	}

	formats := []string{
		"2006-01-02",
		"01/02/2006",
		"Jan 2",
		"Jan 2, 2006",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			if t.Year() == 0 {
				t = time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			}
			return &t
		}
	}

	return nil
}

func nextWeekday(day time.Weekday) *time.Time {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	daysUntil := int(day - now.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}

	t := today.AddDate(0, 0, daysUntil)
	return &t
}

func formatDueDate(t time.Time) string {
	now := time.Now()

	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return "today"
	}

	tomorrow := now.AddDate(0, 0, 1)
	if t.Year() == tomorrow.Year() && t.YearDay() == tomorrow.YearDay() {
		return "tomorrow"
	}

	if t.Year() == now.Year() {
		return t.Format("Mon, Jan 2")
	}

	return t.Format("Jan 2, 2006")
}

func runTUI(teamID, dataDir, themeName string, sweepInterval time.Duration) error {
	cfg := app.DefaultConfig()
	cfg.TeamID = teamID
	if dataDir != "" {
		cfg.DataDir = dataDir
		cfg.DBPath = dataDir + "/stayfocus.db"
	}

	application, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	if themeName != "" {
		if t, ok := theme.ByName(themeName); ok {
			theme.SetTheme(t)
		} else {
			return fmt.Errorf("unknown theme %q", themeName)
		}
	}

	rootModel := ui.NewRootModel(application)

	p := tea.NewProgram(
		rootModel,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Background sweep pings the UI after every pass.
	if sweepInterval > 0 {
		runner := reconcile.NewRunner(application.DB, application.Notifier, application.TeamID, func() {
			p.Send(ui.RefreshMsg{})
		})
		if err := runner.Start(sweepInterval); err != nil {
			return err
		}
		defer runner.Stop()
	}

	_, err = p.Run()
	return err
}
