package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"

	dbfs "github.com/garnizeh/badgeclient/db"
	"github.com/garnizeh/badgeclient/internal/config"
	"github.com/garnizeh/badgeclient/internal/controller"
	"github.com/garnizeh/badgeclient/internal/db"
	"github.com/garnizeh/badgeclient/internal/repository/sqlite"
	"github.com/garnizeh/badgeclient/internal/session"
	"github.com/garnizeh/badgeclient/internal/share"
	"github.com/garnizeh/badgeclient/internal/view"
	"github.com/garnizeh/badgeclient/pkg/badgeapi"
)

const usage = `usage: badge-client [flags] <action> [arg]

actions:
  dashboard         welcome line for the stored session
  profile           profile header, earned badges and certifications
  certs             certification progress
  badges            badge catalog
  badge <id>        one catalog badge
  share <n>         share text for the n-th earned badge (1-based)
  settings          current settings, or save them with -full-name / -bio
  logout            forget the stored session
`

func main() {
	var (
		configPath = flag.String("config", "", "Path to config YAML file")
		username   = flag.String("username", "", "Log in with this username before running the action")
		password   = flag.String("password", "", "Password for -username")
		fullName   = flag.String("full-name", "", "New full name for the settings action")
		bio        = flag.String("bio", "", "New bio for the settings action")
	)
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage); flag.PrintDefaults() }
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	badgeapi.SetLogger(logger)

	ctx := context.Background()

	database, err := db.New(ctx, cfg.DatabasePath, logger)
	if err != nil {
		log.Fatalf("Failed to open session DB: %v", err)
	}
	defer database.Close()
	if err := db.Migrate(ctx, database, dbfs.Migrations); err != nil {
		log.Fatalf("Failed to migrate session DB: %v", err)
	}

	store, err := session.Open(ctx, sqlite.New(database, logger), logger)
	if err != nil {
		log.Fatalf("Failed to open session: %v", err)
	}

	api, err := badgeapi.NewDefaultClient(cfg.API, badgeapi.WithTokenSource(store.AuthToken))
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer api.Close()

	if *username != "" {
		auth := controller.NewAuthController(api, store, logger)
		st := auth.Login(ctx, *username, *password)
		auth.Close()
		printNotice(st.Notice)
		if st.Route != view.RouteDashboard {
			os.Exit(1)
		}
	}

	if err := run(ctx, api, store, logger, flag.Args(), *fullName, *bio); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, api controller.API, store *session.Store, logger *slog.Logger, args []string, fullName, bio string) error {
	switch args[0] {
	case "dashboard":
		c := controller.NewDashboardController(api, store, logger)
		defer c.Close()
		st := c.Load(ctx)
		if st.Welcome != "" {
			fmt.Println(st.Welcome)
		}
		printNotice(st.Notice)

	case "profile":
		c := controller.NewProfileController(api, store, logger)
		defer c.Close()
		printProfile(c.Load(ctx))

	case "certs":
		c := controller.NewCertProgressController(api, store, logger)
		defer c.Close()
		st := c.Load(ctx)
		printNotice(st.Notice)
		printCerts(st.Certs)

	case "badges":
		c := controller.NewCatalogController(api, logger)
		defer c.Close()
		st := c.LoadList(ctx)
		printNotice(st.Notice)
		for _, b := range st.Badges {
			fmt.Printf("[%d] %s\n    %s\n", b.BadgeID, b.Name, b.Description)
		}

	case "badge":
		id, err := argInt(args)
		if err != nil {
			return err
		}
		c := controller.NewCatalogController(api, logger)
		defer c.Close()
		st := c.LoadDetail(ctx, id)
		printNotice(st.Notice)
		if st.Status == view.Success {
			fmt.Printf("%s\n%s\nCriteria: %s\n", st.Badge.Name, st.Badge.Description, st.Badge.Criteria)
		}

	case "share":
		n, err := argInt(args)
		if err != nil {
			return err
		}
		c := controller.NewProfileController(api, store, logger)
		defer c.Close()
		st := c.Load(ctx)
		printNotice(st.Notice)
		if n < 1 || int(n) > len(st.Badges) {
			return fmt.Errorf("no earned badge #%d", n)
		}
		req := st.Badges[n-1].Share
		text, err := share.Compose(req.Name, req.Details, req.URL)
		if err != nil {
			return err
		}
		fmt.Printf("Subject: %s\n\n%s\n", share.Subject(req.Name), text)

	case "settings":
		c := controller.NewSettingsController(api, store, logger)
		defer c.Close()
		if fullName == "" && bio == "" {
			form := c.Prefill(ctx)
			printNotice(form.Notice)
			fmt.Printf("Full name: %s\nBio: %s\n", form.FullName, form.Bio)
			return nil
		}
		printNotice(c.Submit(ctx, fullName, bio).Notice)

	case "logout":
		c := controller.NewAuthController(api, store, logger)
		defer c.Close()
		printNotice(c.Logout(ctx).Notice)

	default:
		return fmt.Errorf("unknown action %q", args[0])
	}
	return nil
}

func argInt(args []string) (int64, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("%s needs an argument", args[0])
	}
	n, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", args[1])
	}
	return n, nil
}

func printNotice(n view.Notice) {
	if n.Empty() {
		return
	}
	if n.Error {
		fmt.Fprintln(os.Stderr, n.Message)
		return
	}
	fmt.Println(n.Message)
}

func printProfile(st controller.ProfileState) {
	printNotice(st.Notice)
	if st.HasHeader {
		fmt.Printf("%s (%s)\n%s\n", st.Header.DisplayName, st.Header.Handle, st.Header.Bio)
	}
	if st.Status != view.Success && st.Status != view.Empty {
		return
	}

	fmt.Println("\nBadges")
	if st.BadgeList.ShowEmptyIndicator() {
		fmt.Println("  No badges earned yet.")
	}
	for i, b := range st.Badges {
		fmt.Printf("  %d. %s\n", i+1, b.Name)
		if b.ShowEarned {
			fmt.Printf("     %s\n", b.Earned)
		}
	}

	fmt.Println("\nCertifications")
	if st.CertList.ShowEmptyIndicator() {
		fmt.Println("  No certifications in progress.")
	}
	printCerts(st.Certs)
}

func printCerts(certs []view.CertRow) {
	for _, c := range certs {
		fmt.Printf("  %s\n     %s\n", c.Name, c.Status)
		if c.ShowCompletion {
			fmt.Printf("     %s\n", c.Completed)
		}
	}
}
