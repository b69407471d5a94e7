package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arborui/arbor/pkg/config"
	"github.com/arborui/arbor/pkg/export"
	"github.com/arborui/arbor/pkg/model"
	"github.com/arborui/arbor/pkg/store"
	"github.com/arborui/arbor/pkg/ui"
	"github.com/arborui/arbor/pkg/version"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	dir := flag.String("dir", "", "Workspace directory (default: discovered by walking up from cwd)")
	snapshotFile := flag.String("snapshot", "", "Snapshot file path (overrides config)")
	latency := flag.Int("latency", 0, "Simulated child-load latency in milliseconds (overrides config)")
	themeFlag := flag.String("theme", "", "Color scheme: auto, dark or light (overrides config)")
	exportMD := flag.String("export-md", "", "Export the workspace to a Markdown file and exit")
	exportSVG := flag.String("export-svg", "", "Export the outline to an SVG file and exit")
	noWatch := flag.Bool("no-watch", false, "Disable reloading when the snapshot changes on disk")
	flag.Parse()

	if *help {
		fmt.Println("Usage: arbor [options]")
		fmt.Println("\nAn outline and kanban workspace for the terminal.")
		flag.PrintDefaults()
		os.Exit(0)
	}
	if *versionFlag {
		fmt.Printf("arbor %s\n", version.Version)
		os.Exit(0)
	}

	cfg, err := config.Discover(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if *snapshotFile != "" {
		cfg.SnapshotFile = *snapshotFile
	}
	if *latency > 0 {
		cfg.LoadLatencyMS = *latency
	}
	if *themeFlag != "" {
		cfg.Theme = *themeFlag
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	snap, found, err := store.LoadSnapshot(cfg.SnapshotPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading snapshot: %v\n", err)
		os.Exit(1)
	}

	if *exportMD != "" || *exportSVG != "" {
		if !found {
			fmt.Fprintln(os.Stderr, "Error: no snapshot to export; run arbor once to create a workspace")
			os.Exit(1)
		}
		runExports(snap, *exportMD, *exportSVG)
		os.Exit(0)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: arbor is interactive; run it in a terminal or use --export-md / --export-svg")
		os.Exit(1)
	}

	if !found {
		snap, err = firstRun(&cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	theme := ui.DefaultTheme(themedRenderer(cfg.Theme))

	opts := []ui.AppOption{
		ui.WithSaver(func(s model.Snapshot) error {
			return store.SaveSnapshot(cfg.SnapshotPath(), s)
		}),
	}

	journal, err := store.OpenJournal(cfg.JournalPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: journaling disabled: %v\n", err)
	} else {
		defer journal.Close()
		opts = append(opts, ui.WithRecorder(journal))
	}

	var watcher *store.Watcher
	if cfg.Watch && !*noWatch {
		watcher, err = store.NewWatcher(cfg.SnapshotPath())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: snapshot watching disabled: %v\n", err)
		} else {
			watcher.Start(context.Background())
			defer watcher.Stop()
			opts = append(opts, ui.WithReload(watcher.Snapshots()))
		}
	}

	app := ui.NewApp(snap, theme, opts...)
	if d := cfg.LoadLatency(); d > 0 {
		app.Tree().SetLoadDelay(d)
	}
	viewState := store.LoadViewState(cfg.ViewStatePath())
	app.Tree().RestoreExpanded(viewState.Expanded)

	p := tea.NewProgram(app, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running arbor: %v\n", err)
		os.Exit(1)
	}

	// Persist on clean exit so quitting never loses committed edits.
	if a, ok := final.(*ui.App); ok {
		if a.Dirty() {
			if err := store.SaveSnapshot(cfg.SnapshotPath(), a.Snapshot()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save snapshot: %v\n", err)
			}
		}
		state := store.DefaultViewState()
		state.Expanded = a.Tree().ExpandedIDs()
		store.SaveViewState(cfg.ViewStatePath(), state)
	}
}

// firstRun asks for a workspace name and seeds the initial snapshot.
func firstRun(cfg *config.Config) (model.Snapshot, error) {
	name := "My Workspace"
	create := true

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Workspace name").
				Value(&name),
			huh.NewConfirm().
				Title(fmt.Sprintf("Create a new workspace in %s?", cfg.DataDir())).
				Value(&create),
		),
	)
	if err := form.Run(); err != nil {
		return model.Snapshot{}, err
	}
	if !create {
		return model.Snapshot{}, fmt.Errorf("aborted")
	}

	snap := model.Snapshot{
		Tree: []model.TreeNode{
			{ID: "root-1", Label: name, Children: []model.TreeNode{
				{ID: "root-1-1", Label: "Getting started", HasChildren: true},
			}},
		},
		Columns: model.DefaultColumns(),
	}

	if err := cfg.EnsureDataDir(); err != nil {
		return model.Snapshot{}, fmt.Errorf("creating %s: %w", cfg.DataDir(), err)
	}
	if err := store.SaveSnapshot(cfg.SnapshotPath(), snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("seeding snapshot: %w", err)
	}
	return snap, nil
}

func runExports(snap model.Snapshot, mdPath, svgPath string) {
	if mdPath != "" {
		report := export.GenerateMarkdown(snap, "Arbor Workspace", time.Now())
		if err := os.WriteFile(mdPath, []byte(report), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", mdPath, err)
			os.Exit(1)
		}
		fmt.Printf("Exported markdown report to %s\n", mdPath)
	}
	if svgPath != "" {
		f, err := os.Create(svgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", svgPath, err)
			os.Exit(1)
		}
		export.GenerateSVG(f, snap.Tree)
		if err := f.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", svgPath, err)
			os.Exit(1)
		}
		fmt.Printf("Exported outline diagram to %s\n", svgPath)
	}
}

// themedRenderer returns the lipgloss renderer with the background
// assumption forced when the config names a scheme explicitly.
func themedRenderer(theme string) *lipgloss.Renderer {
	r := lipgloss.DefaultRenderer()
	switch theme {
	case "dark":
		r.SetHasDarkBackground(true)
	case "light":
		r.SetHasDarkBackground(false)
	}
	return r
}
