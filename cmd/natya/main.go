package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ayusman/natya/internal/app"
	"github.com/ayusman/natya/internal/capture"
	"github.com/ayusman/natya/internal/compare"
	"github.com/ayusman/natya/internal/config"
	"github.com/ayusman/natya/internal/detector"
	"github.com/ayusman/natya/internal/server"
	"github.com/ayusman/natya/internal/store"
	"github.com/ayusman/natya/internal/timeline"
)

const usage = `Natya - Dance Practice and Scoring

Usage:
  natya extract --video <path> --name <name> [--hz 15] [--alpha 0.7]
  natya compare --ref <video> --usr <video> [--samples 200]
  natya serve
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(2)
	}

	cfg := config.Load()

	var err error
	switch os.Args[1] {
	case "extract":
		err = runExtract(cfg, os.Args[2:])
	case "compare":
		err = runCompare(cfg, os.Args[2:])
	case "serve":
		err = runServe(cfg)
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		fmt.Print(usage)
		os.Exit(2)
	}

	if err != nil {
		log.Fatalf("%s failed: %v", os.Args[1], err)
	}
}

// openStore opens the catalog database at the configured path.
func openStore(cfg *config.Config) (*store.Store, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	return store.New(cfg.DBPath)
}

// runExtract processes a reference video into a stored timeline.
func runExtract(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	videoPath := fs.String("video", "", "path to the reference video file")
	name := fs.String("name", "", "display name for the video (defaults to the file name)")
	hz := fs.Float64("hz", cfg.SampleHz, "sampling frequency in Hz")
	alpha := fs.Float64("alpha", cfg.Alpha, "EMA smoothing factor in (0,1]")
	fs.Parse(args)

	if *videoPath == "" {
		return errors.New("--video is required")
	}
	if *name == "" {
		base := filepath.Base(*videoPath)
		*name = base[:len(base)-len(filepath.Ext(base))]
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	src, err := capture.OpenVideoFile(*videoPath)
	if err != nil {
		return fmt.Errorf("open video: %w", err)
	}
	defer src.Close()

	det, err := detector.NewMediaPipeDetector(detector.DefaultConfig())
	if err != nil {
		return fmt.Errorf("pose detector unavailable: %w", err)
	}
	defer det.Close()

	id := uuid.New().String()
	outDir := filepath.Join(cfg.DataDir, id)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	framesPath := filepath.Join(outDir, "frames.jsonl")
	anglesPath := filepath.Join(outDir, "angles.csv")

	ext := app.NewExtractor(det, app.ExtractConfig{SampleHz: *hz, Alpha: *alpha})

	log.Printf("Extracting %s at %.1f Hz (alpha=%.2f)", *videoPath, *hz, *alpha)
	tl, err := ext.ExtractToFiles(src, framesPath, anglesPath)
	if err != nil {
		return err
	}

	duration := 0.0
	if frames := tl.Frames(); len(frames) > 0 {
		duration = frames[len(frames)-1].T
	}

	video := &store.Video{
		ID:         id,
		Name:       *name,
		VideoPath:  *videoPath,
		FramesPath: framesPath,
		AnglesPath: anglesPath,
		CoordSpace: tl.Space(),
		SampleHz:   *hz,
		Alpha:      *alpha,
		Duration:   duration,
	}
	if err := st.Videos().Create(video); err != nil {
		return fmt.Errorf("save video: %w", err)
	}

	ok := 0
	for _, f := range tl.Frames() {
		if f.OK {
			ok++
		}
	}
	fmt.Printf("Extracted %d frames (%d with pose) over %.1fs\n", tl.Len(), ok, duration)
	fmt.Printf("Video ID: %s\n", id)
	return nil
}

// resolveVideo looks a video up by ID, then by name.
func resolveVideo(st *store.Store, key string) (*store.Video, error) {
	v, err := st.Videos().GetByID(key)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	return st.Videos().GetByName(key)
}

// runCompare scores one stored timeline against another and prints the
// report.
func runCompare(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	refKey := fs.String("ref", "", "reference video ID or name")
	usrKey := fs.String("usr", "", "user video ID or name")
	samples := fs.Int("samples", 200, "number of comparison samples")
	fs.Parse(args)

	if *refKey == "" || *usrKey == "" {
		return errors.New("--ref and --usr are required")
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	refVideo, err := resolveVideo(st, *refKey)
	if err != nil {
		return fmt.Errorf("resolve reference video %q: %w", *refKey, err)
	}
	usrVideo, err := resolveVideo(st, *usrKey)
	if err != nil {
		return fmt.Errorf("resolve user video %q: %w", *usrKey, err)
	}

	ref, err := timeline.Load(refVideo.CoordSpace, refVideo.FramesPath, refVideo.AnglesPath)
	if err != nil {
		return fmt.Errorf("load reference timeline: %w", err)
	}
	usr, err := timeline.Load(usrVideo.CoordSpace, usrVideo.FramesPath, usrVideo.AnglesPath)
	if err != nil {
		return fmt.Errorf("load user timeline: %w", err)
	}

	report, err := compare.Compare(ref, usr, *samples)
	if err != nil {
		return err
	}

	fmt.Printf("Compared %q against %q over %d samples\n",
		usrVideo.Name, refVideo.Name, len(report.Samples))
	fmt.Printf("  mean similarity: %.4f\n", report.Mean)
	fmt.Printf("  min similarity:  %.4f\n", report.Min)
	fmt.Printf("  max similarity:  %.4f\n", report.Max)
	return nil
}

// runServe starts the live pipeline and the HTTP server.
func runServe(cfg *config.Config) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	a := app.New(app.Config{
		Store:           st,
		CameraID:        cfg.CameraID,
		ScoreIntervalMs: cfg.ScoreIntervalMs,
	})

	if err := a.LoadReferences(); err != nil {
		log.Printf("Failed to load references: %v", err)
	}

	srv := server.New(server.Config{
		StaticDir:  findWebDir(),
		Store:      st,
		Scorer:     a.Scorer(),
		Camera:     a.Camera(),
		IsEnabled:  a.IsEnabled,
		SetEnabled: a.SetEnabled,
	})
	a.SetScoreCallback(func(e app.ScoreEvent) {
		srv.Feed().Publish(e)
	})

	if err := a.Start(); err != nil {
		log.Printf("Live pipeline not started: %v", err)
	} else {
		defer a.Stop()
	}

	log.Printf("Starting server on %s", cfg.Addr)
	return srv.ListenAndServe(cfg.Addr)
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.natya/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".natya", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
