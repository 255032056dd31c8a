package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prasetyadi/absensi/internal/api"
	"github.com/prasetyadi/absensi/internal/appstate"
	"github.com/prasetyadi/absensi/internal/auth"
	"github.com/prasetyadi/absensi/internal/camera/ipcam"
	"github.com/prasetyadi/absensi/internal/checkin"
	"github.com/prasetyadi/absensi/internal/config"
	"github.com/prasetyadi/absensi/internal/geo"
	"github.com/prasetyadi/absensi/internal/location"
	"github.com/prasetyadi/absensi/internal/location/gpsd"
	"github.com/prasetyadi/absensi/internal/location/static"
	"github.com/prasetyadi/absensi/internal/logging"
	"github.com/prasetyadi/absensi/internal/photostore"
	"github.com/prasetyadi/absensi/internal/photostore/firebase"
	"github.com/prasetyadi/absensi/internal/photostore/local"
)

func main() {
	scheduleID := flag.Int64("schedule", 0, "schedule id to check in/out")
	flag.Parse()

	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	if *scheduleID == 0 {
		fmt.Fprintln(os.Stderr, "usage: absensi -schedule <id>")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tokens := auth.NewTokenStore(cfg.TokenPath)
	if expired, err := tokens.Expired(time.Now()); err == nil && expired {
		logger.Error("stored auth token is expired, please log in again")
		os.Exit(1)
	}

	client := api.NewClient(cfg.BaseAPIURL, tokens)

	// Revalidate instead of trusting stale navigation state: fetch the
	// schedule and its store fresh before allowing submission.
	schedule, err := client.GetSchedule(ctx, *scheduleID)
	if err != nil {
		logger.Error("failed to fetch schedule", "schedule_id", *scheduleID, "error", err)
		os.Exit(1)
	}
	store, err := client.GetStore(ctx, schedule.StoreID)
	if err != nil {
		logger.Error("failed to fetch store", "store_id", schedule.StoreID, "error", err)
		os.Exit(1)
	}
	target, err := geo.ParsePoint(store.Latitude, store.Longitude)
	if err != nil {
		logger.Error("store has an invalid coordinate", "store_id", store.ID, "error", err)
		os.Exit(1)
	}

	ui := appstate.New()
	ui.Subscribe(func(st appstate.State) {
		if st.Alert != nil {
			fmt.Printf("[%s] %s\n", strings.ToUpper(string(st.Alert.Kind)), st.Alert.Message)
		}
	})

	locProvider, err := newLocationProvider(cfg)
	if err != nil {
		logger.Error("failed to initialize location provider", "error", err)
		os.Exit(1)
	}

	evaluator := location.NewEvaluator(locProvider, location.EvaluatorConfig{
		Target:      target,
		MaxDistance: cfg.MaxDistanceM,
		Interval:    cfg.PollInterval,
	}, ui, logger)
	go evaluator.Run(ctx)

	photoStg, err := newPhotoStore(cfg)
	if err != nil {
		logger.Error("failed to initialize photo store", "error", err)
		os.Exit(1)
	}

	stdin := bufio.NewReader(os.Stdin)
	flow := checkin.NewFlow(checkin.Config{
		Schedule:    schedule,
		Store:       store,
		Camera:      ipcam.NewProvider(cfg.CameraSnapshotURL),
		Photos:      photoStg,
		Backend:     client,
		Geofence:    evaluator,
		Confirm:     &stdinConfirmer{in: stdin},
		UI:          ui,
		Logger:      logger,
		PhotoFolder: cfg.PhotoFolder,
		JPEGQuality: cfg.JPEGQuality,
	})
	defer flow.Close()

	fmt.Printf("Schedule %q (%s) at %s, %s\n",
		schedule.Name, schedule.Status, store.Name, store.Address)

	waitForRange(ctx, evaluator)
	if ctx.Err() != nil {
		return
	}

	fmt.Print("Press Enter to open the camera and capture the attendance photo... ")
	if _, err := stdin.ReadString('\n'); err != nil {
		return
	}

	if err := flow.OpenCamera(ctx); err != nil {
		os.Exit(1)
	}
	if err := flow.Capture(ctx); err != nil {
		flow.Cancel()
		os.Exit(1)
	}

	result, err := flow.Submit(ctx)
	if err != nil {
		os.Exit(1)
	}

	fmt.Printf("%s: %s at %s\n", store.Name, result.Action, result.SubmittedAt.Format(api.TimeFormat))
}

func newLocationProvider(cfg *config.Config) (location.Provider, error) {
	switch cfg.LocationBackend {
	case "static":
		point, err := geo.ParsePoint(cfg.StaticLatitude, cfg.StaticLongitude)
		if err != nil {
			return nil, fmt.Errorf("invalid STATIC_LATITUDE/STATIC_LONGITUDE: %w", err)
		}
		return static.NewProvider(point), nil
	default:
		return gpsd.NewProvider(cfg.GpsdAddr), nil
	}
}

func newPhotoStore(cfg *config.Config) (photostore.PhotoStore, error) {
	switch cfg.PhotoBackend {
	case "local":
		return local.NewLocalPhotoStore(cfg.PhotoLocalPath)
	default:
		if cfg.FirebaseBucket == "" {
			return nil, fmt.Errorf("FIREBASE_BUCKET is required when PHOTO_BACKEND=firebase")
		}
		return firebase.NewFirebaseStore(cfg.FirebaseBucket), nil
	}
}

// waitForRange blocks until the evaluator reports the device within range,
// printing the distance as fixes come in.
func waitForRange(ctx context.Context, evaluator *location.Evaluator) {
	for {
		if d, ok := evaluator.Distance(); ok {
			if evaluator.WithinRange() {
				fmt.Printf("Within range of the store (%.0f m).\n", d)
				return
			}
			fmt.Printf("Out of range: %.0f m from the store (max %.0f m). Waiting...\n",
				d, evaluator.MaxDistance())
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(2 * time.Second):
		}
	}
}

// stdinConfirmer implements the late-arrival confirmation on the terminal.
type stdinConfirmer struct {
	in *bufio.Reader
}

func (c *stdinConfirmer) ConfirmLate(_ context.Context, lateness time.Duration) (bool, error) {
	h := int(lateness.Hours())
	m := int(lateness.Minutes()) % 60
	fmt.Printf("You are %dh %dm late for this schedule. Check in anyway? [y/N] ", h, m)

	line, err := c.in.ReadString('\n')
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
