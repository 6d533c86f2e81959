package flashwriter

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Prompts printed by the bootloader stub and the loaded flash writer
const (
	promptBootstrap   = "please send !"
	promptReady       = ">"
	promptSelectArea  = "Select area(0-2)>"
	promptStartSector = "Please Input Start Address in sector :"
	promptFileSize    = "Please Input File size(byte) : "
	promptSendBinary  = "please send binary file!"
	promptCSDIndex    = "Please Input EXT_CSD Index(H'00 - H'1FF) :"
	promptCSDValue    = "Please Input Value(H'00 - H'FF) :"
)

const (
	cmdSwitchBaud = "SUP"
	cmdWriteBlock = "EM_WB"
	cmdSetCSD     = "EM_SECSD"

	// eMMC boot partition 1
	writeArea = "1"

	// EXT_CSD PARTITION_CONFIG: boot from partition 1
	csdPartitionConfig = "b3"
	csdBootPartition1  = "08"
)

// FlashedImage records one image written to storage.
type FlashedImage struct {
	Role   Role
	Path   string
	Sector uint32
	Size   int64
}

// Result summarizes a successful flash run.
type Result struct {
	RunID       string
	Flashed     []FlashedImage
	BootEnabled bool

	// Elapsed is measured from the bootloader's first prompt, so time spent
	// waiting for the operator to reset the board is excluded
	Elapsed time.Duration
}

// Seconds returns Elapsed in whole seconds, truncated.
func (r *Result) Seconds() int {
	return int(r.Elapsed / time.Second)
}

// Flasher drives the bootloader recovery protocol on one serial device.
type Flasher struct {
	device string
	open   Opener
	config Config
}

// New creates a Flasher for device. Options are validated here, before any
// I/O happens.
//
// Example:
//
//	opener, _ := flashwriter.SerialOpener(flashwriter.DriverTermios)
//	f, err := flashwriter.New("/dev/ttyUSB0", opener, flashwriter.WithLogger(logger))
//	result, err := f.Flash(ctx, flashwriter.Plan{
//	    Loader: "flashwriter.mot",
//	    Images: []flashwriter.Image{{Role: flashwriter.RoleFIP, Path: "fip.bin"}},
//	})
func New(device string, open Opener, opts ...Option) (*Flasher, error) {
	if device == "" {
		return nil, &ConfigError{Field: "device", Reason: "path is required"}
	}
	if open == nil {
		return nil, &ConfigError{Field: "opener", Reason: "must not be nil"}
	}

	config := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return nil, err
		}
	}

	return &Flasher{device: device, open: open, config: config}, nil
}

// Flash runs the whole protocol for plan: bootstrap at the low baud rate,
// send the loader, switch to the high baud rate, write each image in role
// order and, if anything was written, enable boot from storage.
//
// The first error aborts the run. Nothing is retried or rolled back. The
// port is closed on every return path.
func (f *Flasher) Flash(ctx context.Context, plan Plan) (*Result, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	r := f.newRun()
	defer r.session.Close()

	r.logger.Info("flash run started",
		zap.String("loader", plan.Loader),
		zap.Int("images", len(plan.Images)))

	if err := r.bootstrap(ctx); err != nil {
		return nil, r.fail("bootstrap", err)
	}

	start := time.Now()

	if err := r.load(ctx, plan.Loader); err != nil {
		return nil, r.fail("load", err)
	}

	if err := r.switchBaud(ctx); err != nil {
		return nil, r.fail("switch baud", err)
	}

	result := &Result{RunID: r.id}
	for _, img := range plan.ordered() {
		flashed, err := r.flashImage(ctx, img)
		if err != nil {
			return nil, r.fail("flash "+string(img.Role), err)
		}
		result.Flashed = append(result.Flashed, flashed)
	}

	if len(result.Flashed) > 0 {
		if err := r.enableBoot(ctx); err != nil {
			return nil, r.fail("enable boot", err)
		}
		result.BootEnabled = true
	}

	if err := r.session.Close(); err != nil {
		return nil, r.fail("close", &TransportError{Op: "close", Err: err})
	}
	result.Elapsed = time.Since(start)

	r.report(Progress{
		Phase:   PhaseComplete,
		Message: fmt.Sprintf("Flashing complete in %d seconds.", result.Seconds()),
	})
	r.logger.Info("flash run complete",
		zap.Int("flashed", len(result.Flashed)),
		zap.Bool("boot_enabled", result.BootEnabled),
		zap.Duration("elapsed", result.Elapsed))

	return result, nil
}

// run holds the per-call state of Flash
type run struct {
	id     string
	config Config
	logger *zap.Logger

	session     *Session
	matcher     *PromptMatcher
	driver      *CommandDriver
	transmitter *FileTransmitter

	phase Phase
	role  Role
	path  string
}

func (f *Flasher) newRun() *run {
	id := uuid.NewString()
	logger := f.config.Logger.With(zap.String("run_id", id), zap.String("device", f.device))

	r := &run{id: id, config: f.config, logger: logger}
	r.session = NewSession(f.device, f.open, Config{
		ReadTimeout: f.config.ReadTimeout,
		SettleDelay: f.config.SettleDelay,
		Logger:      logger,
	})
	r.matcher = NewPromptMatcher(r.session, f.config.Transcript, f.config.PollInterval, logger)
	r.driver = NewCommandDriver(r.session, r.matcher, logger)
	r.transmitter = NewFileTransmitter(r.session, f.config.ChunkSize, r.transferProgress, logger)
	return r
}

func (r *run) enter(phase Phase, message string) {
	r.phase = phase
	r.logger.Info("phase", zap.String("phase", string(phase)), zap.Int("baud", r.session.Baud()))
	r.report(Progress{Phase: phase, Message: message})
}

func (r *run) report(p Progress) {
	if r.config.ProgressCallback == nil {
		return
	}
	if p.Role == "" {
		p.Role = r.role
	}
	p.Baud = r.session.Baud()
	r.config.ProgressCallback(p)
}

func (r *run) transferProgress(sent, total int64) {
	r.report(Progress{Phase: r.phase, Path: r.path, BytesSent: sent, BytesTotal: total})
}

func (r *run) fail(step string, err error) error {
	r.logger.Error("flash run failed",
		zap.String("step", step),
		zap.String("phase", string(r.phase)),
		zap.Error(err))
	return fmt.Errorf("%s: %w", step, err)
}

func (r *run) bootstrap(ctx context.Context) error {
	if err := r.session.Open(r.config.LowBaud); err != nil {
		return err
	}
	r.enter(PhaseAwaitingBootstrap, "Please reset the board")
	return r.matcher.WaitFor(ctx, promptBootstrap, r.config.BootstrapTimeout)
}

func (r *run) load(ctx context.Context, loader string) error {
	r.enter(PhaseLoading, "Sending firmware: "+loader)
	if err := r.sendFile(ctx, loader); err != nil {
		return err
	}
	return r.driver.Send(ctx, "", promptReady, r.config.CommandTimeout)
}

// switchBaud asks the loader to change speed and follows it. SUP has no
// reply at the old speed; the ready prompt after the reopen confirms it.
func (r *run) switchBaud(ctx context.Context) error {
	r.enter(PhaseSwitchingBaud, fmt.Sprintf("Increasing baudrate to %d", r.config.HighBaud))
	if err := r.driver.Send(ctx, cmdSwitchBaud, "", 0); err != nil {
		return err
	}
	if err := r.session.Reopen(ctx, r.config.HighBaud); err != nil {
		return err
	}
	return r.driver.Send(ctx, "", promptReady, r.config.CommandTimeout)
}

func (r *run) flashImage(ctx context.Context, img Image) (FlashedImage, error) {
	sector, _ := Sector(img.Role)
	r.role = img.Role
	defer func() { r.role = "" }()

	info, err := os.Stat(img.Path)
	if err != nil {
		return FlashedImage{}, &TransferIOError{Path: img.Path, Err: err}
	}
	size := info.Size()

	r.enter(PhaseFlashing, fmt.Sprintf("Flashing %s: %s", img.Role, img.Path))

	steps := []struct {
		command  string
		expected string
	}{
		{cmdWriteBlock, promptSelectArea},
		{writeArea, promptStartSector},
		{hexArg(uint64(sector)), promptFileSize},
		{hexArg(uint64(size)), promptSendBinary},
	}
	for _, step := range steps {
		if err := r.driver.Send(ctx, step.command, step.expected, r.config.CommandTimeout); err != nil {
			return FlashedImage{}, err
		}
	}

	r.report(Progress{Phase: r.phase, Path: img.Path, Message: "Sending binary file: " + img.Path})
	if err := r.sendFile(ctx, img.Path); err != nil {
		return FlashedImage{}, err
	}
	if err := r.matcher.WaitFor(ctx, promptReady, r.config.WriteCompleteTimeout); err != nil {
		return FlashedImage{}, err
	}

	r.logger.Info("image flashed",
		zap.String("role", string(img.Role)),
		zap.String("sector", "0x"+hexArg(uint64(sector))),
		zap.Int64("size", size))

	return FlashedImage{Role: img.Role, Path: img.Path, Sector: sector, Size: size}, nil
}

func (r *run) enableBoot(ctx context.Context) error {
	r.enter(PhaseEnablingBoot, "Enabling boot from eMMC")

	steps := []struct {
		command  string
		expected string
	}{
		{cmdSetCSD, promptCSDIndex},
		{csdPartitionConfig, promptCSDValue},
		{csdBootPartition1, promptReady},
	}
	for _, step := range steps {
		if err := r.driver.Send(ctx, step.command, step.expected, r.config.CommandTimeout); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) sendFile(ctx context.Context, path string) error {
	r.path = path
	defer func() { r.path = "" }()

	if _, err := r.transmitter.SendFile(ctx, path); err != nil {
		return err
	}
	r.report(Progress{Phase: r.phase, Path: path, Message: "File transfer complete."})
	return nil
}
