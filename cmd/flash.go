/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"unicode"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/allbin/flashwriter"
	"github.com/allbin/flashwriter/internal/config"
	"github.com/allbin/flashwriter/internal/observability"
	"github.com/allbin/flashwriter/internal/tui/components"
	"github.com/allbin/flashwriter/internal/tui/models"
	"github.com/allbin/flashwriter/internal/tui/styles"
)

// flashCmd represents the flash command
var flashCmd = &cobra.Command{
	Use:   "flash",
	Short: "Write firmware images to eMMC over the serial download mode",
	Long: `Load the flash writer into a board waiting in serial download mode and
write firmware images to the eMMC boot partition.

The board is expected at 115200 baud. After the flash writer is loaded the
line is switched to 921600 baud for the image transfers. Images are written
in the order bl2, fip, overlays regardless of the order given, and boot from
eMMC is enabled once at least one image has been written.

Examples:
  flashwriter flash --fw flash_writer.mot --bl2 bl2.bin --fip fip.bin
  flashwriter flash -p /dev/ttyUSB1 --fw flash_writer.mot --overlays overlays.bin
  flashwriter flash --fw flash_writer.mot --fip fip.bin --tui
  flashwriter flash --fw flash_writer.mot --fip fip.bin --transcript board.log`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runFlash(cmd); err != nil {
			if errors.Is(err, errNoImages) {
				fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render(capitalize(err.Error())))
				os.Exit(1)
			}

			var timeout *flashwriter.PromptTimeoutError
			if errors.As(err, &timeout) {
				fmt.Fprintf(os.Stderr, "\nBuffer received: %q\n", timeout.Received)
			}
			exitWithError(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(flashCmd)

	flashCmd.Flags().StringP("port", "p", "/dev/ttyUSB0", "Serial device the board is attached to")
	flashCmd.Flags().String("driver", "", "Serial driver: termios or portable")
	flashCmd.Flags().String("fw", "", "Flash writer loader (.mot) sent in download mode")
	flashCmd.Flags().String("bl2", "", "bl2 image, written at sector 0x1")
	flashCmd.Flags().String("fip", "", "fip image, written at sector 0x100")
	flashCmd.Flags().String("overlays", "", "Overlays image, written at sector 0x1800")
	flashCmd.Flags().Bool("tui", false, "Show an interactive view instead of plain output")
	flashCmd.Flags().String("transcript", "", "Append everything the device prints to this file")

	_ = flashCmd.MarkFlagRequired("fw")
}

var errNoImages = errors.New("at least one of --bl2, --fip, or --overlays must be specified")

// capitalize upper-cases the first letter of an error message for display
func capitalize(msg string) string {
	r, size := utf8.DecodeRuneInString(msg)
	if size == 0 {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}

func planFromFlags(cmd *cobra.Command) (flashwriter.Plan, error) {
	loader, _ := cmd.Flags().GetString("fw")
	plan := flashwriter.Plan{Loader: loader}

	for _, role := range flashwriter.Roles() {
		path, _ := cmd.Flags().GetString(string(role))
		if path != "" {
			plan.Images = append(plan.Images, flashwriter.Image{Role: role, Path: path})
		}
	}
	if len(plan.Images) == 0 {
		return plan, errNoImages
	}
	return plan, plan.Validate()
}

func runFlash(cmd *cobra.Command) error {
	plan, err := planFromFlags(cmd)
	if err != nil {
		return err
	}

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := observability.SetupLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	opener, err := flashwriter.SerialOpener(cfg.Driver)
	if err != nil {
		return err
	}

	var transcript io.Writer = io.Discard
	if path, _ := cmd.Flags().GetString("transcript"); path != "" {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open transcript: %w", err)
		}
		defer file.Close()
		transcript = file
		logger.Info("appending device transcript", zap.String("path", path))
	}

	// Cancel the run on Ctrl+C; the port is closed on the way out
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	opts := append(cfg.FlashOptions(), flashwriter.WithLogger(logger))

	if useTUI, _ := cmd.Flags().GetBool("tui"); useTUI {
		return flashWithTUI(ctx, cancel, cfg.Port, opener, plan, transcript, opts)
	}
	return flashPlain(ctx, cfg.Port, opener, plan, transcript, opts)
}

func flashPlain(ctx context.Context, port string, opener flashwriter.Opener, plan flashwriter.Plan, transcript io.Writer, opts []flashwriter.Option) error {
	out := &plainOutput{
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		interactive: isatty.IsTerminal(os.Stderr.Fd()),
		bar:         components.NewTransferBar(40),
	}

	opts = append(opts,
		flashwriter.WithTranscript(io.MultiWriter(out, transcript)),
		flashwriter.WithProgressCallback(out.progress),
	)

	f, err := flashwriter.New(port, opener, opts...)
	if err != nil {
		return err
	}

	fmt.Println(styles.InfoStyle.Render("Opening " + port))
	_, err = f.Flash(ctx, plan)
	out.clearBar()
	return err
}

// plainOutput echoes the device to stdout and keeps a single redrawn
// transfer bar on stderr when stderr is a terminal
type plainOutput struct {
	stdout      io.Writer
	stderr      io.Writer
	interactive bool
	bar         *components.TransferBar
	barShown    bool
}

func (o *plainOutput) Write(p []byte) (int, error) {
	o.clearBar()
	return o.stdout.Write(p)
}

func (o *plainOutput) clearBar() {
	if o.barShown {
		fmt.Fprint(o.stderr, "\r\033[K")
		o.barShown = false
	}
}

func (o *plainOutput) progress(p flashwriter.Progress) {
	switch {
	case p.Message != "":
		o.clearBar()
		style := styles.NoticeStyle
		if p.Phase == flashwriter.PhaseComplete {
			style = styles.SuccessStyle
		}
		fmt.Fprintln(o.stdout, "\n"+style.Render(p.Message))
	case p.BytesTotal > 0 && o.interactive:
		fmt.Fprint(o.stderr, "\r"+o.bar.View(p))
		o.barShown = true
	}
}

func flashWithTUI(ctx context.Context, cancel context.CancelFunc, port string, opener flashwriter.Opener, plan flashwriter.Plan, transcript io.Writer, opts []flashwriter.Option) error {
	model := models.NewFlashModel(port, cancel)
	p := tea.NewProgram(model, tea.WithAltScreen())

	opts = append(opts,
		flashwriter.WithTranscript(io.MultiWriter(models.TranscriptWriter{Sender: p}, transcript)),
		flashwriter.WithProgressCallback(models.ProgressForwarder(p)),
	)

	f, err := flashwriter.New(port, opener, opts...)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		result, err := f.Flash(ctx, plan)
		p.Send(models.DoneMsg{Result: result, Err: err})
		done <- err
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-done
		return fmt.Errorf("TUI error: %w", err)
	}

	// Quitting early cancels the context; wait for the port to be closed
	cancel()
	flashErr := <-done

	if summary := model.Summary(); summary != "" && flashErr == nil {
		fmt.Println(summary)
	}
	if model.Aborted() && flashErr == nil {
		return errors.New("aborted")
	}
	return flashErr
}
