package flashwriter

// Phase identifies where a flash run is in the bootloader protocol.
type Phase string

const (
	PhaseAwaitingBootstrap Phase = "awaiting-bootstrap"
	PhaseLoading           Phase = "loading"
	PhaseSwitchingBaud     Phase = "switching-baud"
	PhaseFlashing          Phase = "flashing"
	PhaseEnablingBoot      Phase = "enabling-boot"
	PhaseComplete          Phase = "complete"
)

// Progress is passed to the ProgressCallback during a flash run.
//
// Phase changes and operator notices carry a Message. File transfers report
// BytesSent and BytesTotal after every chunk; the counters start over for
// each file.
type Progress struct {
	Phase Phase

	// Role is set while an image is being flashed, empty for the loader
	Role Role

	// Path of the file being transferred, if any
	Path string

	// Baud is the line speed in use
	Baud int

	BytesSent  int64
	BytesTotal int64

	// Message is an operator-facing notice such as "Please reset the board"
	Message string
}

// Percentage returns transfer completion from 0 to 100.
func (p Progress) Percentage() float64 {
	if p.BytesTotal <= 0 {
		return 0
	}
	return float64(p.BytesSent) / float64(p.BytesTotal) * 100
}

// ProgressCallback is called synchronously from the flashing goroutine.
// Implementations should return quickly.
type ProgressCallback func(Progress)
