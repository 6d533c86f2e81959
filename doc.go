// Package flashwriter writes firmware images to a board's eMMC through its
// serial download mode.
//
// A run starts at 115200 baud. The boot ROM announces itself with
// "please send !" once the board is reset. The host then sends a flash
// writer loader, asks it to switch to 921600 baud, and reopens the port at
// the new speed. Each image is written with EM_WB to a fixed sector chosen
// by its role. When at least one image was written, EM_SECSD sets the boot
// partition.
//
// # Basic Usage
//
//	opener, err := flashwriter.SerialOpener(flashwriter.DriverTermios)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	f, err := flashwriter.New("/dev/ttyUSB0", opener)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := f.Flash(ctx, flashwriter.Plan{
//	    Loader: "flashwriter.mot",
//	    Images: []flashwriter.Image{
//	        {Role: flashwriter.RoleBL2, Path: "bl2.bin"},
//	        {Role: flashwriter.RoleFIP, Path: "fip.bin"},
//	    },
//	})
//
// # Building Blocks
//
// Flasher is assembled from smaller pieces that can be used alone: Session
// owns the port across baud changes, PromptMatcher waits for prompt text,
// CommandDriver sends one command line, and FileTransmitter streams a file.
//
// # Errors
//
// Failures are typed and match a sentinel through errors.Is:
// *DeviceOpenError (ErrDeviceOpen), *TransportError (ErrTransport),
// *PromptTimeoutError (ErrPromptTimeout), *TransferIOError (ErrTransferIO)
// and *ConfigError (ErrConfig).
package flashwriter
