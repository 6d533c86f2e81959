// Package serial provides raw serial port access for talking to boot ROMs and
// bootloaders on Linux.
//
// Two drivers share the Port interface. Open drives termios directly through
// golang.org/x/sys/unix and takes exclusive ownership of the device.
// OpenPortable goes through go.bug.st/serial for hosts where the termios
// driver is unavailable.
//
// # Basic Usage
//
// Open a serial port with default configuration (115200 8N1, 100ms reads):
//
//	port, err := serial.Open("/dev/ttyUSB0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
//	n, err := port.Write([]byte("EM_WB\r"))
//	buffer := make([]byte, 256)
//	n, err = port.Read(buffer) // 0, nil when the read timeout expires
//
// # Configuration Options
//
//	port, err := serial.Open("/dev/ttyUSB0",
//	    serial.WithBaudRate(921600),
//	    serial.WithReadTimeout(200*time.Millisecond),
//	)
//
// # Port Discovery
//
//	ports, err := serial.ListPorts()
//	for _, portPath := range ports {
//	    info, _ := serial.GetPortInfo(portPath)
//	    fmt.Printf("%s: %s (VID=%s PID=%s)\n",
//	        info.Path, info.Description, info.VendorID, info.ProductID)
//	}
//
// # Errors
//
// Open failures map onto ErrDeviceNotFound, ErrPermissionDenied and
// ErrDeviceInUse. Read and Write return ErrDisconnected when the adapter
// goes away, and ErrPortClosed after Close.
package serial
